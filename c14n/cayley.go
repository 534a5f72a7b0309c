// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package c14n

import (
	"fmt"

	"github.com/cayleygraph/quad"
)

// FromCayleyQuads builds a Dataset from Cayley quads, so datasets exported
// from a Cayley store can be canonicalized directly. Quad labels become
// graph names; an unset label means the default graph. Only IRIs, blank
// nodes and string literals (plain, typed or language-tagged) are
// converted: any other Cayley value, such as a native number, boolean or
// time, and a nil term in a required position are rejected as
// InvalidInput.
func FromCayleyQuads(quads []quad.Quad) (*Dataset, error) {
	ds := NewDataset()
	for i, q := range quads {
		subject, err := fromCayleyValue(q.Subject)
		if err != nil {
			return nil, NewC14NError(InvalidInput, fmt.Sprintf("quad %d subject: %v", i, err))
		}
		predicate, err := fromCayleyValue(q.Predicate)
		if err != nil {
			return nil, NewC14NError(InvalidInput, fmt.Sprintf("quad %d predicate: %v", i, err))
		}
		object, err := fromCayleyValue(q.Object)
		if err != nil {
			return nil, NewC14NError(InvalidInput, fmt.Sprintf("quad %d object: %v", i, err))
		}

		converted := &Quad{
			Subject:   subject,
			Predicate: predicate,
			Object:    object,
		}
		if q.Label != nil {
			graph, err := fromCayleyValue(q.Label)
			if err != nil {
				return nil, NewC14NError(InvalidInput, fmt.Sprintf("quad %d label: %v", i, err))
			}
			converted.Graph = graph
		}

		if !converted.Valid() {
			return nil, NewC14NError(InvalidInput, fmt.Sprintf("quad %d is not a valid RDF quad", i))
		}
		ds.Add(converted)
	}
	return ds, nil
}

// ToCayleyQuads converts a Dataset into Cayley quads, e.g. for loading a
// canonicalized dataset into a Cayley store.
func ToCayleyQuads(ds *Dataset) []quad.Quad {
	out := make([]quad.Quad, 0, len(ds.Quads))
	for _, q := range ds.Quads {
		cq := quad.Quad{
			Subject:   toCayleyValue(q.Subject),
			Predicate: toCayleyValue(q.Predicate),
			Object:    toCayleyValue(q.Object),
		}
		if !IsDefaultGraph(q.Graph) {
			cq.Label = toCayleyValue(q.Graph)
		}
		out = append(out, cq)
	}
	return out
}

func fromCayleyValue(v quad.Value) (Node, error) {
	switch val := v.(type) {
	case quad.IRI:
		return NewIRI(string(val)), nil
	case quad.BNode:
		return NewBlankNode(string(val)), nil
	case quad.String:
		return NewLiteral(string(val), XSDString, ""), nil
	case quad.TypedString:
		return NewLiteral(string(val.Value), string(val.Type), ""), nil
	case quad.LangString:
		return NewLiteral(string(val.Value), RDFLangString, val.Lang), nil
	case nil:
		return nil, fmt.Errorf("missing value")
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func toCayleyValue(node Node) quad.Value {
	switch n := node.(type) {
	case *IRI:
		return quad.IRI(n.Value)
	case *BlankNode:
		return quad.BNode(n.Attribute)
	case *Literal:
		switch {
		case n.Datatype == RDFLangString:
			return quad.LangString{Value: quad.String(n.Value), Lang: n.Language}
		case n.Datatype != "" && n.Datatype != XSDString:
			return quad.TypedString{Value: quad.String(n.Value), Type: quad.IRI(n.Datatype)}
		default:
			return quad.String(n.Value)
		}
	default:
		return nil
	}
}
