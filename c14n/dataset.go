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
	"regexp"
	"strings"
)

// Quad represents an RDF quad. Graph is nil for quads in the default graph.
type Quad struct {
	Subject   Node
	Predicate Node
	Object    Node
	Graph     Node
}

// NewQuad creates a new instance of Quad. An empty or "@default" graph name
// places the quad in the default graph; a name starting with "_:" makes the
// graph a blank node.
func NewQuad(subject Node, predicate Node, object Node, graph string) *Quad {
	q := &Quad{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}

	if graph != "" && graph != "@default" {
		if strings.HasPrefix(graph, "_:") {
			q.Graph = NewBlankNode(strings.TrimPrefix(graph, "_:"))
		} else {
			q.Graph = NewIRI(graph)
		}
	}
	return q
}

// Equal returns true if this quad is equal to the given quad.
func (q *Quad) Equal(o *Quad) bool {
	if o == nil {
		return false
	}

	if (q.Graph != nil && !q.Graph.Equal(o.Graph)) || (q.Graph == nil && o.Graph != nil && !IsDefaultGraph(o.Graph)) {
		return false
	}

	return q.Subject.Equal(o.Subject) && q.Predicate.Equal(o.Predicate) && q.Object.Equal(o.Object)
}

// Valid reports whether the quad is well-formed: subject is an IRI or blank
// node, predicate is an IRI (generalized quads with blank predicates are
// not supported), object is any term and graph is an IRI, blank node or the
// default graph.
func (q *Quad) Valid() bool {
	switch q.Subject.(type) {
	case *IRI, *BlankNode:
	default:
		return false
	}

	if !IsIRI(q.Predicate) {
		return false
	}

	switch q.Object.(type) {
	case *IRI, *BlankNode, *Literal:
	default:
		return false
	}

	if q.Graph != nil {
		switch q.Graph.(type) {
		case *IRI, *BlankNode, *DefaultGraph:
		default:
			return false
		}
	}

	for _, node := range []Node{q.Subject, q.Predicate, q.Object, q.Graph} {
		if node != nil && InvalidNode(node) {
			return false
		}
	}

	return true
}

// Dataset is a set of quads. Duplicate quads are silently dropped on Add,
// and iteration over Quads preserves insertion order.
type Dataset struct {
	Quads []*Quad

	keys map[string]bool
}

// NewDataset creates a new, empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{
		Quads: make([]*Quad, 0),
		keys:  make(map[string]bool),
	}
}

// NewDatasetFromQuads builds a Dataset from a sequence of quads which may
// contain duplicates.
func NewDatasetFromQuads(quads []*Quad) *Dataset {
	ds := NewDataset()
	for _, q := range quads {
		ds.Add(q)
	}
	return ds
}

// Add inserts the quad unless an equal quad is already present. It returns
// true if the quad was added.
func (ds *Dataset) Add(q *Quad) bool {
	key := serializeQuad(q)
	if ds.keys[key] {
		return false
	}
	ds.keys[key] = true
	ds.Quads = append(ds.Quads, q)
	return true
}

// Contains returns true if an equal quad is present in the dataset.
func (ds *Dataset) Contains(q *Quad) bool {
	return ds.keys[serializeQuad(q)]
}

// Len returns the number of distinct quads in the dataset.
func (ds *Dataset) Len() int {
	return len(ds.Quads)
}

var (
	validLanguageRegex = regexp.MustCompile("^[a-zA-Z]+(-[a-zA-Z0-9]+)*$")
	invalidIRIChars    = " \t\n\r<>\"{}|^`\\"
)

// InvalidNode reports terms that cannot appear in a well-formed quad.
func InvalidNode(node Node) bool {
	switch v := node.(type) {
	case *IRI:
		if !validIRI(v.Value) {
			return true
		}
	case *Literal:
		if v.Language != "" && !validLanguageRegex.MatchString(v.Language) {
			return true
		}
		if v.Datatype != "" && !validIRI(v.Datatype) {
			return true
		}
	}

	return false
}

func validIRI(val string) bool {
	if val == "" {
		return false
	}
	return !strings.ContainsAny(val, invalidIRIChars)
}
