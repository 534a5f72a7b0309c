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

package c14n_test

import (
	"testing"

	"github.com/cayleygraph/quad"
	. "github.com/piprate/rdf-canon/c14n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCayleyQuads(t *testing.T) {
	quads := []quad.Quad{
		{
			Subject:   quad.BNode("x"),
			Predicate: quad.IRI("http://ex/p"),
			Object:    quad.IRI("http://ex/o"),
		},
		{
			Subject:   quad.IRI("http://ex/s"),
			Predicate: quad.IRI("http://ex/name"),
			Object:    quad.LangString{Value: quad.String("name"), Lang: "en"},
			Label:     quad.IRI("http://ex/g"),
		},
		{
			Subject:   quad.IRI("http://ex/s"),
			Predicate: quad.IRI("http://ex/age"),
			Object:    quad.TypedString{Value: quad.String("42"), Type: quad.IRI(XSDInteger)},
		},
	}

	ds, err := FromCayleyQuads(quads)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	assert.True(t, IsBlankNode(ds.Quads[0].Subject))
	assert.Equal(t, "x", ds.Quads[0].Subject.GetValue())

	name := ds.Quads[1].Object.(*Literal)
	assert.Equal(t, "name", name.Value)
	assert.Equal(t, RDFLangString, name.Datatype)
	assert.Equal(t, "en", name.Language)
	assert.True(t, IsIRI(ds.Quads[1].Graph))

	age := ds.Quads[2].Object.(*Literal)
	assert.Equal(t, XSDInteger, age.Datatype)
}

func TestFromCayleyQuadsRejectsUnsupportedValues(t *testing.T) {
	_, err := FromCayleyQuads([]quad.Quad{{
		Subject:   quad.Int(42),
		Predicate: quad.IRI("http://ex/p"),
		Object:    quad.IRI("http://ex/o"),
	}})
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, InvalidInput))
}

func TestFromCayleyQuadsRejectsGeneralizedQuads(t *testing.T) {
	_, err := FromCayleyQuads([]quad.Quad{{
		Subject:   quad.IRI("http://ex/s"),
		Predicate: quad.BNode("p"),
		Object:    quad.IRI("http://ex/o"),
	}})
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, InvalidInput))
}

func TestCayleyRoundTrip(t *testing.T) {
	doc := `_:a <http://ex/p> _:b .
<http://ex/s> <http://ex/p> "v"@en <http://ex/g> .
<http://ex/s> <http://ex/p> "plain" .
`
	ds, err := ParseNQuads(doc)
	require.NoError(t, err)

	converted, err := FromCayleyQuads(ToCayleyQuads(ds))
	require.NoError(t, err)
	assert.Equal(t, SerializeNQuads(ds), SerializeNQuads(converted))
}

func TestCanonicalizeCayleyQuads(t *testing.T) {
	ds, err := FromCayleyQuads([]quad.Quad{{
		Subject:   quad.IRI("http://ex/s"),
		Predicate: quad.IRI("http://ex/p"),
		Object:    quad.BNode("x"),
	}})
	require.NoError(t, err)

	result := mustCanonicalize(t, ds)
	assert.Equal(t, "<http://ex/s> <http://ex/p> _:c14n0 .\n", result.Document)
}
