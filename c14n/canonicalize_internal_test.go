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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, doc string) *Canonicalizer {
	t.Helper()
	c, err := NewCanonicalizer(nil)
	require.NoError(t, err)
	require.NoError(t, c.ingest(doc))
	for _, quad := range c.quads {
		for _, attrNode := range []Node{quad.Subject, quad.Object, quad.Graph} {
			if attrNode != nil && IsBlankNode(attrNode) {
				id := attrNode.GetValue()
				c.bnodeToQuads[id] = append(c.bnodeToQuads[id], quad)
			}
		}
	}
	return c
}

// The identifier hashed for a related blank node is _:-prefixed when it
// comes from the canonical or path issuer, and bare when it falls back to
// the first degree hash.
func TestHashRelatedPrefixing(t *testing.T) {
	doc := "_:a <http://ex/p> _:b .\n"

	c := newTestState(t, doc)
	quad := c.quads[0]
	algorithm := c.opts.HashAlgorithm
	pathIssuer := NewIdentifierIssuer(TemporaryPrefix)

	// no issued label: bare first degree hash
	firstDegree := c.hashFirstDegreeQuads("b")
	expected := algorithm.Hash([]byte("o" + "<http://ex/p>" + firstDegree))
	assert.Equal(t, expected, c.hashRelatedBlankNode("b", quad, pathIssuer, "o"))

	// path issuer label wins over the first degree hash
	pathIssuer.GetId("b")
	expected = algorithm.Hash([]byte("o" + "<http://ex/p>" + "_:b0"))
	assert.Equal(t, expected, c.hashRelatedBlankNode("b", quad, pathIssuer, "o"))

	// canonical label wins over both
	c.canonicalIssuer.GetId("b")
	expected = algorithm.Hash([]byte("o" + "<http://ex/p>" + "_:c14n0"))
	assert.Equal(t, expected, c.hashRelatedBlankNode("b", quad, pathIssuer, "o"))
}

// The graph position omits the predicate from the related hash input.
func TestHashRelatedGraphPosition(t *testing.T) {
	doc := "<http://ex/s> <http://ex/p> \"v\" _:g .\n_:g <http://ex/p> \"w\" .\n"

	c := newTestState(t, doc)
	quad := c.quads[0]
	pathIssuer := NewIdentifierIssuer(TemporaryPrefix)

	firstDegree := c.hashFirstDegreeQuads("g")
	expected := c.opts.HashAlgorithm.Hash([]byte("g" + firstDegree))
	assert.Equal(t, expected, c.hashRelatedBlankNode("g", quad, pathIssuer, "g"))
}

func TestFirstDegreeHashCollapsesLabels(t *testing.T) {
	doc := "_:a <http://ex/p> _:b .\n_:c <http://ex/p> _:d .\n"

	c := newTestState(t, doc)

	// a and c play the same role, as do b and d
	assert.Equal(t, c.hashFirstDegreeQuads("a"), c.hashFirstDegreeQuads("c"))
	assert.Equal(t, c.hashFirstDegreeQuads("b"), c.hashFirstDegreeQuads("d"))
	assert.NotEqual(t, c.hashFirstDegreeQuads("a"), c.hashFirstDegreeQuads("b"))
}

func TestFirstDegreeHashKnownAnswer(t *testing.T) {
	c := newTestState(t, "<http://ex/s> <http://ex/p> _:x .\n")

	// sha-256 of `<http://ex/s> <http://ex/p> _:a .\n`
	assert.Equal(t,
		"b83d19b6d80f0d7dcc49fb744cfec36124abd7e0769d5da3c31f330a1dff14ff",
		c.hashFirstDegreeQuads("x"))
}

func TestModifyFirstDegreeComponent(t *testing.T) {
	assert.Equal(t, NewBlankNode("a"), modifyFirstDegreeComponent("x", NewBlankNode("x")))
	assert.Equal(t, NewBlankNode("z"), modifyFirstDegreeComponent("x", NewBlankNode("y")))

	iri := NewIRI("http://ex/s")
	assert.Same(t, iri, modifyFirstDegreeComponent("x", iri).(*IRI))
	assert.Nil(t, modifyFirstDegreeComponent("x", nil))
}
