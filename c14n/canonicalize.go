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
	"context"
	"sort"
	"strings"
)

var (
	// Positions are the quad positions a blank node can occupy, in the
	// order subject, object, graph. Predicates never hold blank nodes.
	Positions = []string{"s", "o", "g"}
)

// CanonicalizationResult is the output of Canonicalize.
type CanonicalizationResult struct {
	// Document is the canonical N-Quads document: the sorted canonical
	// statements concatenated, each terminated with a newline.
	Document string

	// Dataset holds the rewritten quads.
	Dataset *Dataset

	// BlankNodes maps each input blank node label to its canonical term.
	BlankNodes map[string]*BlankNode

	// IssuedIdentifiers maps each input blank node label to the canonical
	// label it was issued.
	IssuedIdentifiers map[string]string
}

// Canonicalizer implements the RDFC-1.0 canonicalization algorithm. The
// zero value is not usable; create instances with NewCanonicalizer. A
// Canonicalizer may be reused for many datasets sequentially: its state is
// re-initialized on every Canonicalize call. It is not safe for concurrent
// use.
type Canonicalizer struct {
	opts   *CanonicalizationOptions
	logger Logger

	// per-invocation state
	quads             []*Quad
	bnodeToQuads      map[string][]*Quad
	bnodeOrder        []string
	hashToBlankNodes  map[string][]string
	canonicalIssuer   *IdentifierIssuer
	firstDegreeHashes map[string]string
	maxNDegreeCalls   int
	nDegreeCalls      int
}

// NewCanonicalizer creates a Canonicalizer with the given options, which
// may be nil for the defaults. The options are validated here so the
// algorithm itself never has to deal with an unknown hash name or an
// out-of-range complexity factor.
func NewCanonicalizer(opts *CanonicalizationOptions) (*Canonicalizer, error) {
	if opts == nil {
		opts = NewCanonicalizationOptions()
	} else {
		opts = opts.Copy()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = NopLogger{}
	}

	return &Canonicalizer{opts: opts, logger: logger}, nil
}

// Canonicalize runs the RDFC-1.0 algorithm over the input. The input may
// be a *Dataset, a []*Quad sequence (duplicates are dropped), or an
// N-Quads document as a string, []byte or io.Reader.
func (c *Canonicalizer) Canonicalize(input interface{}) (*CanonicalizationResult, error) {
	return c.CanonicalizeWithContext(context.Background(), input)
}

// CanonicalizeWithContext is Canonicalize with caller-supplied
// cancellation. The context is consulted between top-level phases and on
// every n-degree call; when it fires, the partial state is discarded and
// the context error is returned.
func (c *Canonicalizer) CanonicalizeWithContext(ctx context.Context, input interface{}) (*CanonicalizationResult, error) {
	// Phase 1: ingest the input and reset all per-invocation state.
	if err := c.ingest(input); err != nil {
		return nil, err
	}
	c.logger.Debug("ca.1", map[string]interface{}{"quads": len(c.quads)})

	// Phase 2: build the blank node to quads map. A blank node is indexed
	// for every quad it appears in at subject, object or graph position.
	for _, quad := range c.quads {
		for _, attrNode := range []Node{quad.Subject, quad.Object, quad.Graph} {
			if attrNode != nil && IsBlankNode(attrNode) {
				id := attrNode.GetValue()
				if _, seen := c.bnodeToQuads[id]; !seen {
					c.bnodeOrder = append(c.bnodeOrder, id)
				}
				c.bnodeToQuads[id] = append(c.bnodeToQuads[id], quad)
			}
		}
	}
	c.logger.Debug("ca.2", map[string]interface{}{"blank_nodes": len(c.bnodeOrder)})

	// Phase 3: derive the n-degree call budget. This is the sole guard
	// against poison graphs, enforced as a hard ceiling in hashNDegreeQuads.
	c.maxNDegreeCalls = c.opts.ComplexityFactor * len(c.bnodeOrder)

	if err := ctx.Err(); err != nil {
		return nil, NewC14NError(Canceled, err)
	}

	// Phase 4: compute the first degree hash of every blank node and
	// bucket the labels by hash.
	for _, id := range c.bnodeOrder {
		hash := c.hashFirstDegreeQuads(id)
		c.hashToBlankNodes[hash] = append(c.hashToBlankNodes[hash], id)
	}

	// Phase 5: in ascending hash order, issue canonical identifiers for
	// the blank nodes whose first degree hash is unique.
	for _, hash := range sortedKeys(c.hashToBlankNodes) {
		idList := c.hashToBlankNodes[hash]
		if len(idList) > 1 {
			continue
		}

		c.canonicalIssuer.GetId(idList[0])
		delete(c.hashToBlankNodes, hash)
	}
	c.logger.Debug("ca.5", map[string]interface{}{"issuer": c.canonicalIssuer.ToLog()})

	if err := ctx.Err(); err != nil {
		return nil, NewC14NError(Canceled, err)
	}

	// Phase 6: resolve the remaining, shared-hash blank nodes with the
	// n-degree hash. Results are committed in ascending n-degree hash
	// order by replaying each chosen issuer's issuance sequence against
	// the canonical issuer.
	for _, hash := range sortedKeys(c.hashToBlankNodes) {
		type hashPathResult struct {
			hash   string
			issuer *IdentifierIssuer
		}
		hashPathList := make([]hashPathResult, 0, len(c.hashToBlankNodes[hash]))

		for _, id := range c.hashToBlankNodes[hash] {
			if c.canonicalIssuer.HasId(id) {
				continue
			}

			issuer := NewIdentifierIssuer(TemporaryPrefix)
			issuer.GetId(id)

			resultHash, resultIssuer, err := c.hashNDegreeQuads(ctx, id, issuer)
			if err != nil {
				return nil, err
			}
			hashPathList = append(hashPathList, hashPathResult{resultHash, resultIssuer})
		}

		sort.SliceStable(hashPathList, func(i, j int) bool {
			return hashPathList[i].hash < hashPathList[j].hash
		})
		for _, result := range hashPathList {
			result.issuer.Issued(func(existing, _ string) {
				c.canonicalIssuer.GetId(existing)
			})
		}
	}
	c.logger.Debug("ca.6", map[string]interface{}{"issuer": c.canonicalIssuer.ToLog()})

	// Phase 7: rewrite the quads, replacing every blank node label with
	// its canonical label. The input quads are left untouched.
	canonical := NewDataset()
	for _, quad := range c.quads {
		canonical.Add(&Quad{
			Subject:   c.relabel(quad.Subject),
			Predicate: quad.Predicate,
			Object:    c.relabel(quad.Object),
			Graph:     c.relabel(quad.Graph),
		})
	}

	// Phase 8: emit the canonical document and the label maps.
	result := &CanonicalizationResult{
		Document:          SerializeNQuads(canonical),
		Dataset:           canonical,
		BlankNodes:        make(map[string]*BlankNode),
		IssuedIdentifiers: c.canonicalIssuer.IssuedMap(),
	}
	for existing, issued := range result.IssuedIdentifiers {
		result.BlankNodes[existing] = NewBlankNode(issued)
	}
	return result, nil
}

// HashDataset canonicalizes the input and returns the digest of the
// canonical N-Quads document under the canonicalizer's hash algorithm.
func (c *Canonicalizer) HashDataset(input interface{}) (string, error) {
	result, err := c.Canonicalize(input)
	if err != nil {
		return "", err
	}
	return c.opts.HashAlgorithm.Hash([]byte(result.Document)), nil
}

func (c *Canonicalizer) ingest(input interface{}) error {
	c.bnodeToQuads = make(map[string][]*Quad)
	c.bnodeOrder = make([]string, 0)
	c.hashToBlankNodes = make(map[string][]string)
	c.canonicalIssuer = NewCanonicalIssuer()
	c.firstDegreeHashes = make(map[string]string)
	c.nDegreeCalls = 0
	c.maxNDegreeCalls = 0

	switch inp := input.(type) {
	case *Dataset:
		c.quads = inp.Quads
	case []*Quad:
		// uniqueness is not guaranteed by a plain sequence
		c.quads = NewDatasetFromQuads(inp).Quads
	default:
		dataset, err := ParseNQuadsFrom(input)
		if err != nil {
			return err
		}
		c.quads = dataset.Quads
	}
	return nil
}

func (c *Canonicalizer) relabel(node Node) Node {
	if node == nil || !IsBlankNode(node) {
		return node
	}
	// Defensive: every blank node has been issued a label at this point.
	return NewBlankNode(c.canonicalIssuer.GetId(node.GetValue()))
}

// 4.6) Hash First Degree Quads
func (c *Canonicalizer) hashFirstDegreeQuads(id string) string {
	// return cached hash
	if hash, hasHash := c.firstDegreeHashes[id]; hasHash {
		return hash
	}

	// Serialize every quad mentioning the node with its blank labels
	// collapsed: the reference node becomes _:a, every other blank node
	// becomes _:z. The hash therefore depends only on the shape of the
	// node's immediate neighbourhood.
	quads := c.bnodeToQuads[id]
	nquads := make([]string, 0, len(quads))
	for _, quad := range quads {
		nquads = append(nquads, toNQuad(&Quad{
			Subject:   modifyFirstDegreeComponent(id, quad.Subject),
			Predicate: quad.Predicate,
			Object:    modifyFirstDegreeComponent(id, quad.Object),
			Graph:     modifyFirstDegreeComponent(id, quad.Graph),
		}))
	}

	sort.Strings(nquads)

	hash := c.opts.HashAlgorithm.Hash([]byte(strings.Join(nquads, "")))
	c.firstDegreeHashes[id] = hash
	c.logger.Debug("h1dq", map[string]interface{}{"id": id, "hash": hash})
	return hash
}

// helper for collapsing blank labels during Hash First Degree Quads
func modifyFirstDegreeComponent(id string, component Node) Node {
	if component == nil || !IsBlankNode(component) {
		return component
	}
	if component.GetValue() == id {
		return NewBlankNode("a")
	}
	return NewBlankNode("z")
}

// 4.7) Hash Related Blank Node
func (c *Canonicalizer) hashRelatedBlankNode(related string, quad *Quad, issuer *IdentifierIssuer, position string) string {
	// Identify related with the strongest name available: the canonical
	// label if issued, then the path issuer's label, then its first
	// degree hash. Issued labels carry the _: marker, a first degree
	// hash does not.
	var id string
	if c.canonicalIssuer.HasId(related) {
		id = "_:" + c.canonicalIssuer.GetId(related)
	} else if issuer.HasId(related) {
		id = "_:" + issuer.GetId(related)
	} else {
		id = c.hashFirstDegreeQuads(related)
	}

	md := c.opts.HashAlgorithm.New()
	md.Write([]byte(position))

	if position != "g" {
		md.Write([]byte("<" + quad.Predicate.GetValue() + ">"))
	}

	md.Write([]byte(id))

	return encodeHex(md.Sum(nil))
}

// 4.8) Hash N-Degree Quads
func (c *Canonicalizer) hashNDegreeQuads(ctx context.Context, id string, issuer *IdentifierIssuer) (string, *IdentifierIssuer, error) {
	// Every call, recursive ones included, counts against the budget set
	// in phase 3. Going over it means the input needs more work than any
	// honest dataset of its size can: fail instead of spinning.
	c.nDegreeCalls++
	if c.nDegreeCalls > c.maxNDegreeCalls {
		return "", nil, NewC14NError(ComplexityExceeded,
			map[string]interface{}{"calls": c.nDegreeCalls, "maximum": c.maxNDegreeCalls})
	}
	if err := ctx.Err(); err != nil {
		return "", nil, NewC14NError(Canceled, err)
	}
	c.logger.Debug("hndq", map[string]interface{}{"id": id, "call": c.nDegreeCalls})

	// 1) Bucket every blank node sharing a quad with id under its
	// related hash.
	hashToRelated := c.createHashToRelated(id, issuer)

	// 2) Create an empty string, data to hash.
	var data strings.Builder

	// 3) For each related hash bucket, sorted by related hash:
	for _, hash := range sortedKeys(hashToRelated) {
		blankNodes := hashToRelated[hash]
		// 3.1) Append the related hash to the data to hash.
		data.WriteString(hash)

		// 3.2) Create a string chosen path.
		chosenPath := ""

		// 3.3) Create an unset chosen issuer variable.
		var chosenIssuer *IdentifierIssuer

		// 3.4) For each permutation of the bucket. A single-element
		// bucket yields exactly one permutation, the identity.
		permutator := NewPermutator(blankNodes)
		for permutator.HasNext() {
			permutation := permutator.Next()

			// 3.4.1) Create a copy of issuer, issuer copy.
			issuerCopy := issuer.Clone()

			// 3.4.2) Create a string path.
			path := ""

			// 3.4.3) Create a recursion list, to store blank node
			// identifiers that must be recursively processed by this
			// algorithm.
			recursionList := make([]string, 0)

			// 3.4.4) For each related in permutation:
			skipToNextPermutation := false

			for _, related := range permutation {
				// 3.4.4.1) If a canonical identifier has been issued for
				// related, append it to path.
				if c.canonicalIssuer.HasId(related) {
					path += "_:" + c.canonicalIssuer.GetId(related)
				} else {
					// 3.4.4.2) Otherwise, issue a path identifier,
					// queueing related for recursion if issuer copy sees
					// it for the first time.
					if !issuerCopy.HasId(related) {
						recursionList = append(recursionList, related)
					}
					path += "_:" + issuerCopy.GetId(related)
				}
				// 3.4.4.3) A path that already compares greater than the
				// chosen path cannot win; skip to the next permutation.
				if len(chosenPath) != 0 && len(path) >= len(chosenPath) && path > chosenPath {
					skipToNextPermutation = true
					break
				}
			}

			if skipToNextPermutation {
				continue
			}

			// 3.4.5) For each related in recursion list:
			for _, related := range recursionList {
				// 3.4.5.1) Recurse with issuer copy as the path issuer.
				resultHash, resultIssuer, err := c.hashNDegreeQuads(ctx, related, issuerCopy)
				if err != nil {
					return "", nil, err
				}

				// 3.4.5.2) Issue a path identifier for related and
				// append it, with the recursion result in angle
				// brackets, to path.
				path += "_:" + issuerCopy.GetId(related)
				path += "<" + resultHash + ">"

				// 3.4.5.4) Set issuer copy to the identifier issuer in
				// result.
				issuerCopy = resultIssuer

				// 3.4.5.5) Same early prune as above.
				if len(chosenPath) != 0 && len(path) >= len(chosenPath) && path > chosenPath {
					skipToNextPermutation = true
					break
				}
			}

			if skipToNextPermutation {
				continue
			}

			// 3.4.6) If chosen path is empty or path is less than chosen
			// path, adopt path and issuer copy.
			if len(chosenPath) == 0 || path < chosenPath {
				chosenPath = path
				chosenIssuer = issuerCopy
			}
		}

		// 3.5) Append chosen path to data to hash.
		data.WriteString(chosenPath)

		// 3.6) Replace issuer with the chosen issuer.
		issuer = chosenIssuer
	}

	// 4) Return issuer and the hash of the accumulated data.
	hash := c.opts.HashAlgorithm.Hash([]byte(data.String()))
	c.logger.Debug("hndq.result", map[string]interface{}{"id": id, "hash": hash})
	return hash, issuer, nil
}

// helper for creating hash to related blank nodes map
func (c *Canonicalizer) createHashToRelated(id string, issuer *IdentifierIssuer) map[string][]string {
	hashToRelated := make(map[string][]string)

	for _, quad := range c.bnodeToQuads[id] {
		for i, attrNode := range []Node{quad.Subject, quad.Object, quad.Graph} {
			if attrNode == nil || !IsBlankNode(attrNode) || attrNode.GetValue() == id {
				continue
			}
			related := attrNode.GetValue()
			hash := c.hashRelatedBlankNode(related, quad, issuer, Positions[i])
			hashToRelated[hash] = append(hashToRelated[hash], related)
		}
	}

	return hashToRelated
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Permutator enumerates permutations of a list of blank node identifiers
// using the Steinhaus-Johnson-Trotter algorithm.
type Permutator struct {
	list []string
	done bool
	left map[string]bool
}

// NewPermutator creates a new instance of Permutator.
func NewPermutator(list []string) *Permutator {
	p := &Permutator{}
	p.list = make([]string, len(list))
	copy(p.list, list)
	sort.Strings(p.list)
	p.done = false
	p.left = make(map[string]bool, len(list))
	for _, i := range p.list {
		p.left[i] = true
	}

	return p
}

// HasNext returns true if there is another permutation.
func (p *Permutator) HasNext() bool {
	return !p.done
}

// Next gets the next permutation. Call HasNext() to ensure there is another one first.
func (p *Permutator) Next() []string {
	rval := make([]string, len(p.list))
	copy(rval, p.list)

	// get largest mobile element k
	// (mobile: element is greater than the one it is looking at)
	k := ""
	pos := 0
	length := len(p.list)
	for i := 0; i < length; i++ {
		element := p.list[i]
		left := p.left[element]
		if (k == "" || element > k) &&
			((left && i > 0 && element > p.list[i-1]) || (!left && i < (length-1) && element > p.list[i+1])) {
			k = element
			pos = i
		}
	}

	// no more permutations
	if k == "" {
		p.done = true
	} else {
		// swap k and the element it is looking at
		var swap int
		if p.left[k] {
			swap = pos - 1
		} else {
			swap = pos + 1
		}
		p.list[pos] = p.list[swap]
		p.list[swap] = k

		// reverse the direction of all elements larger than k
		for i := 0; i < length; i++ {
			if p.list[i] > k {
				p.left[p.list[i]] = !p.left[p.list[i]]
			}
		}
	}

	return rval
}
