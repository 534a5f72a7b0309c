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
	"strconv"
)

// IdentifierIssuer issues unique identifiers, keeping track of any
// previously issued identifiers. Iteration over issued identifiers
// preserves issuance order, which the canonicalization algorithm relies on
// to commit labels bit-for-bit deterministically.
type IdentifierIssuer struct {
	prefix        string
	counter       int
	existing      map[string]string
	existingOrder []string
}

// NewIdentifierIssuer creates and returns a new IdentifierIssuer.
func NewIdentifierIssuer(prefix string) *IdentifierIssuer {
	return &IdentifierIssuer{
		prefix:        prefix,
		counter:       0,
		existing:      make(map[string]string),
		existingOrder: make([]string, 0),
	}
}

// NewCanonicalIssuer creates an issuer minting c14n labels.
func NewCanonicalIssuer() *IdentifierIssuer {
	return NewIdentifierIssuer(CanonicalPrefix)
}

// Clone copies this IdentifierIssuer. The clone's counter and ordered map
// are independent of the original, so a clone can be mutated during
// backtracking and discarded without rollback.
func (ii *IdentifierIssuer) Clone() *IdentifierIssuer {
	cp := &IdentifierIssuer{
		prefix:        ii.prefix,
		counter:       ii.counter,
		existing:      make(map[string]string, len(ii.existing)),
		existingOrder: make([]string, len(ii.existingOrder)),
	}
	for k, v := range ii.existing {
		cp.existing[k] = v
	}
	copy(cp.existingOrder, ii.existingOrder)

	return cp
}

// GetId returns the issued identifier for the given existing identifier,
// minting prefix+counter and recording the mapping on first sight.
func (ii *IdentifierIssuer) GetId(existing string) string {
	if issued, present := ii.existing[existing]; present {
		return issued
	}

	issued := ii.prefix + strconv.Itoa(ii.counter)
	ii.counter++

	ii.existing[existing] = issued
	ii.existingOrder = append(ii.existingOrder, existing)

	return issued
}

// HasId returns true if the given existing identifier has already been
// assigned an issued identifier.
func (ii *IdentifierIssuer) HasId(existing string) bool {
	_, hasKey := ii.existing[existing]
	return hasKey
}

// Issued calls f with each (existing, issued) pair in issuance order.
func (ii *IdentifierIssuer) Issued(f func(existing, issued string)) {
	for _, existing := range ii.existingOrder {
		f(existing, ii.existing[existing])
	}
}

// IssuedMap returns a copy of the existing-to-issued mapping.
func (ii *IdentifierIssuer) IssuedMap() map[string]string {
	out := make(map[string]string, len(ii.existing))
	for k, v := range ii.existing {
		out[k] = v
	}
	return out
}

// Len returns the number of identifiers issued so far.
func (ii *IdentifierIssuer) Len() int {
	return len(ii.existingOrder)
}

// ToLog returns a structured snapshot of the issuer for diagnostics.
func (ii *IdentifierIssuer) ToLog() map[string]interface{} {
	issued := make([]map[string]string, 0, len(ii.existingOrder))
	for _, existing := range ii.existingOrder {
		issued = append(issued, map[string]string{existing: ii.existing[existing]})
	}
	return map[string]interface{}{
		"prefix":  ii.prefix,
		"counter": ii.counter,
		"issued":  issued,
	}
}
