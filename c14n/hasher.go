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
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	hashPkg "hash"
	"strings"
)

// HashAlgorithm enumerates the digest algorithms the hasher supports.
// SHA-256 is the algorithm required for interoperable canonical output;
// the others are available for experimentation.
type HashAlgorithm int

const (
	HashSHA256 HashAlgorithm = iota
	HashSHA384
	HashSHA512
	HashSHA1
)

// DefaultHashAlgorithm is used when the configuration does not name one.
const DefaultHashAlgorithm = HashSHA256

// ParseHashAlgorithm resolves an algorithm identifier. Names are
// case-insensitive and both the dashed ("sha-256") and undashed ("sha256")
// forms are accepted. Unsupported names fail with UnknownHashAlgorithm,
// so validation happens once at configuration time and the hot path does
// no string matching.
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "-", "") {
	case "sha256":
		return HashSHA256, nil
	case "sha384":
		return HashSHA384, nil
	case "sha512":
		return HashSHA512, nil
	case "sha1":
		return HashSHA1, nil
	default:
		return 0, NewC14NError(UnknownHashAlgorithm, name)
	}
}

// New returns a fresh hash state for the algorithm.
func (a HashAlgorithm) New() hashPkg.Hash {
	switch a {
	case HashSHA384:
		return sha512.New384()
	case HashSHA512:
		return sha512.New()
	case HashSHA1:
		return sha1.New() //nolint:gosec
	default:
		return sha256.New()
	}
}

// String returns the canonical (dashed, lowercase) name of the algorithm.
func (a HashAlgorithm) String() string {
	switch a {
	case HashSHA384:
		return "sha-384"
	case HashSHA512:
		return "sha-512"
	case HashSHA1:
		return "sha-1"
	default:
		return "sha-256"
	}
}

// Hash returns the lowercase hex digest of data.
func (a HashAlgorithm) Hash(data []byte) string {
	h := a.New()
	h.Write(data)
	return encodeHex(h.Sum(nil))
}

const hexDigit = "0123456789abcdef"

func encodeHex(data []byte) string {
	var buf = make([]byte, 0, len(data)*2)
	for _, b := range data {
		buf = append(buf, hexDigit[b>>4], hexDigit[b&0xf])
	}
	return string(buf)
}
