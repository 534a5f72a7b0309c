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

	. "github.com/piprate/rdf-canon/c14n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHashAlgorithm(t *testing.T) {
	for name, expected := range map[string]HashAlgorithm{
		"sha256":  HashSHA256,
		"sha-256": HashSHA256,
		"SHA-256": HashSHA256,
		"Sha256":  HashSHA256,
		"sha-384": HashSHA384,
		"sha512":  HashSHA512,
		"SHA-1":   HashSHA1,
	} {
		algorithm, err := ParseHashAlgorithm(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, algorithm, name)
	}
}

func TestParseHashAlgorithmUnknown(t *testing.T) {
	_, err := ParseHashAlgorithm("md5")
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, UnknownHashAlgorithm))
}

func TestHashDigests(t *testing.T) {
	input := []byte("abc")

	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		HashSHA256.Hash(input))
	assert.Equal(t,
		"cb00753f45a35e8bb5a03d699ac65007272c32ab0eded1631a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7",
		HashSHA384.Hash(input))
	assert.Equal(t,
		"ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		HashSHA512.Hash(input))
	assert.Equal(t,
		"a9993e364706816aba3e25717850c26c9cd0d89d",
		HashSHA1.Hash(input))
}

func TestHashAlgorithmString(t *testing.T) {
	assert.Equal(t, "sha-256", HashSHA256.String())
	assert.Equal(t, "sha-384", HashSHA384.String())
	assert.Equal(t, "sha-512", HashSHA512.String())
	assert.Equal(t, "sha-1", HashSHA1.String())
}
