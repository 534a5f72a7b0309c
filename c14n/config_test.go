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
	"os"
	"path/filepath"
	"testing"

	. "github.com/piprate/rdf-canon/c14n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points both the home and working directory at fresh
// temporary directories so the test sees only the layers it writes.
func isolateConfig(t *testing.T) (home string, cwd string) {
	t.Helper()

	home = t.TempDir()
	cwd = t.TempDir()
	t.Setenv("HOME", home)

	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(cwd))
	t.Cleanup(func() {
		_ = os.Chdir(previous)
	})
	return home, cwd
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfig(t)

	opts, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultHashAlgorithm, opts.HashAlgorithm)
	assert.Equal(t, DefaultComplexityFactor, opts.ComplexityFactor)
}

func TestLoadConfigHomeFile(t *testing.T) {
	home, _ := isolateConfig(t)

	content := `{"c14n_complexity": 10, "c14n_hash": "sha-384"}`
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName), []byte(content), 0o600))

	opts, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, opts.ComplexityFactor)
	assert.Equal(t, HashSHA384, opts.HashAlgorithm)
}

func TestLoadConfigWorkingDirectoryOverridesHome(t *testing.T) {
	home, cwd := isolateConfig(t)

	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName),
		[]byte(`{"c14n_complexity": 10, "c14n_hash": "sha-384"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(cwd, ConfigFileName),
		[]byte(`{"c14n_complexity": 20}`), 0o600))

	opts, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 20, opts.ComplexityFactor)
	// the hash setting from the home layer survives
	assert.Equal(t, HashSHA384, opts.HashAlgorithm)
}

func TestLoadConfigEnvironmentWinsLast(t *testing.T) {
	_, cwd := isolateConfig(t)

	require.NoError(t, os.WriteFile(filepath.Join(cwd, ConfigFileName),
		[]byte(`{"c14n_complexity": 20, "c14n_hash": "sha-384"}`), 0o600))
	t.Setenv(EnvComplexity, "5")
	t.Setenv(EnvHash, "SHA512")

	opts, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, opts.ComplexityFactor)
	assert.Equal(t, HashSHA512, opts.HashAlgorithm)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	isolateConfig(t)

	t.Setenv(EnvComplexity, "not a number")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, InvalidConfiguration))

	t.Setenv(EnvComplexity, "0")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, InvalidConfiguration))

	t.Setenv(EnvComplexity, "100")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, InvalidConfiguration))

	t.Setenv(EnvComplexity, "10")
	t.Setenv(EnvHash, "md5")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, UnknownHashAlgorithm))
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	_, cwd := isolateConfig(t)

	require.NoError(t, os.WriteFile(filepath.Join(cwd, ConfigFileName), []byte("{"), 0o600))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, InvalidConfiguration))
}
