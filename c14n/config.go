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
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// ConfigFileName is looked up in the user's home directory and in the
	// working directory.
	ConfigFileName = ".rdfjs_c14n.json"

	// EnvComplexity and EnvHash override any file-based configuration.
	EnvComplexity = "c14n_complexity"
	EnvHash       = "c14n_hash"
)

// configFile is the on-disk shape of a configuration file. Absent keys
// leave the previous layer's value in place.
type configFile struct {
	ComplexityFactor *int    `json:"c14n_complexity,omitempty"`
	HashAlgorithm    *string `json:"c14n_hash,omitempty"`
}

// LoadConfig resolves canonicalization options from the layered sources,
// least to most specific: built-in defaults, the home-directory config
// file, the working-directory config file, then the environment. The
// merged result is validated; violations are InvalidConfiguration or
// UnknownHashAlgorithm errors.
func LoadConfig() (*CanonicalizationOptions, error) {
	opts := NewCanonicalizationOptions()

	if home, err := os.UserHomeDir(); err == nil {
		if err := applyConfigFile(filepath.Join(home, ConfigFileName), opts); err != nil {
			return nil, err
		}
	}

	if err := applyConfigFile(ConfigFileName, opts); err != nil {
		return nil, err
	}

	if val, present := os.LookupEnv(EnvComplexity); present {
		factor, err := strconv.Atoi(val)
		if err != nil {
			return nil, NewC14NError(InvalidConfiguration,
				EnvComplexity+" is not an integer: "+val)
		}
		opts.ComplexityFactor = factor
	}

	if val, present := os.LookupEnv(EnvHash); present {
		algorithm, err := ParseHashAlgorithm(val)
		if err != nil {
			return nil, err
		}
		opts.HashAlgorithm = algorithm
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return opts, nil
}

func applyConfigFile(path string, opts *CanonicalizationOptions) error {
	content, err := os.ReadFile(path)
	if err != nil {
		// a missing layer is not an error
		return nil
	}

	var cfg configFile
	if err := json.Unmarshal(content, &cfg); err != nil {
		return NewC14NError(InvalidConfiguration, path+": "+err.Error())
	}

	if cfg.ComplexityFactor != nil {
		opts.ComplexityFactor = *cfg.ComplexityFactor
	}
	if cfg.HashAlgorithm != nil {
		algorithm, err := ParseHashAlgorithm(*cfg.HashAlgorithm)
		if err != nil {
			return err
		}
		opts.HashAlgorithm = algorithm
	}
	return nil
}
