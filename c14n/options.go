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
)

const (
	// DefaultComplexityFactor bounds the n-degree hash recursion at
	// factor times the number of blank nodes in the dataset.
	DefaultComplexityFactor = 50

	// MaxComplexityFactor is the largest complexity factor a caller may
	// configure.
	MaxComplexityFactor = 50
)

// CanonicalizationOptions carries the recognized canonicalization options.
// All fields have usable zero-value-adjacent defaults via
// NewCanonicalizationOptions.
type CanonicalizationOptions struct {
	// HashAlgorithm selects the digest used throughout the algorithm.
	// SHA-256 is required for interoperable output.
	HashAlgorithm HashAlgorithm

	// ComplexityFactor scales the n-degree call budget. Positive, at
	// most MaxComplexityFactor.
	ComplexityFactor int

	// Logger receives algorithm trace events. Nil disables tracing.
	Logger Logger
}

// NewCanonicalizationOptions creates and returns a new
// CanonicalizationOptions instance with the built-in defaults.
func NewCanonicalizationOptions() *CanonicalizationOptions {
	return &CanonicalizationOptions{
		HashAlgorithm:    DefaultHashAlgorithm,
		ComplexityFactor: DefaultComplexityFactor,
	}
}

// Copy creates a deep copy of the CanonicalizationOptions object.
func (opt *CanonicalizationOptions) Copy() *CanonicalizationOptions {
	return &CanonicalizationOptions{
		HashAlgorithm:    opt.HashAlgorithm,
		ComplexityFactor: opt.ComplexityFactor,
		Logger:           opt.Logger,
	}
}

// Validate checks the option values against their allowed ranges.
func (opt *CanonicalizationOptions) Validate() error {
	if opt.ComplexityFactor <= 0 {
		return NewC14NError(InvalidConfiguration,
			fmt.Sprintf("complexity factor must be a positive integer, got %d", opt.ComplexityFactor))
	}
	if opt.ComplexityFactor > MaxComplexityFactor {
		return NewC14NError(InvalidConfiguration,
			fmt.Sprintf("complexity factor must not exceed %d, got %d", MaxComplexityFactor, opt.ComplexityFactor))
	}
	return nil
}
