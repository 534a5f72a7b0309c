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

// ErrorCode identifies the failure class of a C14NError.
type ErrorCode string

// C14NError is the error type returned by all operations in this package.
// Errors are never recovered internally; they surface at the Canonicalize
// boundary with the partial canonicalization state discarded.
type C14NError struct {
	Code    ErrorCode
	Details interface{}
}

const (
	// UnknownHashAlgorithm means the configuration named a hash algorithm
	// the backend does not support.
	UnknownHashAlgorithm ErrorCode = "unknown hash algorithm"

	// ComplexityExceeded means the n-degree call counter went past its
	// budget of complexity factor times the number of blank nodes.
	ComplexityExceeded ErrorCode = "complexity exceeded"

	// MalformedInput is surfaced from the N-Quads parser on syntax errors.
	MalformedInput ErrorCode = "malformed input"

	// InvalidConfiguration means a recognized option carried a value
	// outside its allowed range.
	InvalidConfiguration ErrorCode = "invalid configuration"

	// InvalidInput means an input could not be accepted: Canonicalize was
	// handed a container it does not take, or FromCayleyQuads met a value
	// or quad with no RDF quad form.
	InvalidInput ErrorCode = "invalid input"

	LoadingDocumentFailed ErrorCode = "loading document failed"
	IOError               ErrorCode = "io error"
	Canceled              ErrorCode = "canceled"
)

func (e C14NError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%v: %v", e.Code, e.Details)
	}
	return fmt.Sprintf("%v", e.Code)
}

// NewC14NError creates a new instance of C14NError.
func NewC14NError(code ErrorCode, details interface{}) *C14NError {
	return &C14NError{Code: code, Details: details}
}

// IsErrorCode returns true if err is a C14NError carrying the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	if cerr, ok := err.(*C14NError); ok {
		return cerr.Code == code
	}
	return false
}
