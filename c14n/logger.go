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
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

// Logger receives trace events from the canonicalization algorithm.
// Events are named after the algorithm steps they originate from
// ("ca.2", "h1dq", "hndq", ...).
type Logger interface {
	Debug(event string, fields map[string]interface{})
}

// NopLogger discards all events.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}

// YAMLLogger writes each trace event as a YAML document. The output is a
// stream of documents, one per event, suitable for eyeballing a run of
// the algorithm or diffing two runs.
type YAMLLogger struct {
	mu  sync.Mutex
	enc *yaml.Encoder
}

// NewYAMLLogger creates a YAMLLogger writing to w.
func NewYAMLLogger(w io.Writer) *YAMLLogger {
	return &YAMLLogger{enc: yaml.NewEncoder(w)}
}

func (l *YAMLLogger) Debug(event string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := map[string]interface{}{"log point": event}
	for k, v := range fields {
		entry[k] = v
	}
	// encoding failures are not the algorithm's problem
	_ = l.enc.Encode(entry)
}

// Close flushes the underlying encoder.
func (l *YAMLLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Close()
}
