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
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// serializeQuad emits a single canonical N-Quads statement for the quad,
// without the terminating newline.
func serializeQuad(q *Quad) string {
	s := q.Subject
	p := q.Predicate
	o := q.Object

	var line strings.Builder

	// subject is an IRI or bnode
	if IsIRI(s) {
		line.WriteString("<" + escape(s.GetValue()) + ">")
	} else {
		line.WriteString("_:" + s.GetValue())
	}

	line.WriteString(" <" + escape(p.GetValue()) + "> ")

	// object is IRI, bnode or literal
	if IsIRI(o) {
		line.WriteString("<" + escape(o.GetValue()) + ">")
	} else if IsBlankNode(o) {
		line.WriteString("_:" + o.GetValue())
	} else {
		literal := o.(*Literal)
		line.WriteString("\"" + escape(literal.GetValue()) + "\"")
		if literal.Datatype == RDFLangString {
			line.WriteString("@" + literal.Language)
		} else if literal.Datatype != XSDString {
			line.WriteString("^^<" + escape(literal.Datatype) + ">")
		}
	}

	// graph
	if !IsDefaultGraph(q.Graph) {
		if IsBlankNode(q.Graph) {
			line.WriteString(" _:" + q.Graph.GetValue())
		} else {
			line.WriteString(" <" + escape(q.Graph.GetValue()) + ">")
		}
	}

	line.WriteString(" .")

	return line.String()
}

// toNQuad returns the canonical N-Quads line for the quad, terminated
// with a newline.
func toNQuad(q *Quad) string {
	return serializeQuad(q) + "\n"
}

// SerializeNQuads serializes the dataset into an N-Quads document with the
// statements in canonical sorted order.
func SerializeNQuads(ds *Dataset) string {
	lines := make([]string, 0, len(ds.Quads))
	for _, q := range ds.Quads {
		lines = append(lines, toNQuad(q))
	}
	sort.Strings(lines)
	return strings.Join(lines, "")
}

func unescape(str string) string {
	str = strings.ReplaceAll(str, "\\\\", "\\")
	str = strings.ReplaceAll(str, "\\\"", "\"")
	str = strings.ReplaceAll(str, "\\n", "\n")
	str = strings.ReplaceAll(str, "\\r", "\r")
	str = strings.ReplaceAll(str, "\\t", "\t")
	return str
}

func escape(str string) string {
	str = strings.ReplaceAll(str, "\\", "\\\\")
	str = strings.ReplaceAll(str, "\"", "\\\"")
	str = strings.ReplaceAll(str, "\n", "\\n")
	str = strings.ReplaceAll(str, "\r", "\\r")
	str = strings.ReplaceAll(str, "\t", "\\t")
	return str
}

const (
	wso = "[ \\t]*"
	iri = "(?:<([^:]+:[^>]*)>)"

	// https://www.w3.org/TR/turtle/#grammar-production-BLANK_NODE_LABEL

	pnCharsBase = "A-Z" + "a-z" +
		"\u00C0-\u00D6" +
		"\u00D8-\u00F6" +
		"\u00F8-\u02FF" +
		"\u0370-\u037D" +
		"\u037F-\u1FFF" +
		"\u200C-\u200D" +
		"\u2070-\u218F" +
		"\u2C00-\u2FEF" +
		"\u3001-\uD7FF" +
		"\uF900-\uFDCF" +
		"\uFDF0-\uFFFD"

	pnCharsU = pnCharsBase + "_"

	pnChars = pnCharsU +
		"0-9" +
		"-" +
		"\u00B7" +
		"\u0300-\u036F" +
		"\u203F-\u2040"

	blankNodeLabel = "(_:" +
		"(?:[" + pnCharsU + "0-9])" +
		"(?:(?:[" + pnChars + ".])*(?:[" + pnChars + "]))?" +
		")"

	bnode = blankNodeLabel

	plain    = "\"([^\"\\\\]*(?:\\\\.[^\"\\\\]*)*)\""
	datatype = "(?:\\^\\^" + iri + ")"
	language = "(?:@([a-z]+(?:-[a-zA-Z0-9]+)*))"
	literal  = "(?:" + plain + "(?:" + datatype + "|" + language + ")?)"
	ws       = "[ \\t]+"

	subject  = "(?:" + iri + "|" + bnode + ")" + ws
	property = iri + ws
	object   = "(?:" + iri + "|" + bnode + "|" + literal + ")" + wso
	graph    = "(?:\\.|(?:(?:" + iri + "|" + bnode + ")" + wso + "\\.))"
)

var regexEmpty = regexp.MustCompile("^" + wso + "$")

// full quad regex

var regexQuad = regexp.MustCompile("^" + wso + subject + property + object + graph + wso + "$") //nolint:gocritic

type lineScanner interface {
	Bytes() []byte
	Scan() bool
	Err() error
}

type bytesLineScanner struct {
	err   error
	b     []byte
	token []byte
	i     int
}

func (ls *bytesLineScanner) Err() error { return ls.err }
func (ls *bytesLineScanner) Scan() bool {
	b, i := ls.b, ls.i
	if ls.err != nil || i >= len(b) {
		return false
	}
	di, token, err := bufio.ScanLines(b[i:], true)
	if err != nil {
		ls.err = err
		return false
	}
	ls.token = token
	ls.i += di
	return true
}
func (ls *bytesLineScanner) Bytes() []byte {
	return ls.token
}

func newScannerFor(o interface{}) (lineScanner, error) {
	switch inp := o.(type) {
	case []byte:
		return &bytesLineScanner{b: inp}, nil
	case string:
		return &bytesLineScanner{b: []byte(inp)}, nil
	case io.Reader:
		return bufio.NewScanner(inp), nil
	default:
		return nil, NewC14NError(InvalidInput, "expected []byte, string or io.Reader")
	}
}

// ParseNQuadsFrom parses RDF in the form of N-Quads from io.Reader, []byte
// or string. Blank node labels are preserved verbatim and duplicate
// statements are dropped, so the result has set semantics.
func ParseNQuadsFrom(o interface{}) (*Dataset, error) {
	dataset := NewDataset()

	scanner, err := newScannerFor(o)
	if err != nil {
		return nil, err
	}

	// scan N-Quad input lines
	lineNumber := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		lineNumber++

		// skip empty lines
		if regexEmpty.Match(line) {
			continue
		}

		// parse quad
		if !regexQuad.Match(line) {
			return nil, NewC14NError(MalformedInput, fmt.Errorf("error while parsing N-Quads; invalid quad. line: %d", lineNumber))
		}
		match := regexQuad.FindStringSubmatch(string(line))

		// get subject
		var subject Node
		if match[1] != "" {
			subject = NewIRI(unescape(match[1]))
		} else {
			subject = NewBlankNode(strings.TrimPrefix(unescape(match[2]), "_:"))
		}

		// get predicate
		predicate := NewIRI(unescape(match[3]))

		// get object
		var object Node
		if match[4] != "" {
			object = NewIRI(unescape(match[4]))
		} else if match[5] != "" {
			object = NewBlankNode(strings.TrimPrefix(unescape(match[5]), "_:"))
		} else {
			language := unescape(match[8])
			var datatype string
			if match[7] != "" {
				datatype = unescape(match[7])
			} else if match[8] != "" {
				datatype = RDFLangString
			} else {
				datatype = XSDString
			}
			unescaped := unescape(match[6])
			object = NewLiteral(unescaped, datatype, language)
		}

		// get graph name (empty string is the default graph)
		name := ""
		if match[9] != "" {
			name = unescape(match[9])
		} else if match[10] != "" {
			name = unescape(match[10])
		}

		dataset.Add(NewQuad(subject, predicate, object, name))
	}
	if err := scanner.Err(); err != nil {
		return nil, NewC14NError(IOError, err)
	}

	return dataset, nil
}

// ParseNQuads parses RDF in the form of N-Quads.
func ParseNQuads(input string) (*Dataset, error) {
	return ParseNQuadsFrom(input)
}
