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

// rdf-canon canonicalizes an N-Quads dataset read from a file, a URL or
// standard input, and writes the canonical N-Quads document to standard
// output.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/piprate/rdf-canon/c14n"
)

var (
	hashName   string
	complexity int
	tracePath  string
	showMap    bool
	printHash  bool
)

var rootCmd = &cobra.Command{
	Use:   "rdf-canon [file|url|-]",
	Short: "Canonicalize an RDF dataset (RDFC-1.0)",
	Long: `Canonicalize an N-Quads dataset per the RDF Dataset Canonicalization
algorithm (RDFC-1.0). Reads from a file, an http(s) URL, or standard
input when the argument is "-" or absent.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&hashName, "hash", "", "hash algorithm (sha-256, sha-384, sha-512, sha-1)")
	rootCmd.Flags().IntVar(&complexity, "complexity", 0, fmt.Sprintf("complexity factor, at most %d", c14n.MaxComplexityFactor))
	rootCmd.Flags().StringVar(&tracePath, "log", "", "write a YAML trace of the algorithm to this file")
	rootCmd.Flags().BoolVar(&showMap, "map", false, "also print the issued identifier map as YAML on stderr")
	rootCmd.Flags().BoolVar(&printHash, "digest", false, "print the digest of the canonical document instead of the document")
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := c14n.LoadConfig()
	if err != nil {
		return err
	}

	if hashName != "" {
		opts.HashAlgorithm, err = c14n.ParseHashAlgorithm(hashName)
		if err != nil {
			return err
		}
	}
	if complexity != 0 {
		opts.ComplexityFactor = complexity
	}

	if tracePath != "" {
		traceFile, err := os.Create(tracePath)
		if err != nil {
			return err
		}
		defer traceFile.Close()
		logger := c14n.NewYAMLLogger(traceFile)
		defer logger.Close()
		opts.Logger = logger
	}

	canonicalizer, err := c14n.NewCanonicalizer(opts)
	if err != nil {
		return err
	}

	input, err := readInput(args)
	if err != nil {
		return err
	}

	result, err := canonicalizer.CanonicalizeWithContext(cmd.Context(), input)
	if err != nil {
		return err
	}

	if printHash {
		fmt.Fprintln(cmd.OutOrStdout(), opts.HashAlgorithm.Hash([]byte(result.Document)))
	} else {
		fmt.Fprint(cmd.OutOrStdout(), result.Document)
	}

	if showMap {
		enc := yaml.NewEncoder(cmd.ErrOrStderr())
		if err := enc.Encode(result.IssuedIdentifiers); err != nil {
			return err
		}
		return enc.Close()
	}
	return nil
}

func readInput(args []string) (interface{}, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.Reader(os.Stdin), nil
	}

	loader := c14n.NewRFC7234CachingDatasetLoader(nil)
	remote, err := loader.LoadDataset(args[0])
	if err != nil {
		return nil, err
	}
	return remote.Dataset, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rdf-canon:", err)
		os.Exit(1)
	}
}
