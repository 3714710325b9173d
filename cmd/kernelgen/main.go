// Copyright 2025 go-highway Authors
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

// Command kernelgen generates the C++ code of the pre-compiled kernels
// library and the JSON file of the kernel catalog.
//
// Usage:
//
//	kernelgen INPUT_SPEC_FILE OUTPUT_CPP_FILE OUTPUT_CATALOG_FILE API
//
// The input specification lists which kernel templates are instantiated with
// which template arguments, optionally per backend (API). Every instantiation
// is wrapped by a shallow extern "C" function callable from JIT-compiled
// code, and described by one entry of the kernel catalog.
//
// Kernels are sorted by descending number of instantiations. The top N
// (-separate) are generated into files of their own, the rest share a single
// file, named OUTPUT_CPP_FILE_<idx>.cpp.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/daphne-eu/kernelgen/internal/codegen"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

const usageLine = "kernelgen INPUT_SPEC_FILE OUTPUT_CPP_FILE OUTPUT_CATALOG_FILE API"

var errArgCount = errors.New("wrong number of arguments")

func newCommand(stdout, stderr io.Writer) *cobra.Command {
	gen := &Generator{Separate: DefaultSeparateUnits}

	cmd := &cobra.Command{
		Use:   usageLine,
		Short: "generate C++ wrappers of kernel instantiations and the kernel catalog",
		Long: `Generates the C++ code for the pre-compiled kernels library as well as a JSON
file for the kernel catalog.

Each kernel instantiation listed in INPUT_SPEC_FILE is wrapped by a shallow
function that can be called from the JIT-compiled user program. Kernels are
sorted in descending order by the number of template instantiations; the top
N kernels are generated in separate files, while the rest are generated in a
single file. The catalog written to OUTPUT_CATALOG_FILE describes every
generated function and is used to populate the kernel catalog at start-up.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 4 {
				return errArgCount
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen.InputFile = args[0]
			gen.OutputPrefix = args[1]
			gen.CatalogFile = args[2]
			gen.Backend = codegen.GetBackend(args[3])
			_, err := gen.Run()
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().IntVar(&gen.Separate, "separate", gen.Separate, "number of kernels with the most instantiations that get their own source file")

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)
	return cmd
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newCommand(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	klog.Flush()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errArgCount):
		fmt.Fprint(stderr, "Wrong number of arguments.\n\n")
		cmd.SetOut(stderr)
		_ = cmd.Usage()
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
