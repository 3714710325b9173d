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

package codegen

import (
	"fmt"
	"regexp"

	"github.com/daphne-eu/kernelgen/internal/kernelspec"
)

// ConfigurationError reports input that cannot be instantiated: a template
// argument count mismatch or an unsupported nesting depth. It aborts the run.
type ConfigurationError struct {
	Kernel string // op name of the kernel template, if known
	Msg    string
}

func (e *ConfigurationError) Error() string {
	if e.Kernel == "" {
		return e.Msg
	}
	return fmt.Sprintf("kernel %q: %s", e.Kernel, e.Msg)
}

// ResolveType converts a type value into its C++ spelling.
//
//	"double"                                   -> "double"
//	["DenseMatrix", "double"]                  -> "DenseMatrix<double>"
//	["DenseMatrix", "CSRMatrix", "double"]     -> "DenseMatrix<CSRMatrix<double>>"
func ResolveType(v kernelspec.TypeValue) (string, error) {
	if !v.IsNested() {
		return v.Scalar, nil
	}
	switch n := v.Nested; len(n) {
	case 2:
		return n[0] + "<" + n[1] + ">", nil
	case 3:
		return n[0] + "<" + n[1] + "<" + n[2] + ">>", nil
	default:
		return "", &ConfigurationError{Msg: fmt.Sprintf("unsupported nesting level of template types: %v", v)}
	}
}

var (
	// Last "::" before the closing ">" of a template argument.
	templateArgScope = regexp.MustCompile(`^(.*)<.*::(.*)>(.*)$`)
	// Last "::" of the whole type.
	typeScope = regexp.MustCompile(`^.*::(.*)$`)
)

// StripNamespaces removes namespace qualifiers from a C++ type so it can be
// embedded in an identifier.
//
//	"const DenseMatrix<std::string> *" -> "const DenseMatrix<string> *"
//	"mlir::daphne::GroupEnum"          -> "GroupEnum"
//	"int64_t"                          -> "int64_t"
//
// Only the namespace of a single template argument is removed.
func StripNamespaces(cppType string) string {
	return stripTypeScope(stripTemplateArgScope(cppType))
}

func stripTemplateArgScope(cppType string) string {
	return templateArgScope.ReplaceAllString(cppType, "${1}<${2}>${3}")
}

func stripTypeScope(cppType string) string {
	return typeScope.ReplaceAllString(cppType, "${1}")
}
