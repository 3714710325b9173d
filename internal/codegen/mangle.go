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
	"strings"

	"github.com/samber/lo"
)

const variadicMarker = "_variadic"

// identifierReplacer turns the remaining C++ punctuation of a type into
// identifier characters.
var identifierReplacer = strings.NewReplacer(
	"<", "_",
	">", "",
	",", "_",
	" ", "_",
)

// MangleSuffix builds the suffix that makes the wrapper name of an
// instantiation unique, e.g. "__DenseMatrix_double__DenseMatrix_double__double"
// for (DenseMatrix<double> **res, const DenseMatrix<double> *arg, double s).
// It is empty for a function without parameters.
func MangleSuffix(params []Param) string {
	if len(params) == 0 {
		return ""
	}
	tokens := lo.Map(params, func(p Param, _ int) string {
		return mangleType(p)
	})
	return "__" + strings.Join(tokens, "__")
}

func mangleType(p Param) string {
	t := StripNamespaces(p.Type)
	t = strings.ReplaceAll(t, "const ", "")
	if p.Output {
		t = strings.ReplaceAll(t, " **", "")
	} else {
		t = strings.ReplaceAll(t, " **", variadicMarker)
	}
	if p.Variadic {
		t = strings.ReplaceAll(t, " *", variadicMarker)
	} else {
		t = strings.ReplaceAll(t, " *", "")
	}
	t = strings.ReplaceAll(t, "& ", "")
	return identifierReplacer.Replace(t)
}
