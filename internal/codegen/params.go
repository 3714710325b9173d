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
	"strings"

	"github.com/daphne-eu/kernelgen/internal/kernelspec"
)

const (
	// VoidType is the return type of kernels without a scalar result.
	VoidType = "void"

	// ResultParamName names the output pointer that replaces a scalar
	// return value in the wrapper signature.
	ResultParamName = "res"
)

// Param is a run-time parameter of one instantiation, with template
// parameters substituted and its direction decided.
type Param struct {
	Name     string
	Type     string
	Output   bool
	Variadic bool
}

// Binding maps the template parameters of a kernel to the types of one
// instantiation.
type Binding struct {
	params   []kernelspec.TemplateParam
	values   kernelspec.Instantiation
	resolved []string
}

// Bind resolves the values of an instantiation against the template
// parameters of tmpl.
func Bind(tmpl *kernelspec.KernelTemplate, values kernelspec.Instantiation) (*Binding, error) {
	if len(tmpl.TemplateParams) != len(values) {
		return nil, &ConfigurationError{
			Kernel: tmpl.OpName,
			Msg: fmt.Sprintf("has %d template parameters, but %d template values are supplied in an instantiation",
				len(tmpl.TemplateParams), len(values)),
		}
	}
	b := &Binding{
		params:   tmpl.TemplateParams,
		values:   values,
		resolved: make([]string, len(values)),
	}
	for i, v := range values {
		t, err := ResolveType(v)
		if err != nil {
			if ce, ok := err.(*ConfigurationError); ok {
				ce.Kernel = tmpl.OpName
			}
			return nil, err
		}
		b.resolved[i] = t
	}
	return b, nil
}

// Types returns the resolved C++ types in template parameter order.
func (b *Binding) Types() []string {
	out := make([]string, len(b.resolved))
	copy(out, b.resolved)
	return out
}

// Substitute replaces template parameter names in cppType by their assigned
// types. For a nested value, "typename P::VT" is first replaced by the
// value's element type.
func (b *Binding) Substitute(cppType string) string {
	for i, tp := range b.params {
		if v := b.values[i]; v.IsNested() {
			cppType = strings.ReplaceAll(cppType, "typename "+tp.Name+"::VT", v.Nested[1])
		}
		cppType = strings.ReplaceAll(cppType, tp.Name, b.resolved[i])
	}
	return cppType
}

// ExpandParams builds the wrapper parameters of one instantiation.
//
// A non-void returnType adds a leading output parameter "res" of type
// "<returnType> *". Then, in order of priority:
//   - a type ending in "*&" becomes "**" and is an output,
//   - a parameter flagged isReturnValue is an output,
//   - a trailing "&" is dropped and the parameter is an output,
//   - anything else is an input unless flagged isOutput.
//
// The runtime parameters themselves are left untouched.
func ExpandParams(returnType string, runtimeParams []kernelspec.RuntimeParam, b *Binding) []Param {
	params := make([]Param, 0, len(runtimeParams)+1)
	if returnType != VoidType {
		params = append(params, Param{
			Name:   ResultParamName,
			Type:   b.Substitute(returnType + " *"),
			Output: true,
		})
	}
	for _, rp := range runtimeParams {
		p := Param{
			Name:     rp.Name,
			Type:     b.Substitute(rp.Type),
			Output:   rp.IsOutput != nil && bool(*rp.IsOutput),
			Variadic: bool(rp.IsVariadic),
		}
		if base, ok := strings.CutSuffix(p.Type, "*&"); ok {
			p.Type = base + "**"
			p.Output = true
		}
		if rp.IsReturnValue.Set() {
			p.Output = true
		}
		if base, ok := strings.CutSuffix(p.Type, "&"); ok {
			p.Type = base
			p.Output = true
		}
		params = append(params, p)
	}
	return params
}

// IsDoublePointerOutput reports whether the wrapper receives p as a pointer
// to the kernel's reference-to-pointer argument, which the call dereferences.
func (p Param) IsDoublePointerOutput() bool {
	return p.Output && strings.HasSuffix(p.Type, "**")
}
