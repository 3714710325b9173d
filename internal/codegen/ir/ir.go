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

// Package ir holds the intermediate representation of generated wrapper
// functions. Wrappers are built as values first and rendered to C++ text in a
// single step, so naming and parameter handling can be tested without
// looking at the text.
package ir

// Func is one extern "C" wrapper around a kernel instantiation. Wrappers
// always return void.
type Func struct {
	// Name is the full symbol name including backend prefix and type suffix.
	Name string

	// Params are the wrapper's own parameters, in declaration order.
	Params []Param

	// DispatchID appends "int kId" to the signature and wraps the call with
	// instrumentation hooks and error translation.
	DispatchID bool

	// Context appends the DaphneContext parameter to the signature.
	Context bool

	// Call is the single kernel call in the body.
	Call Call
}

// Param is a wrapper parameter. Wrapper parameters are values or pointers,
// never references.
type Param struct {
	Type string
	Name string
}

// Call is the delegation to the kernel.
type Call struct {
	// Callee is the (possibly namespace-qualified) kernel name.
	Callee string

	// TemplateArgs are rendered in angle brackets when non-empty.
	TemplateArgs []string

	// Apply calls the static apply member of a kernel struct instead of a
	// free function.
	Apply bool

	// Args are the call arguments, already dereferenced where needed.
	Args []string

	// Result, when set, names the output pointer the call result is stored
	// through.
	Result string
}

// Block groups the wrappers of one kernel template under a banner comment.
type Block struct {
	Title string
	Funcs []Func
}
