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

// Package kernelspec describes the input of the kernel instantiation
// generator: which kernel templates exist, with which template arguments they
// are instantiated, and for which backends.
package kernelspec

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// KernelInfo is one element of the input specification file.
//
// Either API is set, listing per-backend instantiations, or Instantiations
// (and optionally OpCodes) is set and applies to the native backend only.
type KernelInfo struct {
	Template       KernelTemplate  `json:"kernelTemplate"`
	Instantiations []Instantiation `json:"instantiations,omitempty"`
	OpCodes        []string        `json:"opCodes,omitempty"`
	API            []APIEntry      `json:"api,omitempty"`
}

// APIEntry overrides the instantiations of a kernel for a set of backends.
type APIEntry struct {
	Names          []string        `json:"name"`
	Instantiations []Instantiation `json:"instantiations"`
	OpCodes        []string        `json:"opCodes,omitempty"`
}

// KernelTemplate describes a C++ kernel function template.
type KernelTemplate struct {
	OpName                string          `json:"opName"`
	ReturnType            string          `json:"returnType"`
	TemplateParams        []TemplateParam `json:"templateParams"`
	RuntimeParams         []RuntimeParam  `json:"runtimeParams"`
	Header                string          `json:"header"`
	OpCodeAsTemplateParam Flag            `json:"opCodeAsTemplateParam,omitempty"`
}

// TemplateParam is a named template parameter of a kernel.
type TemplateParam struct {
	Name string `json:"name"`
}

// RuntimeParam is a run-time parameter of a kernel. Type may mention template
// parameter names and end in "&", "*" or "*&".
type RuntimeParam struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	IsVariadic Flag   `json:"isVariadic,omitempty"`

	// IsReturnValue marks the parameter as an output whenever the key is
	// present in the input, whatever its value.
	IsReturnValue *Flag `json:"isReturnValue,omitempty"`

	// IsOutput explicitly fixes the direction of the parameter.
	IsOutput *Flag `json:"isOutput,omitempty"`
}

// Instantiation assigns one type value to each template parameter, in order.
type Instantiation []TypeValue

// TypeValue is either a scalar C++ type name or a nesting descriptor like
// ["DenseMatrix", "double"].
type TypeValue struct {
	Scalar string
	Nested []string
}

// IsNested reports whether the value was given as a nesting list.
func (v TypeValue) IsNested() bool { return v.Nested != nil }

// Scalar returns a scalar type value.
func Scalar(name string) TypeValue { return TypeValue{Scalar: name} }

// Nested returns a nesting descriptor type value. Without parts it is an
// empty descriptor, not a scalar.
func Nested(parts ...string) TypeValue {
	if parts == nil {
		parts = []string{}
	}
	return TypeValue{Nested: parts}
}

func (v TypeValue) String() string {
	if v.IsNested() {
		return fmt.Sprintf("%q", v.Nested)
	}
	return v.Scalar
}

// UnmarshalJSON accepts a string or an array of strings.
func (v *TypeValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = TypeValue{Scalar: s}
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("type value must be a string or a list of strings: %s", data)
	}
	if parts == nil {
		parts = []string{}
	}
	*v = TypeValue{Nested: parts}
	return nil
}

// MarshalJSON writes the value back in the form it was read.
func (v TypeValue) MarshalJSON() ([]byte, error) {
	if v.IsNested() {
		return json.Marshal(v.Nested)
	}
	return json.Marshal(v.Scalar)
}

// Flag is a boolean that may be written as true/false or 1/0 in the input.
type Flag bool

// UnmarshalJSON accepts JSON booleans and numbers; a number is true iff it
// equals 1.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flag must be a boolean or a number: %s", data)
	}
	*f = n == 1
	return nil
}

// Set reports whether the optional flag is present.
func (f *Flag) Set() bool { return f != nil }

// Decode reads a specification (a JSON array of KernelInfo) from r.
func Decode(r io.Reader) ([]KernelInfo, error) {
	var infos []KernelInfo
	if err := json.NewDecoder(r).Decode(&infos); err != nil {
		return nil, fmt.Errorf("decode kernel specification: %w", err)
	}
	return infos, nil
}

// Load reads the specification file at path.
func Load(path string) ([]KernelInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	infos, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return infos, nil
}
