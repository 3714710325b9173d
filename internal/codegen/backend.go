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

// NativeBackend is the backend tag of the plain C++ kernels. Its symbols,
// includes and op codes carry no backend namespace.
const NativeBackend = "CPP"

// Backend is the code generation target selected on the command line, e.g.
// "CPP", "CUDA" or "FPGAOPENCL".
type Backend struct {
	Name string
}

// GetBackend returns the backend for the given tag. An empty tag selects the
// native backend.
func GetBackend(name string) Backend {
	if name == "" {
		name = NativeBackend
	}
	return Backend{Name: name}
}

// Native reports whether b is the native C++ backend.
func (b Backend) Native() bool { return b.Name == NativeBackend }

// FuncPrefix is prepended to every wrapper name: "_" for the native backend,
// "<backend>_" otherwise.
func (b Backend) FuncPrefix() string {
	if b.Native() {
		return "_"
	}
	return b.Name + "_"
}

// Qualify places a kernel-side symbol into the backend's C++ namespace.
func (b Backend) Qualify(symbol string) string {
	if b.Native() {
		return symbol
	}
	return b.Name + "::" + symbol
}

// IncludePath returns the include path of a kernel header.
func (b Backend) IncludePath(header string) string {
	if b.Native() {
		return "runtime/local/kernels/" + header
	}
	return "runtime/local/kernels/" + b.Name + "/" + header
}

// LibPath is the kernel library the catalog points at. The catalog is
// expected to sit next to the libraries.
func (b Backend) LibPath() string {
	if b.Native() {
		return "libAllKernels.so"
	}
	return "lib" + b.Name + "Kernels.so"
}

func (b Backend) String() string { return b.Name }
