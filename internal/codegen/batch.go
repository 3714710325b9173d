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
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/daphne-eu/kernelgen/internal/codegen/ir"
	"github.com/daphne-eu/kernelgen/internal/kernelspec"
	"github.com/samber/lo"
	"k8s.io/klog/v2"
)

// DefaultIncludes are included by every generated unit.
var DefaultIncludes = []string{
	"stdexcept",
	"util/ErrorHandler.h",
	"runtime/local/context/DaphneContext.h",
	"runtime/local/instrumentation/KernelInstrumentation.h",
}

// InstantiationSet is one group of instantiations of a kernel that applies
// to the selected backend.
type InstantiationSet struct {
	Instantiations []kernelspec.Instantiation
	OpCodes        []string
}

// Applicable returns the instantiation sets of info for backend, in input
// order. A kernel without api overrides applies to the native backend only.
// The result is empty if the kernel does not apply.
func Applicable(info *kernelspec.KernelInfo, backend Backend) []InstantiationSet {
	if info.API == nil {
		if !backend.Native() {
			return nil
		}
		return []InstantiationSet{{Instantiations: info.Instantiations, OpCodes: info.OpCodes}}
	}
	var sets []InstantiationSet
	for _, api := range info.API {
		for range lo.Count(api.Names, backend.Name) {
			sets = append(sets, InstantiationSet{Instantiations: api.Instantiations, OpCodes: api.OpCodes})
		}
	}
	return sets
}

// Fragment is the generated code of one kernel template.
type Fragment struct {
	OpName         string
	Includes       []string
	Body           []byte
	Instantiations int
	Funcs          int
}

// Generated reports whether any code was generated for the kernel.
func (f *Fragment) Generated() bool { return len(f.Includes) > 0 }

// Batch generates the wrappers of many kernel templates for one backend,
// sharing one catalog.
type Batch struct {
	emitter *Emitter
}

// NewBatch returns a batch for backend that appends to catalog.
func NewBatch(backend Backend, catalog *Catalog) *Batch {
	return &Batch{emitter: NewEmitter(backend, catalog)}
}

// Generate emits all wrappers of info. Each applicable instantiation set
// adds a banner block and an include of the kernel header. A kernel that does
// not apply to the backend yields an empty fragment.
func (b *Batch) Generate(info *kernelspec.KernelInfo) (*Fragment, error) {
	backend := b.emitter.Backend
	tmpl := &info.Template
	frag := &Fragment{OpName: tmpl.OpName}

	var buf bytes.Buffer
	for _, set := range Applicable(info, backend) {
		klog.V(1).Infof("kernel %s: %d instantiations for %s", tmpl.OpName, len(set.Instantiations), backend)
		block := ir.Block{Title: tmpl.OpName}
		for _, inst := range set.Instantiations {
			funcs, err := b.emitter.EmitInstantiation(tmpl, inst, set.OpCodes)
			if err != nil {
				return nil, err
			}
			block.Funcs = append(block.Funcs, funcs...)
		}
		block.Render(&buf)
		frag.Includes = append(frag.Includes, backend.IncludePath(tmpl.Header))
		frag.Instantiations += len(set.Instantiations)
		frag.Funcs += len(block.Funcs)
	}
	frag.Body = buf.Bytes()
	return frag, nil
}

// GenerateAll generates every kernel in input order. The first configuration
// error aborts the batch.
func (b *Batch) GenerateAll(infos []kernelspec.KernelInfo) ([]*Fragment, error) {
	frags := make([]*Fragment, 0, len(infos))
	for i := range infos {
		frag, err := b.Generate(&infos[i])
		if err != nil {
			return nil, fmt.Errorf("generate kernel #%d: %w", i, err)
		}
		frags = append(frags, frag)
	}
	return frags, nil
}

// Unit is one generated C++ source file.
type Unit struct {
	Fragments []*Fragment
}

// Includes returns the default includes followed by the kernel headers of all
// fragments. Duplicates are kept.
func (u *Unit) Includes() []string {
	includes := append([]string(nil), DefaultIncludes...)
	for _, f := range u.Fragments {
		includes = append(includes, f.Includes...)
	}
	return includes
}

var unitTemplate = template.Must(template.New("unit").Parse(
	`{{range .Includes}}#include <{{.}}>
{{end}}
extern "C" {
{{range .Fragments}}{{printf "%s" .Body}}{{end}}}
`))

// Render writes the unit: includes, then all wrappers in one extern "C"
// block.
func (u *Unit) Render(w io.Writer) error {
	return unitTemplate.Execute(w, struct {
		Includes  []string
		Fragments []*Fragment
	}{u.Includes(), u.Fragments})
}

// GenerateUnit generates all of infos into a single unit.
func GenerateUnit(infos []kernelspec.KernelInfo, backend Backend, catalog *Catalog) (*Unit, error) {
	frags, err := NewBatch(backend, catalog).GenerateAll(infos)
	if err != nil {
		return nil, err
	}
	return &Unit{Fragments: frags}, nil
}
