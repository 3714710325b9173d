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
	"github.com/daphne-eu/kernelgen/internal/codegen/ir"
	"github.com/daphne-eu/kernelgen/internal/kernelspec"
	"k8s.io/klog/v2"
)

// Emitter turns kernel instantiations into wrapper functions for one backend
// and records a catalog entry for each of them.
type Emitter struct {
	Backend Backend
	Catalog *Catalog
}

// NewEmitter returns an emitter that appends to catalog.
func NewEmitter(backend Backend, catalog *Catalog) *Emitter {
	return &Emitter{Backend: backend, Catalog: catalog}
}

// EmitInstantiation builds the wrappers of one instantiation of tmpl: one per
// op code, or a single one if opCodes is empty. With op codes, the first
// runtime parameter of the kernel is the op-code selector and is not part of
// the wrapper signature.
//
// Nothing is emitted and nothing is added to the catalog if the
// instantiation does not fit the template.
func (e *Emitter) EmitInstantiation(tmpl *kernelspec.KernelTemplate, values kernelspec.Instantiation, opCodes []string) ([]ir.Func, error) {
	binding, err := Bind(tmpl, values)
	if err != nil {
		return nil, err
	}

	runtimeParams := tmpl.RuntimeParams
	var opCodeType string
	if len(opCodes) > 0 {
		if len(runtimeParams) == 0 {
			return nil, &ConfigurationError{Kernel: tmpl.OpName, Msg: "op codes given, but the kernel has no op-code parameter"}
		}
		opCodeType = runtimeParams[0].Type
		runtimeParams = runtimeParams[1:]
	}

	params := ExpandParams(tmpl.ReturnType, runtimeParams, binding)
	suffix := MangleSuffix(params)

	if len(opCodes) == 0 {
		f := e.emitFunc(tmpl, binding, params, suffix, opCodeType, "")
		return []ir.Func{f}, nil
	}
	funcs := make([]ir.Func, 0, len(opCodes))
	for _, opCode := range opCodes {
		funcs = append(funcs, e.emitFunc(tmpl, binding, params, suffix, opCodeType, opCode))
	}
	return funcs, nil
}

// emitFunc builds a single wrapper. opCode is empty when the kernel has no
// op-code dispatch.
func (e *Emitter) emitFunc(tmpl *kernelspec.KernelTemplate, binding *Binding, params []Param, suffix, opCodeType, opCode string) ir.Func {
	mnemonic := concreteOpName(tmpl.OpName, opCodeType, opCode)
	name := e.Backend.FuncPrefix() + mnemonic + suffix
	isCreateContext := tmpl.OpName == createContextOp
	asTemplateArg := bool(tmpl.OpCodeAsTemplateParam)

	f := ir.Func{
		Name:       name,
		Params:     make([]ir.Param, len(params)),
		DispatchID: isInstrumented(tmpl.OpName),
		Context:    !isCreateContext,
	}
	for i, p := range params {
		f.Params[i] = ir.Param{Type: p.Type, Name: p.Name}
	}

	call := ir.Call{
		Callee:       e.Backend.Qualify(tmpl.OpName),
		TemplateArgs: binding.Types(),
		Apply:        asTemplateArg,
	}
	if opCode != "" {
		if asTemplateArg {
			word := e.Backend.Qualify(opCodeTypeWord(opCodeType))
			call.TemplateArgs = append([]string{word + "::" + opCode}, call.TemplateArgs...)
		} else {
			call.Args = append(call.Args, opCodeType+"::"+opCode)
		}
	}

	kernelParams := params
	if tmpl.ReturnType != VoidType {
		call.Result = ResultParamName
		kernelParams = params[1:]
	}
	for _, p := range kernelParams {
		if p.IsDoublePointerOutput() {
			call.Args = append(call.Args, "*"+p.Name)
		} else {
			call.Args = append(call.Args, p.Name)
		}
	}
	if !isCreateContext {
		call.Args = append(call.Args, "ctx")
	}
	f.Call = call

	klog.V(2).Infof("emit %s", name)
	e.Catalog.Add(newCatalogEntry(mnemonic, name, params, e.Backend))
	return f
}
