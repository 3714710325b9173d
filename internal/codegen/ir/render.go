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

package ir

import (
	"bytes"
	"fmt"
	"strings"
)

// Indent is one level of indentation in generated code.
const Indent = "    "

const (
	dispatchIDDecl = "int kId"
	contextDecl    = "DCTX(ctx)"
	contextArg     = "ctx"
)

// Signature returns the parameter list of f, including the dispatch id and
// context parameters.
func (f *Func) Signature() string {
	decls := make([]string, 0, len(f.Params)+2)
	for _, p := range f.Params {
		decls = append(decls, p.Type+" "+p.Name)
	}
	if f.DispatchID {
		decls = append(decls, dispatchIDDecl)
	}
	if f.Context {
		decls = append(decls, contextDecl)
	}
	return strings.Join(decls, ", ")
}

// Expr renders the kernel call expression without the trailing semicolon.
func (c *Call) Expr() string {
	var sb strings.Builder
	sb.WriteString(c.Callee)
	if len(c.TemplateArgs) > 0 {
		sb.WriteString("<" + strings.Join(c.TemplateArgs, ", ") + ">")
	}
	if c.Apply {
		sb.WriteString("::apply")
	}
	sb.WriteString("(" + strings.Join(c.Args, ", ") + ")")
	return sb.String()
}

// Render writes f as a C++ function definition at one level of indentation.
func (f *Func) Render(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "%svoid %s(%s) {\n", Indent, f.Name, f.Signature())

	stmt := f.Call.Expr() + ";"
	if f.Call.Result != "" {
		stmt = "*" + f.Call.Result + " = " + stmt
	}

	if !f.DispatchID {
		fmt.Fprintf(buf, "%s%s\n", strings.Repeat(Indent, 2), stmt)
		fmt.Fprintf(buf, "%s}\n", Indent)
		return
	}

	in2, in3 := strings.Repeat(Indent, 2), strings.Repeat(Indent, 3)
	fmt.Fprintf(buf, "%stry{\n", in2)
	fmt.Fprintf(buf, "%spreKernelInstrumentation(kId, %s);\n", in3, contextArg)
	fmt.Fprintf(buf, "%s%s\n", in3, stmt)
	fmt.Fprintf(buf, "%spostKernelInstrumentation(kId, %s);\n", in3, contextArg)
	fmt.Fprintf(buf, "%s} catch(std::exception &e) {\n", in2)
	fmt.Fprintf(buf, "%sthrow ErrorHandler::runtimeError(kId, e.what(), &(%s->dispatchMapping));\n", in3, contextArg)
	fmt.Fprintf(buf, "%s}\n", in2)
	fmt.Fprintf(buf, "%s}\n", Indent)
}

// Render writes the banner comment followed by all wrappers of the block.
func (b *Block) Render(buf *bytes.Buffer) {
	rule := strings.Repeat("-", 76)
	fmt.Fprintf(buf, "%s// %s\n", Indent, rule)
	fmt.Fprintf(buf, "%s// %s\n", Indent, b.Title)
	fmt.Fprintf(buf, "%s// %s\n", Indent, rule)
	for i := range b.Funcs {
		b.Funcs[i].Render(buf)
	}
}

// String renders f on its own.
func (f *Func) String() string {
	var buf bytes.Buffer
	f.Render(&buf)
	return buf.String()
}
