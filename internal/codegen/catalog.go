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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// CatalogEntry describes one generated wrapper for the kernel catalog that
// the runtime loads at start-up.
type CatalogEntry struct {
	OpMnemonic     string   `json:"opMnemonic"`
	KernelFuncName string   `json:"kernelFuncName"`
	ResTypes       []string `json:"resTypes"`
	ArgTypes       []string `json:"argTypes"`
	Backend        string   `json:"backend"`
	LibPath        string   `json:"libPath"`
}

// ArgTypeTruncation lists argument types at which the catalog's argTypes
// list ends: the type itself and all following inputs are left out.
//
// TODO: these kernels take a parameter the catalog cannot express; find out
// whether filtering instead of truncating would be correct for them.
var ArgTypeTruncation = []string{
	"void",
	"mlir::daphne::GroupEnum",
	"CompareOperation",
}

// catalogTypeReplacer removes pointer and const decorations.
var catalogTypeReplacer = strings.NewReplacer(
	" **", "",
	" *", "",
	"const ", "",
)

func catalogType(cppType string) string {
	return catalogTypeReplacer.Replace(cppType)
}

// newCatalogEntry derives the catalog entry of a wrapper with the given
// parameters.
func newCatalogEntry(opMnemonic, funcName string, params []Param, backend Backend) CatalogEntry {
	inputs, outputs := lo.FilterReject(params, func(p Param, _ int) bool {
		return !p.Output
	})
	toType := func(p Param, _ int) string { return catalogType(p.Type) }

	argTypes := lo.Map(inputs, toType)
	if _, idx, found := lo.FindIndexOf(argTypes, func(t string) bool {
		return lo.Contains(ArgTypeTruncation, t)
	}); found {
		argTypes = argTypes[:idx]
	}

	return CatalogEntry{
		OpMnemonic:     opMnemonic,
		KernelFuncName: funcName,
		ResTypes:       lo.Map(outputs, toType),
		ArgTypes:       argTypes,
		Backend:        backend.Name,
		LibPath:        backend.LibPath(),
	}
}

// Catalog accumulates the entries of all wrappers generated in one run, in
// generation order.
type Catalog struct {
	entries []CatalogEntry
}

// Add appends e.
func (c *Catalog) Add(e CatalogEntry) {
	c.entries = append(c.entries, e)
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries.
func (c *Catalog) Entries() []CatalogEntry {
	return append([]CatalogEntry(nil), c.entries...)
}

// WriteJSON writes the catalog as an indented JSON array without a trailing
// newline.
func (c *Catalog) WriteJSON(w io.Writer) error {
	entries := c.entries
	if entries == nil {
		entries = []CatalogEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// WriteFile writes the catalog to path, creating parent directories.
func (c *Catalog) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return f.Close()
}
