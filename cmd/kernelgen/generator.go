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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/daphne-eu/kernelgen/internal/codegen"
	"github.com/daphne-eu/kernelgen/internal/kernelspec"
	"k8s.io/klog/v2"
)

// DefaultSeparateUnits is the number of kernels with the most instantiations
// that get a source file of their own.
const DefaultSeparateUnits = 8

// Generator orchestrates one run: load the specification, generate all
// kernels for the backend, write the source units and the catalog.
type Generator struct {
	InputFile    string // JSON specification of kernel instantiations
	OutputPrefix string // Generated files are named <OutputPrefix>_<idx>.cpp
	CatalogFile  string // Output kernel catalog (JSON)
	Backend      codegen.Backend
	Separate     int // Kernels placed in their own unit
}

// Result lists what a run wrote.
type Result struct {
	Files   []string
	Catalog *codegen.Catalog
}

// Run executes the generation pipeline.
func (g *Generator) Run() (*Result, error) {
	infos, err := kernelspec.Load(g.InputFile)
	if err != nil {
		return nil, fmt.Errorf("load specification: %w", err)
	}

	catalog := &codegen.Catalog{}
	frags, err := codegen.NewBatch(g.Backend, catalog).GenerateAll(infos)
	if err != nil {
		return nil, err
	}

	units := Partition(frags, g.Separate)
	klog.V(1).Infof("%d kernels for %s in %d units", len(frags), g.Backend, len(units))

	res := &Result{Catalog: catalog}
	for idx, unit := range units {
		path := g.OutputPrefix + "_" + strconv.Itoa(idx) + ".cpp"
		if err := writeUnit(path, unit); err != nil {
			return nil, fmt.Errorf("write unit: %w", err)
		}
		res.Files = append(res.Files, path)
	}

	klog.Infof("writing catalog to %s", g.CatalogFile)
	if err := catalog.WriteFile(g.CatalogFile); err != nil {
		return nil, err
	}
	klog.V(1).Infof("generated files: %v", res.Files)
	return res, nil
}

func writeUnit(path string, unit *codegen.Unit) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := unit.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
