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
	"cmp"
	"slices"

	"github.com/daphne-eu/kernelgen/internal/codegen"
	"github.com/samber/lo"
)

// Partition distributes the generated kernels over source units. Kernels are
// ordered by descending instantiation count (ties keep input order); the
// first separate kernels get a unit each and the rest share one. Kernels
// without generated code are dropped, and no empty unit is returned.
func Partition(frags []*codegen.Fragment, separate int) []*codegen.Unit {
	generated := lo.Filter(frags, func(f *codegen.Fragment, _ int) bool {
		return f.Generated()
	})
	slices.SortStableFunc(generated, func(a, b *codegen.Fragment) int {
		return cmp.Compare(b.Instantiations, a.Instantiations)
	})

	separate = max(0, min(separate, len(generated)))
	units := make([]*codegen.Unit, 0, separate+1)
	for _, f := range generated[:separate] {
		units = append(units, &codegen.Unit{Fragments: []*codegen.Fragment{f}})
	}
	if rest := generated[separate:]; len(rest) > 0 {
		units = append(units, &codegen.Unit{Fragments: rest})
	}
	return units
}
