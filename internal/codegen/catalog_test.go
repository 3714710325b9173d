package codegen

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewCatalogEntry(t *testing.T) {
	tests := []struct {
		name     string
		params   []Param
		backend  string
		wantRes  []string
		wantArgs []string
		wantLib  string
	}{
		{
			name: "decorations stripped",
			params: []Param{
				{Name: "res", Type: "DenseMatrix<double> **", Output: true},
				{Name: "arg", Type: "const DenseMatrix<double> *"},
				{Name: "s", Type: "double"},
			},
			backend:  "CPP",
			wantRes:  []string{"DenseMatrix<double>"},
			wantArgs: []string{"DenseMatrix<double>", "double"},
			wantLib:  "libAllKernels.so",
		},
		{
			name: "truncated at group enum",
			params: []Param{
				{Name: "res", Type: "Frame **", Output: true},
				{Name: "arg", Type: "const Frame *"},
				{Name: "fns", Type: "mlir::daphne::GroupEnum *"},
				{Name: "n", Type: "size_t"},
			},
			backend:  "CUDA",
			wantRes:  []string{"Frame"},
			wantArgs: []string{"Frame"},
			wantLib:  "libCUDAKernels.so",
		},
		{
			name: "truncated at void pointer",
			params: []Param{
				{Name: "data", Type: "void *"},
				{Name: "n", Type: "size_t"},
			},
			backend:  "CPP",
			wantRes:  []string{},
			wantArgs: []string{},
			wantLib:  "libAllKernels.so",
		},
		{
			name: "outputs after the truncation point are kept",
			params: []Param{
				{Name: "cmp", Type: "CompareOperation"},
				{Name: "out", Type: "bool *", Output: true},
			},
			backend:  "CPP",
			wantRes:  []string{"bool"},
			wantArgs: []string{},
			wantLib:  "libAllKernels.so",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newCatalogEntry("op", "_op", tt.params, GetBackend(tt.backend))
			if diff := cmp.Diff(tt.wantRes, e.ResTypes); diff != "" {
				t.Errorf("resTypes mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantArgs, e.ArgTypes); diff != "" {
				t.Errorf("argTypes mismatch (-want +got):\n%s", diff)
			}
			if e.LibPath != tt.wantLib || e.Backend != tt.backend {
				t.Errorf("backend/libPath = %q/%q, want %q/%q", e.Backend, e.LibPath, tt.backend, tt.wantLib)
			}
		})
	}
}

func TestCatalogWriteFile(t *testing.T) {
	c := &Catalog{}
	c.Add(CatalogEntry{
		OpMnemonic:     "transpose",
		KernelFuncName: "_transpose__DenseMatrix_float__DenseMatrix_float",
		ResTypes:       []string{"DenseMatrix<float>"},
		ArgTypes:       []string{"DenseMatrix<float>"},
		Backend:        "CPP",
		LibPath:        "libAllKernels.so",
	})
	path := filepath.Join(t.TempDir(), "nested", "dir", "catalog.json")
	if err := c.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.HasSuffix(data, []byte("\n")) {
		t.Errorf("catalog file ends with a newline: %q", data[len(data)-3:])
	}
	var got []CatalogEntry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("catalog is not valid JSON: %v", err)
	}
	if diff := cmp.Diff(c.Entries(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyCatalogJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := (&Catalog{}).WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("empty catalog = %q, want %q", data, "[]")
	}
}
