package kernelspec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleSpec = `[
  {
    "kernelTemplate": {
      "header": "EwBinaryMat.h",
      "opName": "ewBinaryMat",
      "returnType": "void",
      "templateParams": [{"name": "DTRes"}, {"name": "DTLhs"}],
      "runtimeParams": [
        {"type": "BinaryOpCode", "name": "opCode"},
        {"type": "DTRes *&", "name": "res"},
        {"type": "const DTLhs **", "name": "args", "isVariadic": true},
        {"type": "size_t", "name": "numArgs", "isReturnValue": false}
      ],
      "opCodeAsTemplateParam": 1
    },
    "instantiations": [[["DenseMatrix", "double"], "double"]],
    "opCodes": ["ADD", "SUB"]
  },
  {
    "kernelTemplate": {
      "header": "Transpose.h",
      "opName": "transpose",
      "returnType": "void",
      "templateParams": [{"name": "DT"}],
      "runtimeParams": [{"type": "DT *&", "name": "res", "isOutput": true}]
    },
    "api": [
      {"name": ["CPP", "CUDA"], "instantiations": [[["DenseMatrix", "CSRMatrix", "float"]]]}
    ]
  }
]`

func TestDecode(t *testing.T) {
	infos, err := Decode(strings.NewReader(sampleSpec))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d kernel infos, want 2", len(infos))
	}

	ew := infos[0]
	if ew.Template.OpName != "ewBinaryMat" {
		t.Errorf("OpName = %q, want %q", ew.Template.OpName, "ewBinaryMat")
	}
	if !ew.Template.OpCodeAsTemplateParam {
		t.Error("OpCodeAsTemplateParam = false, want true for 1")
	}
	if diff := cmp.Diff([]string{"ADD", "SUB"}, ew.OpCodes); diff != "" {
		t.Errorf("OpCodes mismatch (-want +got):\n%s", diff)
	}
	wantInst := []Instantiation{{Nested("DenseMatrix", "double"), Scalar("double")}}
	if diff := cmp.Diff(wantInst, ew.Instantiations); diff != "" {
		t.Errorf("Instantiations mismatch (-want +got):\n%s", diff)
	}

	rps := ew.Template.RuntimeParams
	if !rps[2].IsVariadic {
		t.Error("args.IsVariadic = false, want true")
	}
	if rps[1].IsReturnValue.Set() {
		t.Error("res.IsReturnValue is set, want absent")
	}
	if !rps[3].IsReturnValue.Set() {
		t.Error("numArgs.IsReturnValue is absent, want set even though false")
	}
	if ew.API != nil {
		t.Errorf("API = %v, want nil", ew.API)
	}

	tr := infos[1]
	if len(tr.API) != 1 {
		t.Fatalf("got %d api entries, want 1", len(tr.API))
	}
	if diff := cmp.Diff([]string{"CPP", "CUDA"}, tr.API[0].Names); diff != "" {
		t.Errorf("api names mismatch (-want +got):\n%s", diff)
	}
	if got := tr.API[0].Instantiations[0][0]; !got.IsNested() || len(got.Nested) != 3 {
		t.Errorf("three-level value decoded as %v", got)
	}
	if out := tr.Template.RuntimeParams[0].IsOutput; out == nil || !*out {
		t.Errorf("res.IsOutput = %v, want true", out)
	}
	if tr.Template.OpCodeAsTemplateParam {
		t.Error("OpCodeAsTemplateParam defaults to true, want false")
	}
}

func TestTypeValueUnmarshalErrors(t *testing.T) {
	tests := []string{
		`[{"kernelTemplate": {}, "instantiations": [[42]]}]`,
		`[{"kernelTemplate": {}, "instantiations": [[{"a": 1}]]}]`,
		`[{"kernelTemplate": {"opCodeAsTemplateParam": "yes"}}]`,
	}
	for _, in := range tests {
		if _, err := Decode(strings.NewReader(in)); err == nil {
			t.Errorf("Decode(%s) succeeded, want error", in)
		}
	}
}

func TestEmptyNestedValue(t *testing.T) {
	built := Nested()
	var decoded TypeValue
	if err := decoded.UnmarshalJSON([]byte(`[]`)); err != nil {
		t.Fatalf("UnmarshalJSON([]): %v", err)
	}
	for name, v := range map[string]TypeValue{"constructor": built, "decoded": decoded} {
		if !v.IsNested() || len(v.Nested) != 0 {
			t.Errorf("%s: IsNested() = %v, len = %d, want an empty nesting list", name, v.IsNested(), len(v.Nested))
		}
	}
	if diff := cmp.Diff(decoded, built); diff != "" {
		t.Errorf("constructor and decoder disagree (-decoded +built):\n%s", diff)
	}
}

func TestFlag(t *testing.T) {
	tests := []struct {
		in   string
		want Flag
	}{
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
		{"2", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f Flag
			if err := f.UnmarshalJSON([]byte(tt.in)); err != nil {
				t.Fatalf("UnmarshalJSON(%s): %v", tt.in, err)
			}
			if f != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.in, f, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernels.json")
	if err := os.WriteFile(path, []byte(sampleSpec), 0o644); err != nil {
		t.Fatal(err)
	}
	infos, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("got %d kernel infos, want 2", len(infos))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of a missing file succeeded")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"not": "a list"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("Load(bad) error = %v, want error naming the file", err)
	}
}
