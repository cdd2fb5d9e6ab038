package parse

import (
	"testing"

	"github.com/sevmeta/sevmeta/format"
	"github.com/sevmeta/sevmeta/ir"
)

type isoTest struct {
	name string
	json string
	yaml string
}

// JSON and YAML inputs with the same content must produce identical
// trees.
func TestJSONYAMLIsomorphism(t *testing.T) {
	tests := []isoTest{
		{
			name: "scalars",
			json: `{"a": 1, "b": "x", "c": true, "d": null, "e": 1.5}`,
			yaml: "a: 1\nb: x\nc: true\nd: null\ne: 1.5",
		},
		{
			name: "nested",
			json: `{"Info": {"Labels": ["ONLINE", "PE_READY"]}}`,
			yaml: "Info:\n  Labels:\n  - ONLINE\n  - PE_READY",
		},
		{
			name: "uid array",
			json: `{"Results": [{"UID": "R1", "Value": 2}]}`,
			yaml: "Results:\n- UID: R1\n  Value: 2",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jy, err := Parse([]byte(tc.json), WithFormat(format.JSONFormat))
			if err != nil {
				t.Fatalf("json: %v", err)
			}
			yy, err := Parse([]byte(tc.yaml), WithFormat(format.YAMLFormat))
			if err != nil {
				t.Fatalf("yaml: %v", err)
			}
			if !ir.Equal(jy, yy) {
				t.Errorf("parsed trees differ")
			}
		})
	}
}

func TestFieldOrderPreserved(t *testing.T) {
	y, err := Parse([]byte(`{"z": 1, "a": 2, "m": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"z", "a", "m"}
	for i, f := range y.Fields {
		if f.String != want[i] {
			t.Errorf("field %d = %q, want %q", i, f.String, want[i])
		}
	}
}

func TestSniff(t *testing.T) {
	jy, err := Parse([]byte("  {\"a\": 1}"))
	if err != nil || ir.Get(jy, "a") == nil {
		t.Errorf("sniffed json parse failed: %v", err)
	}
	yy, err := Parse([]byte("a: 1"))
	if err != nil || ir.Get(yy, "a") == nil {
		t.Errorf("sniffed yaml parse failed: %v", err)
	}
}

func TestDuplicateKeyRejected(t *testing.T) {
	if _, err := Parse([]byte(`{"a": 1, "a": 2}`)); err == nil {
		t.Errorf("expected duplicate key error")
	}
}

func TestDuplicateUIDRejected(t *testing.T) {
	in := `{"Results": [{"UID": "R1"}, {"UID": "R1"}]}`
	if _, err := Parse([]byte(in)); err == nil {
		t.Fatalf("expected duplicate UID error")
	}
	if _, err := Parse([]byte(in), AllowDuplicateUIDs()); err != nil {
		t.Errorf("AllowDuplicateUIDs: %v", err)
	}
}

func TestNumberFidelity(t *testing.T) {
	y, err := Parse([]byte(`{"a": 3, "b": 2.50}`))
	if err != nil {
		t.Fatal(err)
	}
	a := ir.Get(y, "a")
	if a.Int64 == nil || *a.Int64 != 3 || a.Number != "3" {
		t.Errorf("int literal lost: %+v", a)
	}
	b := ir.Get(y, "b")
	if b.Float64 == nil || *b.Float64 != 2.5 || b.Number != "2.50" {
		t.Errorf("float literal lost: %+v", b)
	}
}
