package merge

import (
	"strings"
	"testing"

	"github.com/sevmeta/sevmeta/encode"
	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/parse"
)

func mustParse(t *testing.T, s string) *ir.Node {
	t.Helper()
	y, err := parse.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return y
}

func checkEqual(t *testing.T, got, want *ir.Node) {
	t.Helper()
	if !ir.Equal(got, want) {
		t.Fatalf("got\n%s\nwant\n%s", encode.MustString(got), encode.MustString(want))
	}
}

func TestAdditiveScalars(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		update string
		want   string
	}{
		{
			name:   "set-new",
			base:   `{"Sname": "S230101ab"}`,
			update: `{"Status": "ongoing"}`,
			want:   `{"Sname": "S230101ab", "Status": "ongoing"}`,
		},
		{
			name:   "overwrite",
			base:   `{"Status": "ongoing"}`,
			update: `{"Status": "complete"}`,
			want:   `{"Status": "complete"}`,
		},
		{
			name:   "nested-create",
			base:   `{}`,
			update: `{"Info": {"Labels": "noted"}}`,
			want:   `{"Info": {"Labels": "noted"}}`,
		},
		{
			name:   "untouched-siblings",
			base:   `{"Info": {"A": 1, "B": 2}}`,
			update: `{"Info": {"B": 3}}`,
			want:   `{"Info": {"A": 1, "B": 3}}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base := mustParse(t, tc.base)
			update := mustParse(t, tc.update)
			got, warns, err := Merge(base, update, Additive)
			if err != nil {
				t.Fatal(err)
			}
			if len(warns) != 0 {
				t.Fatalf("unexpected warnings %v", warns)
			}
			checkEqual(t, got, mustParse(t, tc.want))

			// applying the same update again changes nothing
			again, _, err := Merge(got, update, Additive)
			if err != nil {
				t.Fatal(err)
			}
			checkEqual(t, again, got)
		})
	}
}

func TestAdditiveListAppendAccumulates(t *testing.T) {
	base := mustParse(t, `{"Pipelines": ["gstlal"]}`)
	update := mustParse(t, `{"Pipelines": ["mbta"]}`)
	once, _, err := Merge(base, update, Additive)
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, once, mustParse(t, `{"Pipelines": ["gstlal", "mbta"]}`))

	// list appends are not idempotent, duplicates accumulate
	twice, _, err := Merge(once, update, Additive)
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, twice, mustParse(t, `{"Pipelines": ["gstlal", "mbta", "mbta"]}`))
}

func TestAdditiveListReplaceWhenBaseNotList(t *testing.T) {
	base := mustParse(t, `{"Pipelines": "gstlal"}`)
	update := mustParse(t, `{"Pipelines": ["mbta"]}`)
	got, _, err := Merge(base, update, Additive)
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, got, mustParse(t, `{"Pipelines": ["mbta"]}`))
}

func TestRemovalInvertsAddition(t *testing.T) {
	base := mustParse(t, `{"Pipelines": ["gstlal"]}`)
	update := mustParse(t, `{"Pipelines": ["mbta"]}`)
	added, _, err := Merge(base, update, Additive)
	if err != nil {
		t.Fatal(err)
	}
	removed, warns, err := Merge(added, update, Removal)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings %v", warns)
	}
	checkEqual(t, removed, base)
}

func TestRemovalFirstOccurrenceOnly(t *testing.T) {
	base := mustParse(t, `{"Pipelines": ["mbta", "gstlal", "mbta"]}`)
	update := mustParse(t, `{"Pipelines": ["mbta"]}`)
	got, _, err := Merge(base, update, Removal)
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, got, mustParse(t, `{"Pipelines": ["gstlal", "mbta"]}`))
}

func TestRemovalAbsentSilent(t *testing.T) {
	base := mustParse(t, `{"Pipelines": ["gstlal"]}`)
	update := mustParse(t, `{"Pipelines": ["mbta"], "Gone": ["x"]}`)
	got, warns, err := Merge(base, update, Removal)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings %v", warns)
	}
	checkEqual(t, got, base)
}

func TestRemovalScalarWarnsAndSkips(t *testing.T) {
	base := mustParse(t, `{"Status": "ongoing"}`)
	update := mustParse(t, `{"Status": "ongoing"}`)
	got, warns, err := Merge(base, update, Removal)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 1 {
		t.Fatalf("want 1 warning, got %v", warns)
	}
	if !strings.Contains(warns[0].Message, "scalar") {
		t.Fatalf("unexpected warning %v", warns[0])
	}
	checkEqual(t, got, base)
}

func TestUIDResolveAndCreate(t *testing.T) {
	base := mustParse(t, `{"Analyses": []}`)
	first := mustParse(t, `{"Analyses": [{"UID": "A1", "Reviewer": "alice", "Status": "ongoing"}]}`)
	second := mustParse(t, `{"Analyses": [{"UID": "A1", "Status": "complete"}]}`)

	got, _, err := Merge(base, first, Additive)
	if err != nil {
		t.Fatal(err)
	}
	got, _, err = Merge(got, second, Additive)
	if err != nil {
		t.Fatal(err)
	}
	// one element resolved by UID, latest values win, untouched fields kept
	checkEqual(t, got, mustParse(t,
		`{"Analyses": [{"UID": "A1", "Reviewer": "alice", "Status": "complete"}]}`))
}

func TestNestedUIDAddressing(t *testing.T) {
	base := mustParse(t, `{"Analyses": []}`)
	first := mustParse(t, `{"Analyses": [{"UID": "A1", "Results": [{"UID": "R1", "Value": 1}]}]}`)
	second := mustParse(t, `{"Analyses": [{"UID": "A1", "Results": [{"UID": "R1", "Value": 2}]}]}`)

	got, _, err := Merge(base, first, Additive)
	if err != nil {
		t.Fatal(err)
	}
	got, _, err = Merge(got, second, Additive)
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, got, mustParse(t,
		`{"Analyses": [{"UID": "A1", "Results": [{"UID": "R1", "Value": 2}]}]}`))
}

func TestRemovalInsideUIDElement(t *testing.T) {
	base := mustParse(t, `{"Analyses": [{"UID": "A1", "Files": ["a.dat", "b.dat"]}]}`)
	update := mustParse(t, `{"Analyses": [{"UID": "A1", "Files": ["a.dat"]}]}`)
	got, warns, err := Merge(base, update, Removal)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings %v", warns)
	}
	checkEqual(t, got, mustParse(t, `{"Analyses": [{"UID": "A1", "Files": ["b.dat"]}]}`))
}

func TestRemovalWholeElementWarns(t *testing.T) {
	base := mustParse(t, `{"Analyses": [{"UID": "A1", "Status": "ongoing"}]}`)
	update := mustParse(t, `{"Analyses": [{"UID": "A1"}]}`)
	got, warns, err := Merge(base, update, Removal)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 1 {
		t.Fatalf("want 1 warning, got %v", warns)
	}
	checkEqual(t, got, base)
}

func TestRemovalMissingUIDSilent(t *testing.T) {
	base := mustParse(t, `{"Analyses": [{"UID": "A1"}]}`)
	update := mustParse(t, `{"Analyses": [{"UID": "A2", "Status": "ongoing"}]}`)
	got, warns, err := Merge(base, update, Removal)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings %v", warns)
	}
	checkEqual(t, got, base)
}

func TestMalformedUpdates(t *testing.T) {
	base := mustParse(t, `{"Analyses": []}`)
	tests := []struct {
		name   string
		update string
	}{
		{"element-without-uid", `{"Analyses": [{"Status": "ongoing"}]}`},
		{"mixed-elements", `{"Analyses": [{"UID": "A1"}, {"Status": "x"}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			update := mustParse(t, tc.update)
			_, _, err := Merge(base, update, Additive)
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*MalformedUpdateError); !ok {
				t.Fatalf("want MalformedUpdateError, got %T: %v", err, err)
			}
		})
	}

	_, _, err := Merge(base, ir.FromString("nope"), Additive)
	if err == nil {
		t.Fatal("expected error for non-mapping update root")
	}
}

func TestSchemaVersionMismatchRejected(t *testing.T) {
	base := mustParse(t, `{"SchemaVersion": "v1", "Status": "ongoing"}`)
	update := mustParse(t, `{"SchemaVersion": "v2", "Status": "complete"}`)
	_, _, err := Merge(base, update, Additive)
	if err == nil {
		t.Fatal("expected schema version error")
	}
	if _, ok := err.(*SchemaVersionError); !ok {
		t.Fatalf("want SchemaVersionError, got %T: %v", err, err)
	}
	// matching versions pass
	update = mustParse(t, `{"SchemaVersion": "v1", "Status": "complete"}`)
	if _, _, err := Merge(base, update, Additive); err != nil {
		t.Fatal(err)
	}
}

func TestBaseNotMutated(t *testing.T) {
	base := mustParse(t, `{"Info": {"A": 1}, "Pipelines": ["gstlal"]}`)
	before := encode.MustString(base)
	update := mustParse(t, `{"Info": {"A": 2}, "Pipelines": ["mbta"]}`)
	if _, _, err := Merge(base, update, Additive); err != nil {
		t.Fatal(err)
	}
	if got := encode.MustString(base); got != before {
		t.Fatalf("base mutated:\n%s", got)
	}
}

func TestElementDefaults(t *testing.T) {
	defaults := func(keys []string) *ir.Node {
		if len(keys) == 0 || keys[len(keys)-1] != "Analyses" {
			return nil
		}
		return mustParse(t, `{"Status": "unstarted", "Notes": []}`)
	}
	base := mustParse(t, `{}`)
	update := mustParse(t, `{"Analyses": [{"UID": "A1", "Status": "ongoing"}]}`)
	got, _, err := Merge(base, update, Additive, WithElementDefaults(defaults))
	if err != nil {
		t.Fatal(err)
	}
	checkEqual(t, got, mustParse(t,
		`{"Analyses": [{"Status": "ongoing", "Notes": [], "UID": "A1"}]}`))
}

func TestLinkedFillHook(t *testing.T) {
	var filled []string
	fill := func(obj *ir.Node) error {
		p := ir.Get(obj, "Path")
		filled = append(filled, p.String)
		obj.Set("MD5Sum", ir.FromString("d41d8cd98f00b204e9800998ecf8427e"))
		return nil
	}
	base := mustParse(t, `{"Analyses": [{"UID": "A1"}]}`)
	update := mustParse(t, `{"Analyses": [{"UID": "A1", "ResultFile": {"Path": "/data/a.dat"}}]}`)
	got, _, err := Merge(base, update, Additive, WithLinkedFill(fill))
	if err != nil {
		t.Fatal(err)
	}
	if len(filled) != 1 || filled[0] != "/data/a.dat" {
		t.Fatalf("fill hook calls %v", filled)
	}
	md5, err := got.GetPath(`$.Analyses['A1'].ResultFile.MD5Sum`)
	if err != nil || md5 == nil {
		t.Fatalf("missing MD5Sum: %v", err)
	}
}
