package libdiff

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergePatch(t *testing.T) {
	a := []byte(`{"kind": "Call", "properties": {"callee": {"kind": "Lit"}, "label": null}}`)
	b := []byte(`{"kind": "Call", "properties": {"callee": {"kind": "Ident"}, "label": "x"}}`)
	p, err := MergePatch(a, b)
	if err != nil {
		t.Fatal(err)
	}
	var got, want any
	if err := json.Unmarshal(p, &got); err != nil {
		t.Fatal(err)
	}
	want = map[string]any{
		"properties": map[string]any{
			"callee": map[string]any{"kind": "Ident"},
			"label":  "x",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patch (-want +got):\n%s", diff)
	}
	res, err := ApplyMergePatch(a, p)
	if err != nil {
		t.Fatal(err)
	}
	var r, wb any
	json.Unmarshal(res, &r)
	json.Unmarshal(b, &wb)
	if diff := cmp.Diff(wb, r); diff != "" {
		t.Errorf("applied (-want +got):\n%s", diff)
	}
}

func TestMergePatchBadJSON(t *testing.T) {
	if _, err := MergePatch([]byte("{"), []byte("{}")); err == nil {
		t.Error("expected error")
	}
}
