package encode

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ptree/format"
	"github.com/signadot/ptree/shape"
	"github.com/signadot/ptree/tree"
)

func testRegistry(t *testing.T) *shape.Registry {
	t.Helper()
	reg, err := shape.New([]shape.Kind{
		{Name: "Lit", Ordinal: 0, Properties: []shape.Property{
			{Name: "value"},
		}},
		{Name: "Call", Ordinal: 1, Properties: []shape.Property{
			{Name: "callee", IsNode: true},
			{Name: "args", IsNode: true, Multiplicity: shape.Variadic},
			{Name: "label", Multiplicity: shape.Optional},
			{Name: "tags", Multiplicity: shape.Variadic},
		}},
		{Name: "Wrap", Ordinal: 2, Properties: []shape.Property{
			{Name: "inner", IsNode: true, Multiplicity: shape.Optional},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func callTree(t *testing.T) (*tree.Tree, uint32) {
	t.Helper()
	b := tree.NewBuilder(testRegistry(t))
	f, err := b.Add("Lit", "f")
	if err != nil {
		t.Fatal(err)
	}
	y, _ := b.Add("Lit", "y")
	call, err := b.Add("Call", f, []uint32{y}, nil, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	return b.Tree(call), call
}

func TestEncodeText(t *testing.T) {
	tr, root := callTree(t)
	got, err := String(tr, root)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Call",
		"  callee: Lit",
		`    value: "f"`,
		"  args:",
		"    - Lit",
		`      value: "y"`,
		"  label: none",
		`  tags: ["a", "b"]`,
	}, "\n") + "\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestEncodeDepth(t *testing.T) {
	tr, root := callTree(t)
	got, err := String(tr, root, Depth(1), EncodeOffsets(true))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "callee: Lit @1 ...") {
		t.Errorf("expected collapsed callee, got\n%s", got)
	}
	if strings.Contains(got, "value:") {
		t.Errorf("collapsed nodes should hide properties, got\n%s", got)
	}
}

func TestEncodeEmptyVariadic(t *testing.T) {
	b := tree.NewBuilder(testRegistry(t))
	f, _ := b.Add("Lit", "f")
	call, err := b.Add("Call", f, nil, "l", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := String(b.Tree(call), call)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"args: []", `label: "l"`, "tags: []"} {
		if !strings.Contains(got, s) {
			t.Errorf("missing %q in\n%s", s, got)
		}
	}
}

func TestEncodeJSON(t *testing.T) {
	tr, root := callTree(t)
	got, err := String(tr, root, EncodeFormat(format.JSONFormat))
	if err != nil {
		t.Fatal(err)
	}
	var v any
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		t.Fatalf("invalid json %q: %v", got, err)
	}
	want := map[string]any{
		"kind": "Call",
		"properties": map[string]any{
			"callee": map[string]any{
				"kind":       "Lit",
				"properties": map[string]any{"value": "f"},
			},
			"args": []any{
				map[string]any{
					"kind":       "Lit",
					"properties": map[string]any{"value": "y"},
				},
			},
			"label": nil,
			"tags":  []any{"a", "b"},
		},
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestEncodeCycle(t *testing.T) {
	// Wrap at offset 1 whose inner points at itself.
	data := []uint32{0, 2, 1, 1, 1}
	tr := tree.New(data, testRegistry(t), tree.NewStrings([]string{""}))
	for _, f := range format.AllFormats() {
		_, err := String(tr, 1, EncodeFormat(f))
		if !errors.Is(err, tree.ErrCycle) {
			t.Errorf("%s: expected cycle error, got %v", f, err)
		}
	}
}

func TestEncodeSharedChild(t *testing.T) {
	b := tree.NewBuilder(testRegistry(t))
	x, _ := b.Add("Lit", "x")
	call, _ := b.Add("Call", x, []uint32{x, x}, nil, nil)
	got, err := String(b.Tree(call), call)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(got, `value: "x"`); n != 1 {
		t.Errorf("shared child expanded %d times, want 1:\n%s", n, got)
	}
	if n := strings.Count(got, "Lit ^@1"); n != 2 {
		t.Errorf("want 2 references to the shared child:\n%s", got)
	}
}

func TestEncodeDiamondChain(t *testing.T) {
	b := tree.NewBuilder(testRegistry(t))
	last, _ := b.Add("Lit", "x")
	for range 30 {
		last, _ = b.Add("Call", last, []uint32{last}, nil, nil)
	}
	tr := b.Tree(last)
	for _, f := range format.AllFormats() {
		got, err := String(tr, last, EncodeFormat(f))
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if len(got) > 1<<16 {
			t.Errorf("%s: output of %d bytes for 31 nodes", f, len(got))
		}
	}
	got, err := String(tr, last, EncodeFormat(format.JSONFormat))
	if err != nil {
		t.Fatal(err)
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		t.Fatal(err)
	}
	args := v["properties"].(map[string]any)["args"].([]any)
	if ref, ok := args[0].(map[string]any)["ref"]; !ok || ref == nil {
		t.Errorf("second reference should be a ref: %v", args[0])
	}
}

func TestColorsEscape(t *testing.T) {
	c := NewColors()
	got := c.Color(StringColor, "100%")
	if !strings.Contains(got, "100%") || strings.Contains(got, "%%") {
		t.Errorf("percent not preserved: %q", got)
	}
	if c.Get(ColorAttr(99))("x") != "x" {
		t.Error("unknown attr should use default")
	}
}
