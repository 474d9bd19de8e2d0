package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ptree/shape"
)

func mustRegistry(t *testing.T, kinds ...shape.Kind) *shape.Registry {
	t.Helper()
	for i := range kinds {
		kinds[i].Ordinal = i
	}
	reg, err := shape.New(kinds)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func testRegistry(t *testing.T) *shape.Registry {
	return mustRegistry(t,
		shape.Kind{Name: "Lit", Properties: []shape.Property{
			{Name: "value"},
		}},
		shape.Kind{Name: "Call", Properties: []shape.Property{
			{Name: "callee", IsNode: true},
			{Name: "args", IsNode: true, Multiplicity: shape.Variadic},
			{Name: "label", Multiplicity: shape.Optional},
			{Name: "tags", Multiplicity: shape.Variadic},
			{Name: "else", IsNode: true, Multiplicity: shape.Optional},
		}},
	)
}

func TestLitScenario(t *testing.T) {
	reg := mustRegistry(t, shape.Kind{Name: "Lit", Properties: []shape.Property{{Name: "value"}}})
	strs := NewStrings([]string{"", "a", "b", "c", "d", "five"})
	tr := New([]uint32{0, 1, 5, 0}, reg, strs)
	root, ok := tr.Root()
	if !ok || root != 0 {
		t.Fatalf("root: got %d %v", root, ok)
	}
	n, err := tr.Node(root)
	if err != nil {
		t.Fatal(err)
	}
	want := &Node{
		Offset: 0,
		Kind:   "Lit",
		Length: 1,
		Properties: []Property{
			{Name: "value", Value: FromString("five")},
		},
	}
	if diff := cmp.Diff(want, n); diff != "" {
		t.Errorf("node mismatch (-want +got):\n%s", diff)
	}
	if n.End() != 3 {
		t.Errorf("end: got %d", n.End())
	}
}

func TestDecodeNodeNilTables(t *testing.T) {
	data := []uint32{0, 1, 1, 0}
	_, err := DecodeNode(data, testRegistry(t), nil, 0)
	if !errors.Is(err, ErrBadString) {
		t.Errorf("nil strings: expected bad string, got %v", err)
	}
	_, err = DecodeNode(data, nil, NewStrings([]string{"", "x"}), 0)
	if !errors.Is(err, ErrBadKind) || !errors.Is(err, ErrMalformedTree) {
		t.Errorf("nil registry: expected bad kind, got %v", err)
	}
}

func TestEmptyBuffer(t *testing.T) {
	tr := New(nil, testRegistry(t), nil)
	if _, ok := tr.Root(); ok {
		t.Error("empty buffer should have no root")
	}
	if err := tr.Walk(func(*Node, int) error { t.Error("visited"); return nil }); err != nil {
		t.Error(err)
	}
}

func TestRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	b := NewBuilder(reg)
	lit1, err := b.Add("Lit", "x")
	if err != nil {
		t.Fatal(err)
	}
	lit2, _ := b.Add("Lit", "y")
	callee, _ := b.Add("Lit", "f")
	full, err := b.Add("Call", callee, []uint32{lit1, lit2}, "lbl", []string{"t1", "t2", "t1"}, lit1)
	if err != nil {
		t.Fatal(err)
	}
	sparse, err := b.Add("Call", full, []uint32{}, nil, []string{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	tr := b.Tree(sparse)

	n, err := tr.Node(full)
	if err != nil {
		t.Fatal(err)
	}
	want := []Property{
		{Name: "callee", Value: FromNode(callee)},
		{Name: "args", Value: FromNodes([]uint32{lit1, lit2})},
		{Name: "label", Value: FromString("lbl")},
		{Name: "tags", Value: FromStrings([]string{"t1", "t2", "t1"})},
		{Name: "else", Value: FromNode(lit1)},
	}
	if diff := cmp.Diff(want, n.Properties); diff != "" {
		t.Errorf("full call (-want +got):\n%s", diff)
	}

	n, err = tr.Node(sparse)
	if err != nil {
		t.Fatal(err)
	}
	want = []Property{
		{Name: "callee", Value: FromNode(full)},
		{Name: "args", Value: FromNodes([]uint32{})},
		{Name: "label", Value: None()},
		{Name: "tags", Value: FromStrings([]string{})},
		{Name: "else", Value: None()},
	}
	if diff := cmp.Diff(want, n.Properties); diff != "" {
		t.Errorf("sparse call (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{full}, n.Children()); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	if v, ok := n.Get("label"); !ok || !v.IsNone() {
		t.Errorf("label: got %#v %v", v, ok)
	}
}

func TestDecodeErrors(t *testing.T) {
	reg := testRegistry(t)
	strs := NewStrings([]string{"", "x"})
	tests := []struct {
		name   string
		data   []uint32
		offset uint32
		want   error
	}{
		{"bad kind", []uint32{7, 1, 1}, 0, ErrBadKind},
		{"truncated header", []uint32{0}, 0, ErrTruncated},
		{"truncated value", []uint32{0, 1}, 0, ErrTruncated},
		{"offset past end", []uint32{0, 1, 1}, 9, ErrTruncated},
		{"length mismatch", []uint32{0, 2, 1, 0}, 0, ErrLengthMismatch},
		{"single sentinel", []uint32{0, 1, 0}, 0, ErrUnexpectedSentinel},
		{"single node sentinel", []uint32{1, 5, 0, 0, 0, 0, 0}, 0, ErrUnexpectedSentinel},
		{"bad string id", []uint32{0, 1, 9}, 0, ErrBadString},
		{"variadic overrun", []uint32{1, 4, 3, 5, 1, 2}, 0, ErrTruncated},
		{"variadic string sentinel", []uint32{1, 6, 3, 0, 0, 2, 1, 0, 0}, 0, ErrUnexpectedSentinel},
		{"variadic node sentinel", []uint32{1, 6, 3, 1, 0, 0, 0, 0, 0}, 0, ErrUnexpectedSentinel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeNode(tt.data, reg, strs, tt.offset)
			if !errors.Is(err, ErrMalformedTree) {
				t.Fatalf("expected malformed tree, got %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			var de *DecodeErr
			if !errors.As(err, &de) || de.Offset != tt.offset {
				t.Errorf("expected offset %d in %v", tt.offset, err)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	reg := testRegistry(t)
	b := NewBuilder(reg)
	shared, _ := b.Add("Lit", "s")
	callee, _ := b.Add("Lit", "f")
	inner, _ := b.Add("Call", callee, []uint32{shared}, nil, nil, nil)
	outer, _ := b.Add("Call", inner, []uint32{shared, callee}, "top", nil, shared)
	tr := b.Tree(outer)

	type visit struct {
		Off   uint32
		Depth int
	}
	var got []visit
	err := tr.Walk(func(n *Node, depth int) error {
		got = append(got, visit{n.Offset, depth})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []visit{{outer, 0}, {inner, 1}, {callee, 2}, {shared, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk order (-want +got):\n%s", diff)
	}

	st, err := tr.Check()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Stats{Nodes: 4, MaxDepth: 2, Kinds: map[string]int{"Call": 2, "Lit": 2}}, st); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}

	got = nil
	err = tr.Walk(func(n *Node, depth int) error {
		got = append(got, visit{n.Offset, depth})
		if n.Offset == inner {
			return SkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want = []visit{{outer, 0}, {inner, 1}, {shared, 1}, {callee, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("skip walk (-want +got):\n%s", diff)
	}
}

func TestWalkCycle(t *testing.T) {
	reg := testRegistry(t)
	strs := NewStrings([]string{"", "x"})
	// Call@1 args -> [Call@1]
	data := []uint32{0, 1, 6, 1, 1, 1, 0, 0, 0, 1}
	tr := New(data, reg, strs)
	err := tr.Walk(func(*Node, int) error { return nil })
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected cycle, got %v", err)
	}
}

func TestWalkStopsOnError(t *testing.T) {
	reg := testRegistry(t)
	b := NewBuilder(reg)
	lit, _ := b.Add("Lit", "x")
	call, _ := b.Add("Call", lit, []uint32{999}, nil, nil, nil)
	tr := b.Tree(call)
	err := tr.Walk(func(*Node, int) error { return nil })
	var de *DecodeErr
	if !errors.As(err, &de) || de.Offset != 999 {
		t.Fatalf("expected decode error at 999, got %v", err)
	}
}

func TestStringsLookup(t *testing.T) {
	s, err := ParseStrings([]byte(`["", "a", "b\"c"]`))
	if err != nil {
		t.Fatal(err)
	}
	if v, err := s.Lookup(2); err != nil || v != `b"c` {
		t.Errorf("lookup 2: %q %v", v, err)
	}
	if _, err := s.Lookup(0); !errors.Is(err, ErrUnexpectedSentinel) {
		t.Errorf("lookup 0: %v", err)
	}
	if _, err := s.Lookup(3); !errors.Is(err, ErrBadString) {
		t.Errorf("lookup 3: %v", err)
	}
	if _, err := ParseStrings([]byte(`{`)); !errors.Is(err, ErrBadStrings) {
		t.Errorf("bad table: %v", err)
	}
}
