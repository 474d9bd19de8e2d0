package libdiff

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines(t *testing.T) {
	a := "Call\n  callee: Lit\n  label: none\n"
	b := "Call\n  callee: Ident\n  label: none\n"
	got := Lines(a, b)
	want := []Hunk{
		{Op: Equal, Lines: []string{"Call"}},
		{Op: Delete, Lines: []string{"  callee: Lit"}},
		{Op: Insert, Lines: []string{"  callee: Ident"}},
		{Op: Equal, Lines: []string{"  label: none"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	p, err := Patch(a, got)
	if err != nil {
		t.Fatal(err)
	}
	if p != b {
		t.Errorf("patch gave %q", p)
	}
}

func TestLinesEqual(t *testing.T) {
	if h := Lines("x\n", "x\n"); h != nil {
		t.Errorf("got %v", h)
	}
}

func TestPatchMismatch(t *testing.T) {
	h := Lines("a\nb\n", "a\nc\n")
	if _, err := Patch("a\nz\n", h); err == nil {
		t.Error("expected error")
	}
}

func TestWrite(t *testing.T) {
	buf := &bytes.Buffer{}
	differ, err := Write(buf, "a\nb\n", "a\nc\n", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !differ {
		t.Error("expected difference")
	}
	if diff := cmp.Diff(" a\n-b\n+c\n", buf.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
