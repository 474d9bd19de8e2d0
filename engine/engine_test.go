package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ptree/shape"
	"github.com/signadot/ptree/span"
	"github.com/signadot/ptree/stream"
	"github.com/signadot/ptree/tree"
)

const litShapes = `[["Lit", 0, [[false, false, "value"]]]]`

func litOutput() *Output {
	return &Output{
		Tree:       []uint32{0, 1, 5, 0},
		Strings:    `["", "a", "b", "c", "d", "five"]`,
		Shapes:     litShapes,
		TokenKinds: "Number,Ident",
		Tokens:     []uint32{1, 0, 4},
		Errors:     []uint32{0, 5, 5},
	}
}

func TestDecode(t *testing.T) {
	res, err := Decode(litOutput())
	if err != nil {
		t.Fatal(err)
	}
	n, err := res.Root()
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind != "Lit" {
		t.Errorf("root kind %q", n.Kind)
	}
	if v, _ := n.Get("value"); v.String != "five" {
		t.Errorf("value %#v", v)
	}
	want := []span.Span{
		{Start: 0, End: 4, Category: span.Token, Label: "Ident"},
		{Start: 5, End: 5, Category: span.Error, Label: span.ErrorLabel},
	}
	if diff := cmp.Diff(want, res.Spans); diff != "" {
		t.Errorf("spans (-want +got):\n%s", diff)
	}
	st, err := res.Check()
	if err != nil {
		t.Fatal(err)
	}
	if st.Nodes != 1 {
		t.Errorf("nodes %d", st.Nodes)
	}
}

func TestDecodeFailure(t *testing.T) {
	out := litOutput()
	out.Tree = nil
	out.Shapes = ""
	out.Failure = &Failure{Cursor: 3, Message: "unexpected end"}
	res, err := Decode(out)
	if err != nil {
		t.Fatal(err)
	}
	if res.Tree != nil {
		t.Error("failed parse should have no tree")
	}
	if n, err := res.Root(); n != nil || err != nil {
		t.Errorf("root: %v %v", n, err)
	}
	if res.Failure.Cursor != 3 {
		t.Errorf("failure %+v", res.Failure)
	}
}

func TestDecodeInternal(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mod    func(*Output)
		detail error
	}{
		{"schema", func(o *Output) { o.Shapes = `[["Lit", 1, []]]` }, shape.ErrSchema},
		{"stride", func(o *Output) { o.Tokens = []uint32{1, 0} }, stream.ErrMalformedStream},
		{"kind", func(o *Output) { o.Tokens = []uint32{9, 0, 1} }, stream.ErrMalformedStream},
		{"order", func(o *Output) { o.Errors = []uint32{0, 0, 1} }, span.ErrInconsistentIntervals},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := litOutput()
			released := 0
			out.Release = func() { released++ }
			tc.mod(out)
			_, err := Decode(out)
			if !errors.Is(err, ErrInternal) {
				t.Fatalf("expected internal error, got %v", err)
			}
			if !errors.Is(err, tc.detail) {
				t.Errorf("expected %v, got %v", tc.detail, err)
			}
			if released != 1 {
				t.Errorf("released %d times", released)
			}
		})
	}
}

func TestNodeInternal(t *testing.T) {
	out := litOutput()
	out.Tree = []uint32{3, 1, 5, 0}
	res, err := Decode(out)
	if err != nil {
		t.Fatal(err)
	}
	_, err = res.Root()
	if !errors.Is(err, ErrInternal) || !errors.Is(err, tree.ErrBadKind) {
		t.Errorf("got %v", err)
	}
}

func TestRelease(t *testing.T) {
	out := litOutput()
	n := 0
	out.Release = func() { n++ }
	res, err := Decode(out)
	if err != nil {
		t.Fatal(err)
	}
	if err := res.Release(); err != nil {
		t.Fatal(err)
	}
	if err := res.Release(); !errors.Is(err, ErrReleased) {
		t.Errorf("second release: %v", err)
	}
	if n != 1 || !res.Released() {
		t.Errorf("released %d times", n)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	for _, json := range []bool{false, true} {
		out := litOutput()
		out.Failure = &Failure{Cursor: 1, Message: "m"}
		buf := &bytes.Buffer{}
		if err := WriteDump(buf, out, json); err != nil {
			t.Fatal(err)
		}
		got, err := ReadDump(buf)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(out, got, cmp.FilterPath(func(p cmp.Path) bool {
			return p.Last().String() == ".Release"
		}, cmp.Ignore())); diff != "" {
			t.Errorf("json=%v (-want +got):\n%s", json, diff)
		}
	}
}

func TestReadDumpEmpty(t *testing.T) {
	if _, err := ReadDump(strings.NewReader("")); err == nil {
		t.Error("expected error")
	}
}

type fakeEngine struct {
	outs     []*Output
	released []int
}

func (f *fakeEngine) Parse(_ context.Context, source []byte) (*Output, error) {
	if string(source) == "bad" {
		return nil, errors.New("boom")
	}
	i := len(f.outs)
	f.released = append(f.released, 0)
	out := litOutput()
	out.Release = func() { f.released[i]++ }
	f.outs = append(f.outs, out)
	return out, nil
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	eng := &fakeEngine{}
	s := NewSession(eng)
	if s.Current() != nil {
		t.Fatal("new session has a result")
	}
	first, err := s.Update(ctx, []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Update(ctx, []byte("two"))
	if err != nil {
		t.Fatal(err)
	}
	if !first.Released() || second.Released() {
		t.Error("only the superseded result should be released")
	}
	if _, err := s.Update(ctx, []byte("bad")); err == nil {
		t.Error("expected engine error")
	}
	if s.Current() != second {
		t.Error("failed update replaced current result")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 1}, eng.released); diff != "" {
		t.Errorf("release counts (-want +got):\n%s", diff)
	}
	if _, err := s.Update(ctx, []byte("three")); !errors.Is(err, ErrClosed) {
		t.Errorf("update after close: %v", err)
	}
	if eng.released[2] != 1 {
		t.Error("result produced after close should be released")
	}
}
