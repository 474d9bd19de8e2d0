package query

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ptree/shape"
	"github.com/signadot/ptree/span"
	"github.com/signadot/ptree/tree"
)

func TestSpans(t *testing.T) {
	source := []byte("let x = 42")
	spans := []span.Span{
		{Start: 0, End: 3, Category: span.Token, Label: "Keyword"},
		{Start: 4, End: 5, Category: span.Token, Label: "Ident"},
		{Start: 8, End: 10, Category: span.Token, Label: "Number"},
		{Start: 10, End: 12, Category: span.Error, Label: span.ErrorLabel},
	}
	for _, tc := range []struct {
		src  string
		want []span.Span
	}{
		{`label == "Ident"`, spans[1:2]},
		{`category == "error"`, spans[3:]},
		{`text == "42"`, spans[2:3]},
		{`width >= 2 && start < 10`, []span.Span{spans[0], spans[2]}},
		{`label in ["Keyword", "Number"]`, []span.Span{spans[0], spans[2]}},
		{`false`, nil},
	} {
		f, err := CompileSpans(tc.src)
		if err != nil {
			t.Fatal(err)
		}
		got, err := f.Spans(spans, source)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.src, diff)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{`label ==`, `nosuch > 1`, `start + 1`} {
		if _, err := CompileSpans(src); err == nil {
			t.Errorf("%q: expected error", src)
		}
	}
	if _, err := CompileNodes(`label == "x"`); err == nil {
		t.Error("node filter should not see span fields")
	}
}

func TestNodes(t *testing.T) {
	reg, err := shape.New([]shape.Kind{
		{Name: "Lit", Ordinal: 0, Properties: []shape.Property{{Name: "value"}}},
		{Name: "Call", Ordinal: 1, Properties: []shape.Property{
			{Name: "callee", IsNode: true},
			{Name: "args", IsNode: true, Multiplicity: shape.Variadic},
			{Name: "label", Multiplicity: shape.Optional},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	b := tree.NewBuilder(reg)
	f, _ := b.Add("Lit", "f")
	x, _ := b.Add("Lit", "x")
	inner, _ := b.Add("Call", f, []uint32{x}, nil)
	outer, _ := b.Add("Call", f, []uint32{inner}, "top")
	tr := b.Tree(outer)

	for _, tc := range []struct {
		src  string
		want []uint32
	}{
		{`kind == "Call"`, []uint32{outer, inner}},
		{`kind == "Call" && props.label != nil`, []uint32{outer}},
		{`props.value == "x"`, []uint32{x}},
		{`kind == "Call" && len(props.args) == 1 && props.args[0] == ` + strconv.Itoa(int(inner)), []uint32{outer}},
	} {
		flt, err := CompileNodes(tc.src)
		if err != nil {
			t.Fatal(err)
		}
		got, err := flt.Nodes(tr)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.src, diff)
		}
	}
}
