// Package query filters spans and nodes with expr-lang expressions.
//
// Span filters see start, end, width, category, label and text:
//
//	category == "error" || label in ["Ident", "Number"] && width > 3
//
// Node filters see kind, offset and props, where props maps property names
// to strings, string lists, child offsets, offset lists or nil:
//
//	kind == "Call" && props.label != nil
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/ptree/span"
	"github.com/signadot/ptree/tree"
)

type SpanEnv struct {
	Start    int    `expr:"start"`
	End      int    `expr:"end"`
	Width    int    `expr:"width"`
	Category string `expr:"category"`
	Label    string `expr:"label"`
	Text     string `expr:"text"`
}

type NodeEnv struct {
	Kind   string         `expr:"kind"`
	Offset int            `expr:"offset"`
	Props  map[string]any `expr:"props"`
}

type Filter struct {
	src string
	prg *vm.Program
}

func (f *Filter) String() string { return f.src }

func compile(src string, env any) (*Filter, error) {
	prg, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return &Filter{src: src, prg: prg}, nil
}

func CompileSpans(src string) (*Filter, error) { return compile(src, SpanEnv{}) }

func CompileNodes(src string) (*Filter, error) { return compile(src, NodeEnv{}) }

func (f *Filter) match(env any) (bool, error) {
	res, err := expr.Run(f.prg, env)
	if err != nil {
		return false, fmt.Errorf("run %q: %w", f.src, err)
	}
	b, _ := res.(bool)
	return b, nil
}

// Spans returns the spans matching f.  Span text is sliced from source,
// clamped to its bounds.
func (f *Filter) Spans(spans []span.Span, source []byte) ([]span.Span, error) {
	var res []span.Span
	for _, s := range spans {
		ok, err := f.match(SpanEnvOf(s, source))
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, s)
		}
	}
	return res, nil
}

func SpanEnvOf(s span.Span, source []byte) SpanEnv {
	start, end := min(int(s.Start), len(source)), min(int(s.End), len(source))
	return SpanEnv{
		Start:    int(s.Start),
		End:      int(s.End),
		Width:    int(s.Width()),
		Category: s.Category.String(),
		Label:    s.Label,
		Text:     string(source[start:max(start, end)]),
	}
}

// Node reports whether n matches f.
func (f *Filter) Node(n *tree.Node) (bool, error) {
	return f.match(NodeEnvOf(n))
}

func NodeEnvOf(n *tree.Node) NodeEnv {
	props := make(map[string]any, len(n.Properties))
	for i := range n.Properties {
		p := &n.Properties[i]
		switch p.Value.Kind {
		case tree.NoneValue:
			props[p.Name] = nil
		case tree.StringValue:
			props[p.Name] = p.Value.String
		case tree.NodeValue:
			props[p.Name] = int(p.Value.Node)
		case tree.MultiStringValue:
			props[p.Name] = p.Value.Strings
		case tree.MultiNodeValue:
			offs := make([]int, len(p.Value.Nodes))
			for j, o := range p.Value.Nodes {
				offs[j] = int(o)
			}
			props[p.Name] = offs
		}
	}
	return NodeEnv{Kind: n.Kind, Offset: int(n.Offset), Props: props}
}

// Nodes walks t from the root and returns the offsets of matching nodes in
// visit order.
func (f *Filter) Nodes(t *tree.Tree) ([]uint32, error) {
	var res []uint32
	err := t.Walk(func(n *tree.Node, _ int) error {
		ok, err := f.Node(n)
		if err != nil {
			return err
		}
		if ok {
			res = append(res, n.Offset)
		}
		return nil
	})
	return res, err
}
