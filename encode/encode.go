package encode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/ptree/format"
	"github.com/signadot/ptree/tree"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	maxDepth int
	indent   int
	offsets  bool
	format   format.Format

	t    *tree.Tree
	path map[uint32]bool
	// expanded nodes, later references render as ^@offset
	done map[uint32]bool

	Color func(ColorAttr, string) string
}

// Encode renders the subtree of t rooted at offset to w.
func Encode(t *tree.Tree, offset uint32, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
		t:      t,
		path:   map[uint32]bool{},
		done:   map[uint32]bool{},
	}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case format.TextFormat:
		buf := &bytes.Buffer{}
		if err := es.text(buf, offset, "", 0); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err
	case format.YAMLFormat, format.JSONFormat:
		v, err := es.value(offset, 0)
		if err != nil {
			return err
		}
		yopts := []yaml.EncodeOption{yaml.Indent(es.indent), yaml.IndentSequence(true)}
		if es.format.IsJSON() {
			yopts = append(yopts, yaml.JSON())
		}
		d, err := yaml.MarshalWithOptions(v, yopts...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		if !bytes.HasSuffix(d, []byte{'\n'}) {
			d = append(d, '\n')
		}
		_, err = w.Write(d)
		return err
	default:
		return fmt.Errorf("%w: unsupported format %s", ErrEncoding, es.format)
	}
}

// String renders like Encode and returns the result.
func String(t *tree.Tree, offset uint32, opts ...EncodeOption) (string, error) {
	buf := &bytes.Buffer{}
	if err := Encode(t, offset, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (es *EncState) paint(a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(a, s)
}

func (es *EncState) collapsed(depth int) bool {
	return es.maxDepth > 0 && depth >= es.maxDepth
}

func (es *EncState) enter(off uint32) error {
	if es.path[off] {
		return &tree.DecodeErr{Offset: off, Cursor: int(off), Err: tree.ErrCycle}
	}
	es.path[off] = true
	return nil
}

func (es *EncState) leave(off uint32) {
	delete(es.path, off)
	es.done[off] = true
}

func (es *EncState) ref(off uint32) string {
	return es.paint(OffsetColor, "^@"+strconv.FormatUint(uint64(off), 10))
}

func (es *EncState) header(n *tree.Node) string {
	h := es.paint(KindColor, n.Kind)
	if es.offsets {
		h += " " + es.paint(OffsetColor, "@"+strconv.FormatUint(uint64(n.Offset), 10))
	}
	return h
}

func (es *EncState) text(w *bytes.Buffer, off uint32, indent string, depth int) error {
	n, err := es.t.Node(off)
	if err != nil {
		return err
	}
	if es.done[off] {
		w.WriteString(es.paint(KindColor, n.Kind) + " " + es.ref(off))
		return nil
	}
	w.WriteString(es.header(n))
	if len(n.Properties) == 0 {
		return nil
	}
	if es.collapsed(depth) {
		w.WriteString(es.paint(SepColor, " ..."))
		return nil
	}
	if err := es.enter(off); err != nil {
		return err
	}
	defer es.leave(off)
	step := strings.Repeat(" ", es.indent)
	inner := indent + step
	for i := range n.Properties {
		p := &n.Properties[i]
		w.WriteString("\n" + inner + es.paint(FieldColor, p.Name) + es.paint(SepColor, ":"))
		v := &p.Value
		switch v.Kind {
		case tree.NoneValue:
			w.WriteString(" " + es.paint(NoneColor, "none"))
		case tree.StringValue:
			w.WriteString(" " + es.paint(StringColor, strconv.Quote(v.String)))
		case tree.MultiStringValue:
			parts := make([]string, len(v.Strings))
			for j, s := range v.Strings {
				parts[j] = es.paint(StringColor, strconv.Quote(s))
			}
			w.WriteString(" " + es.paint(SepColor, "[") + strings.Join(parts, es.paint(SepColor, ", ")) + es.paint(SepColor, "]"))
		case tree.NodeValue:
			w.WriteString(" ")
			if err := es.text(w, v.Node, inner, depth+1); err != nil {
				return err
			}
		case tree.MultiNodeValue:
			if len(v.Nodes) == 0 {
				w.WriteString(" " + es.paint(SepColor, "[]"))
				continue
			}
			for _, o := range v.Nodes {
				w.WriteString("\n" + inner + es.paint(SepColor, "-") + " ")
				if err := es.text(w, o, inner+step, depth+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (es *EncState) value(off uint32, depth int) (yaml.MapSlice, error) {
	n, err := es.t.Node(off)
	if err != nil {
		return nil, err
	}
	res := yaml.MapSlice{{Key: "kind", Value: n.Kind}}
	if es.done[off] {
		return append(res, yaml.MapItem{Key: "ref", Value: n.Offset}), nil
	}
	if es.offsets {
		res = append(res, yaml.MapItem{Key: "offset", Value: n.Offset})
	}
	if len(n.Properties) == 0 {
		return res, nil
	}
	if es.collapsed(depth) {
		return append(res, yaml.MapItem{Key: "collapsed", Value: true}), nil
	}
	if err := es.enter(off); err != nil {
		return nil, err
	}
	defer es.leave(off)
	props := yaml.MapSlice{}
	for i := range n.Properties {
		p := &n.Properties[i]
		var pv any
		switch p.Value.Kind {
		case tree.StringValue:
			pv = p.Value.String
		case tree.MultiStringValue:
			pv = p.Value.Strings
		case tree.NodeValue:
			child, err := es.value(p.Value.Node, depth+1)
			if err != nil {
				return nil, err
			}
			pv = child
		case tree.MultiNodeValue:
			list := make([]any, len(p.Value.Nodes))
			for j, o := range p.Value.Nodes {
				child, err := es.value(o, depth+1)
				if err != nil {
					return nil, err
				}
				list[j] = child
			}
			pv = list
		}
		props = append(props, yaml.MapItem{Key: p.Name, Value: pv})
	}
	if len(props) != 0 {
		res = append(res, yaml.MapItem{Key: "properties", Value: props})
	}
	return res, nil
}
