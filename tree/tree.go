package tree

import (
	"github.com/signadot/ptree/debug"
	"github.com/signadot/ptree/shape"
)

// Tree ties a flat buffer to the registry and string table it was produced
// with.  A Tree is immutable and safe for concurrent use.
type Tree struct {
	data []uint32
	reg  *shape.Registry
	strs *Strings
}

func New(data []uint32, reg *shape.Registry, strs *Strings) *Tree {
	if strs == nil {
		strs = &Strings{}
	}
	return &Tree{data: data, reg: reg, strs: strs}
}

func (t *Tree) Data() []uint32            { return t.data }
func (t *Tree) Registry() *shape.Registry { return t.reg }
func (t *Tree) Strings() *Strings         { return t.strs }

// Root returns the root offset.  It reports false only when the buffer is
// empty.
func Root(data []uint32) (uint32, bool) {
	if len(data) == 0 {
		return 0, false
	}
	return data[len(data)-1], true
}

func (t *Tree) Root() (uint32, bool) {
	return Root(t.data)
}

// Node decodes the node at offset.
func (t *Tree) Node(offset uint32) (*Node, error) {
	return DecodeNode(t.data, t.reg, t.strs, offset)
}

// DecodeNode decodes the node at offset in data.  Child nodes are not
// decoded; they appear as offsets in the result.
func DecodeNode(data []uint32, reg *shape.Registry, strs *Strings, offset uint32) (*Node, error) {
	if strs == nil {
		strs = &Strings{}
	}
	d := &decoder{data: data, off: offset, cur: int(offset)}
	kindIdx, err := d.next()
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, decodeErr(offset, int(offset), ErrBadKind, "%d with no registry", kindIdx)
	}
	kind, ok := reg.Kind(kindIdx)
	if !ok {
		return nil, decodeErr(offset, int(offset), ErrBadKind, "%d not in registry of %d", kindIdx, reg.Len())
	}
	length, err := d.next()
	if err != nil {
		return nil, err
	}
	node := &Node{
		Offset:     offset,
		KindIndex:  kindIdx,
		Kind:       kind.Name,
		Length:     length,
		Properties: make([]Property, len(kind.Properties)),
	}
	for i := range kind.Properties {
		p := &kind.Properties[i]
		v, err := d.value(p, strs)
		if err != nil {
			return nil, err
		}
		node.Properties[i] = Property{Name: p.Name, Value: v}
	}
	if d.cur != node.End() {
		return nil, decodeErr(offset, d.cur, ErrLengthMismatch, "declared %d, consumed %d", length, d.cur-int(offset)-2)
	}
	if debug.Decode() {
		debug.Logf("decoded %s [%d..%d)\n", node, offset, d.cur)
	}
	return node, nil
}

type decoder struct {
	data []uint32
	off  uint32
	cur  int
}

func (d *decoder) next() (uint32, error) {
	if d.cur >= len(d.data) {
		return 0, decodeErr(d.off, d.cur, ErrTruncated, "")
	}
	v := d.data[d.cur]
	d.cur++
	return v, nil
}

func (d *decoder) value(p *shape.Property, strs *Strings) (Value, error) {
	if p.Multiplicity == shape.Variadic {
		return d.variadic(p, strs)
	}
	at := d.cur
	v, err := d.next()
	if err != nil {
		return Value{}, err
	}
	if v == Sentinel {
		if p.Multiplicity == shape.Optional {
			return None(), nil
		}
		return Value{}, decodeErr(d.off, at, ErrUnexpectedSentinel, "required property %q", p.Name)
	}
	if p.IsNode {
		return FromNode(v), nil
	}
	s, err := strs.Lookup(v)
	if err != nil {
		return Value{}, decodeErr(d.off, at, err, "property %q", p.Name)
	}
	return FromString(s), nil
}

func (d *decoder) variadic(p *shape.Property, strs *Strings) (Value, error) {
	count, err := d.next()
	if err != nil {
		return Value{}, err
	}
	if uint64(count) > uint64(len(d.data)-d.cur) {
		return Value{}, decodeErr(d.off, d.cur, ErrTruncated, "property %q wants %d values, %d remain", p.Name, count, len(d.data)-d.cur)
	}
	payload := d.data[d.cur : d.cur+int(count)]
	start := d.cur
	d.cur += int(count)
	if p.IsNode {
		nodes := make([]uint32, len(payload))
		for i, o := range payload {
			if o == Sentinel {
				return Value{}, decodeErr(d.off, start+i, ErrUnexpectedSentinel, "property %q element %d", p.Name, i)
			}
			nodes[i] = o
		}
		return FromNodes(nodes), nil
	}
	res := make([]string, len(payload))
	for i, id := range payload {
		s, err := strs.Lookup(id)
		if err != nil {
			return Value{}, decodeErr(d.off, start+i, err, "property %q element %d", p.Name, i)
		}
		res[i] = s
	}
	return FromStrings(res), nil
}
