package tree

import (
	"fmt"

	"github.com/signadot/ptree/shape"
)

// Builder encodes nodes into the flat buffer format.  It is the inverse of
// DecodeNode and is used to produce fixtures and to re-encode trees.
//
// The buffer starts with one padding word so no node sits at offset 0,
// which could not be referenced from a parent.
type Builder struct {
	reg  *shape.Registry
	data []uint32
	strs []string
	ids  map[string]uint32
}

func NewBuilder(reg *shape.Registry) *Builder {
	return &Builder{
		reg:  reg,
		data: []uint32{0},
		strs: []string{""},
		ids:  map[string]uint32{},
	}
}

// Intern returns the id of s, adding it to the string table if needed.
func (b *Builder) Intern(s string) uint32 {
	if id, ok := b.ids[s]; ok {
		return id
	}
	id := uint32(len(b.strs))
	b.strs = append(b.strs, s)
	b.ids[s] = id
	return id
}

// Add appends a node of the named kind and returns its offset.  vals has
// one entry per property: a string or uint32 offset for single properties,
// the same or nil for optional ones, and a []string or []uint32 for
// variadic ones.
func (b *Builder) Add(kind string, vals ...any) (uint32, error) {
	k, ok := b.reg.Lookup(kind)
	if !ok {
		return 0, fmt.Errorf("unknown kind %q", kind)
	}
	if len(vals) != len(k.Properties) {
		return 0, fmt.Errorf("%s has %d properties, got %d values", kind, len(k.Properties), len(vals))
	}
	var body []uint32
	for i := range k.Properties {
		p := &k.Properties[i]
		words, err := b.encode(p, vals[i])
		if err != nil {
			return 0, fmt.Errorf("%s.%s: %w", kind, p.Name, err)
		}
		body = append(body, words...)
	}
	off := uint32(len(b.data))
	b.data = append(b.data, uint32(k.Ordinal), uint32(len(body)))
	b.data = append(b.data, body...)
	return off, nil
}

func (b *Builder) encode(p *shape.Property, v any) ([]uint32, error) {
	if p.Multiplicity == shape.Variadic {
		switch x := v.(type) {
		case []uint32:
			if !p.IsNode {
				return nil, fmt.Errorf("node offsets for a string property")
			}
			return append([]uint32{uint32(len(x))}, x...), nil
		case []string:
			if p.IsNode {
				return nil, fmt.Errorf("strings for a node property")
			}
			res := []uint32{uint32(len(x))}
			for _, s := range x {
				res = append(res, b.Intern(s))
			}
			return res, nil
		case nil:
			return []uint32{0}, nil
		default:
			return nil, fmt.Errorf("unexpected %T for variadic property", v)
		}
	}
	switch x := v.(type) {
	case nil:
		if p.Multiplicity != shape.Optional {
			return nil, fmt.Errorf("missing value for %s property", p.Multiplicity)
		}
		return []uint32{Sentinel}, nil
	case uint32:
		if !p.IsNode {
			return nil, fmt.Errorf("node offset for a string property")
		}
		return []uint32{x}, nil
	case string:
		if p.IsNode {
			return nil, fmt.Errorf("string for a node property")
		}
		return []uint32{b.Intern(x)}, nil
	default:
		return nil, fmt.Errorf("unexpected %T", v)
	}
}

// Finish appends the root offset and returns the buffer and string table.
func (b *Builder) Finish(root uint32) ([]uint32, *Strings) {
	data := append(append([]uint32(nil), b.data...), root)
	return data, NewStrings(append([]string(nil), b.strs...))
}

// Tree is Finish wrapped in a Tree.
func (b *Builder) Tree(root uint32) *Tree {
	data, strs := b.Finish(root)
	return New(data, b.reg, strs)
}
