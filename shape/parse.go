package shape

import (
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
)

type parseState struct {
	optional func(name string) (string, bool)
}

type ParseOption func(*parseState)

// WithOptionalConvention sets how optionality is inferred for properties
// that carry no explicit multiplicity.  f returns the property's real name
// and whether it is optional.
func WithOptionalConvention(f func(name string) (string, bool)) ParseOption {
	return func(ps *parseState) { ps.optional = f }
}

// NoOptionalConvention treats every non-variadic property without an
// explicit multiplicity as single.
func NoOptionalConvention() ParseOption {
	return func(ps *parseState) { ps.optional = nil }
}

// QuestionMarkOptional is the default convention: a trailing '?' on a
// property name marks it optional.
func QuestionMarkOptional(name string) (string, bool) {
	if base, ok := strings.CutSuffix(name, "?"); ok {
		return base, true
	}
	return name, false
}

// Parse decodes the engine's serialized schema and validates it.
//
// Each entry is either a tuple [name, ordinal, properties] or an object
// with the fields name, ordinal and properties.  A property is an object
// {isNode, isVariadic, name} optionally carrying isOptional or
// multiplicity, or a tuple [isNode, isVariadic, name].
func Parse(data []byte, opts ...ParseOption) (*Registry, error) {
	ps := &parseState{optional: QuestionMarkOptional}
	for _, opt := range opts {
		opt(ps)
	}
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: could not decode node shapes: %w", ErrSchema, err)
	}
	kinds := make([]Kind, len(raw))
	for i, entry := range raw {
		k, err := ps.kind(entry)
		if err != nil {
			return nil, &SchemaError{Index: i, Kind: k.Name, Err: err}
		}
		kinds[i] = k
	}
	return New(kinds)
}

func (ps *parseState) kind(entry any) (Kind, error) {
	var (
		k     Kind
		props any
		ord   any
	)
	switch x := entry.(type) {
	case []any:
		if len(x) != 3 {
			return k, fmt.Errorf("expected [name, ordinal, properties], got %d elements", len(x))
		}
		name, ok := x[0].(string)
		if !ok {
			return k, fmt.Errorf("kind name is %T, not a string", x[0])
		}
		k.Name = name
		ord, props = x[1], x[2]
	case map[string]any:
		name, ok := x["name"].(string)
		if !ok {
			return k, fmt.Errorf("kind name is %T, not a string", x["name"])
		}
		k.Name = name
		ord, props = x["ordinal"], x["properties"]
	default:
		return k, fmt.Errorf("unexpected entry %T", entry)
	}
	n, ok := toInt(ord)
	if !ok {
		return k, fmt.Errorf("ordinal %v is not an integer", ord)
	}
	k.Ordinal = n
	if props == nil {
		return k, nil
	}
	list, ok := props.([]any)
	if !ok {
		return k, fmt.Errorf("properties is %T, not a list", props)
	}
	k.Properties = make([]Property, len(list))
	for j, rp := range list {
		p, err := ps.property(rp)
		if err != nil {
			return k, fmt.Errorf("property %d: %w", j, err)
		}
		k.Properties[j] = p
	}
	return k, nil
}

func (ps *parseState) property(rp any) (Property, error) {
	var (
		p                    Property
		isNode, isVariadic   bool
		explicit, isOptional bool
		ok                   bool
	)
	switch x := rp.(type) {
	case []any:
		if len(x) != 3 {
			return p, fmt.Errorf("expected [isNode, isVariadic, name], got %d elements", len(x))
		}
		if isNode, ok = x[0].(bool); !ok {
			return p, fmt.Errorf("isNode is %T, not a bool", x[0])
		}
		if isVariadic, ok = x[1].(bool); !ok {
			return p, fmt.Errorf("isVariadic is %T, not a bool", x[1])
		}
		if p.Name, ok = x[2].(string); !ok {
			return p, fmt.Errorf("name is %T, not a string", x[2])
		}
	case map[string]any:
		if p.Name, ok = x["name"].(string); !ok {
			return p, fmt.Errorf("name is %T, not a string", x["name"])
		}
		if isNode, ok = boolField(x, "isNode"); !ok {
			return p, fmt.Errorf("%s: isNode is %T, not a bool", p.Name, x["isNode"])
		}
		if isVariadic, ok = boolField(x, "isVariadic"); !ok {
			return p, fmt.Errorf("%s: isVariadic is %T, not a bool", p.Name, x["isVariadic"])
		}
		if v, present := x["isOptional"]; present {
			if isOptional, ok = v.(bool); !ok {
				return p, fmt.Errorf("%s: isOptional is %T, not a bool", p.Name, v)
			}
			explicit = true
		}
		if v, present := x["multiplicity"]; present {
			s, ok := v.(string)
			if !ok {
				return p, fmt.Errorf("%s: multiplicity is %T, not a string", p.Name, v)
			}
			m, err := ParseMultiplicity(s)
			if err != nil {
				return p, err
			}
			if (m == Variadic) != isVariadic && x["isVariadic"] != nil {
				return p, fmt.Errorf("%s: multiplicity %s contradicts isVariadic=%t", p.Name, m, isVariadic)
			}
			p.IsNode = isNode
			p.Multiplicity = m
			return p, nil
		}
	default:
		return p, fmt.Errorf("unexpected property %T", rp)
	}
	p.IsNode = isNode
	switch {
	case isVariadic:
		// a variadic may be empty already; the marker only names it
		if ps.optional != nil {
			p.Name, _ = ps.optional(p.Name)
		}
		p.Multiplicity = Variadic
	case explicit:
		if isOptional {
			p.Multiplicity = Optional
		}
	case ps.optional != nil:
		name, opt := ps.optional(p.Name)
		p.Name = name
		if opt {
			p.Multiplicity = Optional
		}
	}
	return p, nil
}

func boolField(m map[string]any, key string) (bool, bool) {
	v, present := m[key]
	if !present || v == nil {
		return false, true
	}
	b, ok := v.(bool)
	return b, ok
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		if x > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}
