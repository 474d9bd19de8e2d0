package shape

import (
	"fmt"
)

type Multiplicity int

const (
	Single Multiplicity = iota
	Optional
	Variadic
)

func ParseMultiplicity(v string) (Multiplicity, error) {
	m, ok := map[string]Multiplicity{
		"single":   Single,
		"optional": Optional,
		"variadic": Variadic,
	}[v]
	if ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown multiplicity %q", v)
}

func (m Multiplicity) String() string {
	d, err := m.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (m Multiplicity) MarshalText() ([]byte, error) {
	switch m {
	case Single:
		return []byte("single"), nil
	case Optional:
		return []byte("optional"), nil
	case Variadic:
		return []byte("variadic"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a multiplicity>", int(m))
	}
}

func (m *Multiplicity) UnmarshalText(d []byte) error {
	pm, err := ParseMultiplicity(string(d))
	if err != nil {
		return err
	}
	*m = pm
	return nil
}

// Property describes one property slot of a node kind.  IsNode properties
// carry node offsets, the others carry string table ids.
type Property struct {
	Name         string       `json:"name"`
	IsNode       bool         `json:"isNode"`
	Multiplicity Multiplicity `json:"multiplicity"`
}

func (p *Property) String() string {
	what := "string"
	if p.IsNode {
		what = "node"
	}
	return fmt.Sprintf("%s: %s %s", p.Name, p.Multiplicity, what)
}

// Kind is one registry entry.
type Kind struct {
	Name       string     `json:"name"`
	Ordinal    int        `json:"ordinal"`
	Properties []Property `json:"properties"`
}

// Width returns the minimum number of buffer integers a node of this kind
// occupies after its two header words, that is with every variadic
// property empty.
func (k *Kind) Width() int {
	return len(k.Properties)
}
