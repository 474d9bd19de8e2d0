package tree

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Sentinel is the reserved id meaning "no value".  It is never a valid
// string id and never a valid child reference.
const Sentinel = 0

// Strings is the interned string table shared by every node of a tree.
type Strings struct {
	s []string
}

func NewStrings(s []string) *Strings {
	return &Strings{s: s}
}

// ParseStrings decodes the engine's serialized string table, a JSON array
// of strings.
func ParseStrings(data []byte) (*Strings, error) {
	var s []string
	if len(data) == 0 {
		return &Strings{}, nil
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadStrings, err)
	}
	return &Strings{s: s}, nil
}

func (s *Strings) Len() int {
	return len(s.s)
}

// Lookup resolves id.  The sentinel and out of range ids are errors.
func (s *Strings) Lookup(id uint32) (string, error) {
	if id == Sentinel {
		return "", ErrUnexpectedSentinel
	}
	if uint64(id) >= uint64(len(s.s)) {
		return "", fmt.Errorf("%w: %d not in table of %d", ErrBadString, id, len(s.s))
	}
	return s.s[id], nil
}
