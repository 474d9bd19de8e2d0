package span

import (
	"errors"
	"fmt"
	"sort"

	"github.com/signadot/ptree/debug"
	"github.com/signadot/ptree/stream"
)

// ErrInconsistentIntervals signals spans out of order after merging, which
// is a bug in the engine's output.
var ErrInconsistentIntervals = errors.New("inconsistent intervals")

// ErrorLabel labels every error span.
const ErrorLabel = "<error>"

type Category int

const (
	Token Category = iota
	Error
)

func (c Category) String() string {
	switch c {
	case Token:
		return "token"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

func (c Category) MarshalText() ([]byte, error) {
	switch c {
	case Token, Error:
		return []byte(c.String()), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a category>", int(c))
	}
}

func (c *Category) UnmarshalText(d []byte) error {
	switch string(d) {
	case "token":
		*c = Token
	case "error":
		*c = Error
	default:
		return fmt.Errorf("unknown category %q", d)
	}
	return nil
}

// Span is a labelled range [Start, End) of the source.
type Span struct {
	Start    uint32   `json:"start"`
	End      uint32   `json:"end"`
	Category Category `json:"category"`
	Label    string   `json:"label"`
}

func (s Span) Width() uint32 {
	return s.End - s.Start
}

// Contains reports whether off falls inside s.  A zero width span contains
// its start.
func (s Span) Contains(off uint32) bool {
	if s.Start == s.End {
		return off == s.Start
	}
	return s.Start <= off && off < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d) %s %s", s.Start, s.End, s.Category, s.Label)
}

// Merge labels tokens through kinds and errors with ErrorLabel, then sorts
// everything by start.  Tokens come before errors at equal starts.
//
// Tokens are checked against the adjacent token for overlap; tokens are
// not checked against errors.  After sorting, the first two spans must
// start in strictly ascending order.
func Merge(tokens, errs []stream.Record, kinds stream.Kinds) ([]Span, error) {
	res := make([]Span, 0, len(tokens)+len(errs))
	for i, r := range tokens {
		label, err := kinds.Name(r.Index)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		res = append(res, Span{Start: r.Start, End: r.End, Category: Token, Label: label})
	}
	if err := checkTokens(res); err != nil {
		return nil, err
	}
	for _, r := range errs {
		res = append(res, Span{Start: r.Start, End: r.End, Category: Error, Label: ErrorLabel})
	}
	Sort(res)
	if len(res) > 1 && res[0].Start >= res[1].Start {
		return nil, fmt.Errorf("%w: %s does not precede %s", ErrInconsistentIntervals, res[0], res[1])
	}
	if debug.Merge() {
		debug.Logf("merged %d tokens and %d errors into %d spans\n", len(tokens), len(errs), len(res))
	}
	return res, nil
}

func checkTokens(toks []Span) error {
	sorted := make([]Span, len(toks))
	copy(sorted, toks)
	Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return fmt.Errorf("%w: token %s overlaps %s", ErrInconsistentIntervals, sorted[i], sorted[i-1])
		}
	}
	return nil
}

// Sort orders spans by start, keeping the relative order of spans with
// equal starts.
func Sort(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})
}

// Check verifies what a renderer relies on: no span starts before the
// previous one ends.  Zero width spans may share a start with their
// successor.
func Check(spans []Span) error {
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.Start < prev.End || cur.Start < prev.Start {
			return fmt.Errorf("%w: %s overlaps %s", ErrInconsistentIntervals, cur, prev)
		}
	}
	return nil
}

// At returns the index of the span containing off, or -1.
func At(spans []Span, off uint32) int {
	i := sort.Search(len(spans), func(i int) bool {
		return spans[i].Start > off
	})
	for j := i - 1; j >= 0; j-- {
		if spans[j].Contains(off) {
			return j
		}
		if spans[j].End <= off && spans[j].Start < off {
			break
		}
	}
	return -1
}
