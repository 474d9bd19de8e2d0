package stream

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Stride is the number of integers per record.
const Stride = 3

var ErrMalformedStream = errors.New("malformed stream")

// Record is one token or error record.  Index is a token kind for token
// streams and unused for error streams.  Start and End are offsets into
// the source in the engine's unit, which is bytes.
type Record struct {
	Index uint32
	Start uint32
	End   uint32
}

func (r Record) Width() uint32 {
	return r.End - r.Start
}

func (r Record) String() string {
	return fmt.Sprintf("%d[%d,%d)", r.Index, r.Start, r.End)
}

// Decode splits raw into records, in order.
func Decode(raw []uint32) ([]Record, error) {
	if len(raw)%Stride != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrMalformedStream, len(raw), Stride)
	}
	res := make([]Record, 0, len(raw)/Stride)
	for i := 0; i < len(raw); i += Stride {
		r := Record{Index: raw[i], Start: raw[i+1], End: raw[i+2]}
		if r.Start > r.End {
			return nil, fmt.Errorf("%w: record %d ends at %d before it starts at %d", ErrMalformedStream, i/Stride, r.End, r.Start)
		}
		res = append(res, r)
	}
	return res, nil
}

// Encode is the inverse of Decode.
func Encode(recs []Record) []uint32 {
	res := make([]uint32, 0, len(recs)*Stride)
	for _, r := range recs {
		res = append(res, r.Index, r.Start, r.End)
	}
	return res
}

// Kinds is the token kind name table, addressed by token record index.
type Kinds []string

// ParseKinds decodes the engine's token kind table.  It is normally a
// comma separated list; a JSON array is accepted too.
func ParseKinds(s string) (Kinds, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Kinds{}, nil
	}
	if strings.HasPrefix(t, "[") {
		var res []string
		if err := yaml.Unmarshal([]byte(t), &res); err != nil {
			return nil, fmt.Errorf("%w: bad token kind table: %w", ErrMalformedStream, err)
		}
		return Kinds(res), nil
	}
	return Kinds(strings.Split(t, ",")), nil
}

// Name resolves a token kind index.
func (k Kinds) Name(i uint32) (string, error) {
	if uint64(i) >= uint64(len(k)) {
		return "", fmt.Errorf("%w: token kind %d not in table of %d", ErrMalformedStream, i, len(k))
	}
	return k[i], nil
}

func (k Kinds) String() string {
	return strings.Join(k, ",")
}
