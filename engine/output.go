package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Failure is a normal parse failure reported by the engine.
type Failure struct {
	Cursor  int    `json:"cursor"`
	Message string `json:"message"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("parse failed at %d: %s", f.Cursor, f.Message)
}

// Output is the raw result of one engine invocation.  Strings, Shapes and
// TokenKinds hold the engine's serialized tables.
type Output struct {
	Tree       []uint32 `json:"tree"`
	Strings    string   `json:"strings"`
	Shapes     string   `json:"shapes"`
	TokenKinds string   `json:"tokenKinds"`
	Tokens     []uint32 `json:"tokens"`
	Errors     []uint32 `json:"errors"`
	Failure    *Failure `json:"failure,omitempty"`

	// Release frees engine-held resources, if any.
	Release func() `json:"-"`
}

type Engine interface {
	Parse(ctx context.Context, source []byte) (*Output, error)
}

// ReadDump reads an Output from a YAML or JSON document.
func ReadDump(r io.Reader) (*Output, error) {
	out := &Output{}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty dump")
		}
		return nil, fmt.Errorf("could not read dump: %w", err)
	}
	return out, nil
}

// WriteDump writes out as YAML, or as JSON if json is set.
func WriteDump(w io.Writer, out *Output, json bool) error {
	var opts []yaml.EncodeOption
	if json {
		opts = append(opts, yaml.JSON())
	}
	d, err := yaml.MarshalWithOptions(out, opts...)
	if err != nil {
		return err
	}
	if len(d) != 0 && d[len(d)-1] != '\n' {
		d = append(d, '\n')
	}
	_, err = w.Write(d)
	return err
}
