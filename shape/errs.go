package shape

import (
	"errors"
	"fmt"
)

// ErrSchema marks a registry that disagrees with itself or with the
// decoder about the schema format.  It is fatal for the whole result.
var ErrSchema = errors.New("schema error")

// SchemaError locates a schema problem at a registry index.
type SchemaError struct {
	Index int
	Kind  string
	Err   error
}

func (e *SchemaError) Unwrap() []error {
	return []error{ErrSchema, e.Err}
}

func (e *SchemaError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s at registry index %d: %s", ErrSchema, e.Index, e.Err)
	}
	return fmt.Sprintf("%s at registry index %d (%s): %s", ErrSchema, e.Index, e.Kind, e.Err)
}

func schemaErr(i int, kind string, format string, args ...any) error {
	return &SchemaError{Index: i, Kind: kind, Err: fmt.Errorf(format, args...)}
}
