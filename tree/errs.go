package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTree is matched by every decode failure.
	ErrMalformedTree = errors.New("malformed tree")

	ErrBadKind            = errors.New("bad node kind")
	ErrTruncated          = errors.New("data terminated unexpectedly")
	ErrLengthMismatch     = errors.New("declared length mismatch")
	ErrUnexpectedSentinel = errors.New("unexpected sentinel")
	ErrBadString          = errors.New("bad string id")
	ErrCycle              = errors.New("node reference cycle")
	ErrBadStrings         = errors.New("bad string table")
)

// DecodeErr reports a decode failure of the node at Offset.  Cursor is the
// buffer index being read when the failure was detected.
type DecodeErr struct {
	Offset uint32
	Cursor int
	Err    error
}

func (e *DecodeErr) Unwrap() []error {
	return []error{ErrMalformedTree, e.Err}
}

func (e *DecodeErr) Error() string {
	return fmt.Sprintf("%s at offset %d (index %d): %s", ErrMalformedTree, e.Offset, e.Cursor, e.Err)
}

func decodeErr(off uint32, cursor int, err error, format string, args ...any) error {
	if format != "" {
		err = fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
	}
	return &DecodeErr{Offset: off, Cursor: cursor, Err: err}
}
