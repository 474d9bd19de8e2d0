package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/signadot/ptree/debug"
	"github.com/signadot/ptree/shape"
	"github.com/signadot/ptree/span"
	"github.com/signadot/ptree/stream"
	"github.com/signadot/ptree/tree"
)

var (
	ErrInternal = errors.New("internal error")
	ErrReleased = errors.New("result already released")
)

// Result is a decoded engine Output.  When the engine reported a Failure,
// Tree is nil and only the streams are decoded.
type Result struct {
	Registry *shape.Registry
	Strings  *tree.Strings
	Tree     *tree.Tree
	Kinds    stream.Kinds
	Tokens   []stream.Record
	Errors   []stream.Record
	Spans    []span.Span
	Failure  *Failure

	mu       sync.Mutex
	release  func()
	released bool
}

func internal(err error) error {
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

// Decode decodes out.  Every decoder failure is wrapped in ErrInternal.
// The returned Result owns out's resources; if decoding fails they are
// released before returning.
func Decode(out *Output) (res *Result, err error) {
	defer func() {
		if err != nil && out.Release != nil {
			out.Release()
		}
	}()
	res = &Result{Failure: out.Failure, release: out.Release}
	if res.Kinds, err = stream.ParseKinds(out.TokenKinds); err != nil {
		return nil, internal(err)
	}
	if res.Tokens, err = stream.Decode(out.Tokens); err != nil {
		return nil, internal(fmt.Errorf("tokens: %w", err))
	}
	if res.Errors, err = stream.Decode(out.Errors); err != nil {
		return nil, internal(fmt.Errorf("errors: %w", err))
	}
	if res.Spans, err = span.Merge(res.Tokens, res.Errors, res.Kinds); err != nil {
		return nil, internal(err)
	}
	if debug.Engine() {
		debug.Logf("decoded streams: %d tokens, %d errors, failure=%v\n", len(res.Tokens), len(res.Errors), out.Failure != nil)
	}
	if out.Failure != nil {
		return res, nil
	}
	if res.Registry, err = shape.Parse([]byte(out.Shapes)); err != nil {
		return nil, internal(err)
	}
	if res.Strings, err = tree.ParseStrings([]byte(out.Strings)); err != nil {
		return nil, internal(err)
	}
	res.Tree = tree.New(out.Tree, res.Registry, res.Strings)
	return res, nil
}

// Root decodes the root node.  A result without a tree, or with an empty
// buffer, has no root.
func (r *Result) Root() (*tree.Node, error) {
	if r.Tree == nil {
		return nil, nil
	}
	off, ok := r.Tree.Root()
	if !ok {
		return nil, nil
	}
	return r.Node(off)
}

// Node decodes the node at offset, wrapping failures in ErrInternal.
func (r *Result) Node(offset uint32) (*tree.Node, error) {
	if r.Tree == nil {
		return nil, internal(fmt.Errorf("no tree"))
	}
	n, err := r.Tree.Node(offset)
	if err != nil {
		return nil, internal(err)
	}
	return n, nil
}

// Check decodes every reachable node and validates the spans for
// rendering.
func (r *Result) Check() (*tree.Stats, error) {
	if err := span.Check(r.Spans); err != nil {
		return nil, internal(err)
	}
	if r.Tree == nil {
		return &tree.Stats{Kinds: map[string]int{}}, nil
	}
	st, err := r.Tree.Check()
	if err != nil {
		return nil, internal(err)
	}
	return st, nil
}

// Release frees the engine resources held by r.  It may be called once.
func (r *Result) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	r.released = true
	if r.release != nil {
		r.release()
	}
	return nil
}

func (r *Result) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
