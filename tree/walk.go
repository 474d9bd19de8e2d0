package tree

import (
	"errors"
)

// SkipChildren may be returned by a WalkFunc to leave a node's children
// unvisited.
var SkipChildren = errors.New("skip children")

// WalkFunc is called once for each reachable node, parents before
// children.
type WalkFunc func(n *Node, depth int) error

type frame struct {
	off      uint32
	depth    int
	children []uint32
	next     int
}

// Walk visits every node reachable from the root exactly once, depth
// first.  Nodes referenced from several parents are visited the first time
// they are reached.  A reference to a node on the current path is an
// ErrCycle.  Walk uses an explicit stack, so deep trees do not grow the
// goroutine stack.
func (t *Tree) Walk(fn WalkFunc) error {
	root, ok := t.Root()
	if !ok {
		return nil
	}
	return t.WalkFrom(root, fn)
}

// WalkFrom is Walk starting at offset.
func (t *Tree) WalkFrom(offset uint32, fn WalkFunc) error {
	visited := map[uint32]bool{}
	onPath := map[uint32]bool{}
	var stack []*frame

	push := func(off uint32, depth int) error {
		n, err := t.Node(off)
		if err != nil {
			return err
		}
		visited[off] = true
		f := &frame{off: off, depth: depth}
		switch err := fn(n, depth); err {
		case nil:
			f.children = n.Children()
		case SkipChildren:
		default:
			return err
		}
		onPath[off] = true
		stack = append(stack, f)
		return nil
	}

	if err := push(offset, 0); err != nil {
		return err
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.children) {
			delete(onPath, top.off)
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.children[top.next]
		top.next++
		if onPath[child] {
			return decodeErr(top.off, int(top.off), ErrCycle, "child @%d is an ancestor", child)
		}
		if visited[child] {
			continue
		}
		if err := push(child, top.depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarises a full walk.
type Stats struct {
	Nodes    int
	MaxDepth int
	Kinds    map[string]int
}

// Check decodes every reachable node, verifying each against its shape.
func (t *Tree) Check() (*Stats, error) {
	st := &Stats{Kinds: map[string]int{}}
	err := t.Walk(func(n *Node, depth int) error {
		st.Nodes++
		st.Kinds[n.Kind]++
		st.MaxDepth = max(st.MaxDepth, depth)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}
