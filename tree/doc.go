// Package tree decodes the engine's flat tree buffer.
//
// The buffer is a sequence of uint32.  Its last element is the offset of
// the root node.  A node at offset o is laid out as
//
//	[kind, length, values...]
//
// where kind indexes the shape registry and length counts the integers in
// the values region.  Values follow the kind's properties in order:
//
//   - single:   one integer, never the sentinel 0
//   - optional: one integer, 0 meaning no value
//   - variadic: a count n followed by n integers
//
// Node properties hold absolute offsets of other nodes; string properties
// hold ids into the interned string table, where id 0 is reserved.
//
// Nodes are views: every call to Node decodes afresh from the buffer and
// children are returned as offsets, so callers decide how deep to go.
//
// # Usage
//
//	t := tree.New(data, reg, strs)
//	root, ok := t.Root()
//	if !ok {
//	    // empty buffer, no tree
//	}
//	n, err := t.Node(root)
//	for _, child := range n.Children() {
//	    ...
//	}
//
// # Related Packages
//
//   - github.com/signadot/ptree/shape - node shape registry
//   - github.com/signadot/ptree/encode - renders decoded trees
package tree
