// Package shape holds the node shape registry: the engine-supplied schema
// that says, for each node kind, which properties a node carries and how
// each property is encoded in the flat tree buffer.
//
// # Usage
//
//	reg, err := shape.Parse([]byte(out.Shapes))
//	if err != nil {
//	    // errors.Is(err, shape.ErrSchema)
//	}
//	k, ok := reg.Kind(kindIndex)
//
// A registry is validated once when it is built. Kinds are addressed by
// position, so a kind's ordinal must equal its index.
//
// # Related Packages
//
//   - github.com/signadot/ptree/tree - decodes nodes using a Registry
package shape
