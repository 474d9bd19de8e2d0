// Package encode renders decoded trees as an indented outline, YAML or
// JSON.
//
// # Usage
//
//	// Render the whole tree
//	root, _ := t.Root()
//	err := encode.Encode(t, root, os.Stdout)
//
//	// Render two levels, collapsing the rest, in color
//	err := encode.Encode(t, root, os.Stdout,
//	    encode.Depth(2), encode.EncodeColors(encode.NewColors()))
//
//	// Render as JSON
//	err := encode.Encode(t, root, os.Stdout, encode.EncodeFormat(format.JSONFormat))
//
// # Related Packages
//
//   - github.com/signadot/ptree/tree - decodes nodes
//   - github.com/signadot/ptree/format - output formats
package encode
