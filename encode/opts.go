package encode

import "github.com/signadot/ptree/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

// Depth limits rendering to n levels below the starting node.  Deeper
// nodes are shown collapsed.  n <= 0 means no limit.
func Depth(n int) EncodeOption {
	return func(es *EncState) { es.maxDepth = n }
}
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
func EncodeOffsets(v bool) EncodeOption {
	return func(es *EncState) { es.offsets = v }
}
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}
