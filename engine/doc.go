// Package engine is the boundary between the external parsing engine and
// the decoders.
//
// An [Engine] produces an [Output] per parse.  [Decode] turns an Output into
// a [Result] holding the shape registry, string table, tree and merged
// spans.  Any decoder failure is reported wrapped in [ErrInternal], which is
// distinct from a normal parse [Failure] reported by the engine itself.
//
// A [Session] keeps at most one live Result and releases the superseded
// one on each update.
package engine
