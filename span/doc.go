// Package span merges token and error records into one ordered sequence of
// annotated source ranges for highlighting.
//
// Merge only deals in offsets.  Slicing the source text between spans is
// left to the renderer (see package highlight), so any rendering
// technology can consume the same spans.
package span
