// Package text holds the positioned text fragments that every other package
// consumes, and the helpers that turn a decoder's raw glyph stream into them.
//
// # Fragments
//
// A [Fragment] is one piece of text with its baseline position (X, Y) in PDF
// user space and its bounding box size. Larger Y values are higher on the
// page.
//
// # Glyph Merging
//
// Some decoders emit one fragment per glyph. [MergeGlyphs] rebuilds words
// from such a stream using the same gap heuristics a reader would use for
// spacing:
//
//	words := text.MergeGlyphs(glyphs, text.DefaultMergeConfig())
//
// # Normalization
//
// [Normalize] applies NFKC so that ligatures and full-width digits produced
// by some PDF generators compare equal to their plain ASCII forms. [Clean]
// normalizes a whole page and drops blank fragments.
package text
