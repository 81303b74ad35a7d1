// Package layout groups positioned text fragments into visual rows.
//
// # Row Grouping
//
// The [RowGrouper] clusters fragments whose baselines lie within a vertical
// tolerance of a row's first member:
//
//	grouper := layout.NewRowGrouper()
//	rows := grouper.Group(fragments)
//
// Rows are returned top to bottom (descending Y) and each row's fragments are
// ordered left to right.
//
// # Tolerance Presets
//
// Two presets are provided. [BasicTolerance] keeps neighbouring table lines
// apart; [AdvancedTolerance] is looser and tolerates baseline jitter inside
// a cell at the cost of occasionally merging adjacent lines.
package layout
