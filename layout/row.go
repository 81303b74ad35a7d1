package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/optionslip/model"
	"github.com/tsawler/optionslip/text"
)

const (
	// BasicTolerance is the row tolerance used by the pattern cascade.
	BasicTolerance = 5.0

	// AdvancedTolerance is the row tolerance used by the single-pass walker.
	AdvancedTolerance = 8.0
)

// Row represents fragments sharing a visual line
type Row struct {
	// Fragments are sorted left to right
	Fragments []text.Fragment

	// Y is the representative baseline: the Y of the row's first member
	Y float64

	// BBox is the bounding box of all fragments in the row
	BBox model.BBox

	// Index is the row's position on the page (0-based, top to bottom)
	Index int
}

// Text returns the row's fragment texts joined by single spaces
func (r Row) Text() string {
	return text.Join(r.Fragments)
}

// RowConfig holds configuration for row grouping
type RowConfig struct {
	// Tolerance is the maximum Y distance between a fragment and a row's
	// representative baseline (default: BasicTolerance)
	Tolerance float64
}

// DefaultRowConfig returns the configuration used by the pattern cascade
func DefaultRowConfig() RowConfig {
	return RowConfig{Tolerance: BasicTolerance}
}

// AdvancedRowConfig returns the configuration used by the single-pass walker
func AdvancedRowConfig() RowConfig {
	return RowConfig{Tolerance: AdvancedTolerance}
}

// RowGrouper groups fragments into rows
type RowGrouper struct {
	config RowConfig
}

// NewRowGrouper creates a row grouper with default configuration
func NewRowGrouper() *RowGrouper {
	return &RowGrouper{config: DefaultRowConfig()}
}

// NewRowGrouperWithConfig creates a row grouper with custom configuration
func NewRowGrouperWithConfig(config RowConfig) *RowGrouper {
	return &RowGrouper{config: config}
}

// Tolerance returns the grouper's vertical tolerance
func (g *RowGrouper) Tolerance() float64 {
	return g.config.Tolerance
}

// Group clusters fragments into rows. The input slice is not modified.
func (g *RowGrouper) Group(fragments []text.Fragment) []Row {
	return Group(fragments, g.config.Tolerance)
}

// Group clusters fragments into rows using the given vertical tolerance.
func Group(fragments []text.Fragment, tolerance float64) []Row {
	if len(fragments) == 0 {
		return nil
	}

	// Sort by Y (descending, top of page first). Stable so that fragments on
	// the same baseline keep stream order until the per-row X sort.
	sorted := make([]text.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var groups [][]text.Fragment
	for _, frag := range sorted {
		placed := false
		for i := range groups {
			if math.Abs(frag.Y-groups[i][0].Y) <= tolerance {
				groups[i] = append(groups[i], frag)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []text.Fragment{frag})
		}
	}

	rows := make([]Row, 0, len(groups))
	for _, members := range groups {
		// The representative Y is fixed before reordering by X.
		y := members[0].Y
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].X < members[j].X
		})
		rows = append(rows, Row{
			Fragments: members,
			Y:         y,
			BBox:      fragmentsBBox(members),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Y > rows[j].Y
	})
	for i := range rows {
		rows[i].Index = i
	}

	return rows
}

// Texts returns the text of every row
func Texts(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text()
	}
	return out
}

// PageText joins all row texts with single spaces
func PageText(rows []Row) string {
	return strings.Join(Texts(rows), " ")
}

// fragmentsBBox calculates the bounding box of a set of fragments
func fragmentsBBox(fragments []text.Fragment) model.BBox {
	var box model.BBox
	for i, f := range fragments {
		fb := model.BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
		if i == 0 {
			box = fb
			continue
		}
		box = box.Union(fb)
	}
	return box
}
