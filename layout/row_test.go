package layout

import (
	"math/rand"
	"testing"

	"github.com/tsawler/optionslip/text"
)

// makeRowFragment creates a test text fragment for row tests
func makeRowFragment(txt string, x, y float64) text.Fragment {
	return text.Fragment{
		Text:     txt,
		X:        x,
		Y:        y,
		Width:    float64(len(txt)) * 6,
		Height:   12,
		FontSize: 12,
	}
}

func TestGroup_Empty(t *testing.T) {
	if rows := Group(nil, BasicTolerance); len(rows) != 0 {
		t.Errorf("Expected 0 rows, got %d", len(rows))
	}
	if rows := NewRowGrouper().Group([]text.Fragment{}); len(rows) != 0 {
		t.Errorf("Expected 0 rows, got %d", len(rows))
	}
}

func TestGroup_SingleRowSortedByX(t *testing.T) {
	fragments := []text.Fragment{
		makeRowFragment("E099AI", 80, 700),
		makeRowFragment("1", 40, 702),
	}

	rows := Group(fragments, BasicTolerance)

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Text() != "1 E099AI" {
		t.Errorf("Expected '1 E099AI', got '%s'", rows[0].Text())
	}
	if rows[0].Y != 702 {
		t.Errorf("Expected representative Y 702, got %f", rows[0].Y)
	}
}

func TestGroup_RowsTopToBottom(t *testing.T) {
	fragments := []text.Fragment{
		makeRowFragment("third", 40, 600),
		makeRowFragment("first", 40, 700),
		makeRowFragment("second", 40, 650),
	}

	rows := Group(fragments, BasicTolerance)

	want := []string{"first", "second", "third"}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i, w := range want {
		if rows[i].Text() != w {
			t.Errorf("Row %d: expected '%s', got '%s'", i, w, rows[i].Text())
		}
		if rows[i].Index != i {
			t.Errorf("Row %d: expected index %d, got %d", i, i, rows[i].Index)
		}
	}
}

func TestGroup_TolerancePresets(t *testing.T) {
	// 7 units apart: separate rows at the basic tolerance, one row at the
	// advanced tolerance.
	fragments := []text.Fragment{
		makeRowFragment("upper", 40, 700),
		makeRowFragment("lower", 40, 693),
	}

	if rows := NewRowGrouper().Group(fragments); len(rows) != 2 {
		t.Errorf("Basic tolerance: expected 2 rows, got %d", len(rows))
	}
	if rows := NewRowGrouperWithConfig(AdvancedRowConfig()).Group(fragments); len(rows) != 1 {
		t.Errorf("Advanced tolerance: expected 1 row, got %d", len(rows))
	}
}

func TestGroup_RepresentativeIsFirstMember(t *testing.T) {
	// 700 opens the row; 696 joins it; 692 is 8 away from the representative
	// and starts a new row even though it is within tolerance of 696.
	fragments := []text.Fragment{
		makeRowFragment("a", 10, 700),
		makeRowFragment("b", 20, 696),
		makeRowFragment("c", 30, 692),
	}

	rows := Group(fragments, BasicTolerance)

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Text() != "a b" || rows[1].Text() != "c" {
		t.Errorf("Unexpected rows: %q, %q", rows[0].Text(), rows[1].Text())
	}
}

func TestGroup_DoesNotModifyInput(t *testing.T) {
	fragments := []text.Fragment{
		makeRowFragment("low", 10, 100),
		makeRowFragment("high", 10, 500),
	}

	Group(fragments, BasicTolerance)

	if fragments[0].Text != "low" {
		t.Error("Group reordered its input")
	}
}

func TestGroup_BBox(t *testing.T) {
	fragments := []text.Fragment{
		makeRowFragment("ab", 10, 700),  // width 12
		makeRowFragment("cde", 50, 700), // width 18
	}

	rows := Group(fragments, BasicTolerance)

	box := rows[0].BBox
	if box.X != 10 || box.Right() != 68 || box.Height != 12 {
		t.Errorf("Unexpected bbox: %+v", box)
	}
}

func TestGroup_BBoxIncludesOrigin(t *testing.T) {
	fragments := []text.Fragment{
		{Text: ".", X: 0, Y: 0},
		{Text: "E099AI", X: 10, Y: 2, Width: 5, Height: 3},
	}

	rows := Group(fragments, BasicTolerance)

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	box := rows[0].BBox
	if box.X != 0 || box.Y != 0 || box.Right() != 15 || box.Top() != 5 {
		t.Errorf("Expected bbox from origin to (15, 5), got %+v", box)
	}
}

func TestGroup_NearbyPairsShareRow(t *testing.T) {
	// Pairs within tolerance, isolated from every other pair by more than
	// twice the tolerance, always end up in the same row.
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		var fragments []text.Fragment
		pairs := 2 + rng.Intn(8)
		for p := 0; p < pairs; p++ {
			base := 800 - float64(p)*30
			offset := rng.Float64() * BasicTolerance
			fragments = append(fragments,
				makeRowFragment("x", rng.Float64()*500, base),
				makeRowFragment("y", rng.Float64()*500, base-offset),
			)
		}
		rng.Shuffle(len(fragments), func(i, j int) {
			fragments[i], fragments[j] = fragments[j], fragments[i]
		})

		rows := Group(fragments, BasicTolerance)

		if len(rows) != pairs {
			t.Fatalf("Trial %d: expected %d rows, got %d", trial, pairs, len(rows))
		}
		for _, r := range rows {
			if len(r.Fragments) != 2 {
				t.Fatalf("Trial %d: expected 2 fragments per row, got %d", trial, len(r.Fragments))
			}
			for i := 1; i < len(r.Fragments); i++ {
				if r.Fragments[i-1].X > r.Fragments[i].X {
					t.Fatalf("Trial %d: row not sorted by X", trial)
				}
			}
		}
	}
}

func TestPageText(t *testing.T) {
	rows := Group([]text.Fragment{
		makeRowFragment("1", 10, 700),
		makeRowFragment("E099AI", 30, 700),
		makeRowFragment("PES", 10, 680),
	}, BasicTolerance)

	if got := PageText(rows); got != "1 E099AI PES" {
		t.Errorf("Expected '1 E099AI PES', got '%s'", got)
	}
}
