package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fragment represents a piece of extracted text with position
type Fragment struct {
	Text     string
	X, Y     float64
	Width    float64
	Height   float64
	FontName string
	FontSize float64
}

// Right returns the X coordinate of the fragment's right edge
func (f Fragment) Right() float64 {
	return f.X + f.Width
}

// IsBlank reports whether the fragment carries no visible text
func (f Fragment) IsBlank() bool {
	return strings.TrimSpace(f.Text) == ""
}

// Normalize returns s in NFKC form with surrounding whitespace removed.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// Clean returns a copy of fragments with normalized text and blank fragments
// removed. The input slice is not modified.
func Clean(fragments []Fragment) []Fragment {
	out := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		f.Text = Normalize(f.Text)
		if f.Text == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Join concatenates fragment texts separated by single spaces.
func Join(fragments []Fragment) string {
	var sb strings.Builder
	for i, f := range fragments {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Text)
	}
	return strings.TrimSpace(sb.String())
}
