package text

import "math"

// MergeConfig holds the thresholds used when rebuilding words from glyphs.
// All values are fractions of the glyph's font size.
type MergeConfig struct {
	// BaselineTolerance is the maximum baseline shift inside a word (default: 0.2)
	BaselineTolerance float64

	// SpaceWidth is the estimated width of a space character (default: 0.25)
	SpaceWidth float64

	// GapRatio is the fraction of a space width that starts a new word (default: 0.5)
	GapRatio float64

	// MaxOverlap is how far a glyph may start left of the previous one's right
	// edge and still join the word (default: 1.0)
	MaxOverlap float64

	// FallbackFontSize is used for glyphs that report no font size (default: 10)
	FallbackFontSize float64
}

// DefaultMergeConfig returns sensible default configuration
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		BaselineTolerance: 0.2,
		SpaceWidth:        0.25,
		GapRatio:          0.5,
		MaxOverlap:        1.0,
		FallbackFontSize:  10,
	}
}

// MergeGlyphs joins a stream of glyph fragments, in content-stream order, into
// word fragments. Whitespace glyphs always end the current word and are
// dropped. A glyph joins the current word when it sits on the same baseline,
// uses the same font, and the horizontal gap to the word is smaller than half
// a space.
func MergeGlyphs(glyphs []Fragment, config MergeConfig) []Fragment {
	var words []Fragment
	var current *Fragment

	flush := func() {
		if current != nil && !current.IsBlank() {
			words = append(words, *current)
		}
		current = nil
	}

	for _, g := range glyphs {
		if g.IsBlank() {
			flush()
			continue
		}

		size := g.FontSize
		if size <= 0 {
			size = config.FallbackFontSize
		}
		if g.Height <= 0 {
			g.Height = size
		}

		if current != nil && joins(*current, g, size, config) {
			current.Text += g.Text
			if g.Right() > current.Right() {
				current.Width = g.Right() - current.X
			}
			if g.Height > current.Height {
				current.Height = g.Height
			}
			continue
		}

		flush()
		word := g
		current = &word
	}
	flush()

	return words
}

func joins(word, g Fragment, size float64, config MergeConfig) bool {
	if word.FontName != g.FontName {
		return false
	}
	if math.Abs(word.Y-g.Y) > size*config.BaselineTolerance {
		return false
	}
	gap := g.X - word.Right()
	if gap < -size*config.MaxOverlap {
		return false
	}
	return gap < size*config.SpaceWidth*config.GapRatio
}
