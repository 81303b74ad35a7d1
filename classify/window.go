package classify

import "unicode/utf8"

// Window returns s[start:end] with both bounds clamped to the string and
// moved inward to rune boundaries.
func Window(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	for start < end && !utf8.RuneStart(s[start]) {
		start++
	}
	for end < len(s) && end > start && !utf8.RuneStart(s[end]) {
		end--
	}
	if start >= end {
		return ""
	}
	return s[start:end]
}
