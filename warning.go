package optionslip

import (
	"fmt"
	"strings"
)

// WarningCode classifies a non-fatal issue.
type WarningCode string

const (
	// WarnPageSkipped means a page could not be decoded and was left out.
	WarnPageSkipped WarningCode = "page-skipped"

	// WarnNoOptions means no strategy recognised an option and the result
	// holds the placeholder record.
	WarnNoOptions WarningCode = "no-options"

	// WarnCascadeFallback means advanced mode found nothing and the records
	// come from the pattern cascade.
	WarnCascadeFallback WarningCode = "cascade-fallback"
)

// Warning describes a non-fatal issue found while parsing. The result is
// still usable but may be incomplete.
type Warning struct {
	Code    WarningCode
	Message string

	// Page is the 1-indexed page the warning refers to, or 0 for the whole
	// document.
	Page int
}

// String returns a human readable form of the warning
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single line suitable for logging.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
