// Package classify labels free text from an option slip as a course name, a
// college name, a fee or a location.
//
// All predicates are case-insensitive and stateless; the keyword tables come
// from an injected lexicon.Lexicon.
package classify

import (
	"regexp"
	"strings"

	"github.com/tsawler/optionslip/lexicon"
)

var feeRe = regexp.MustCompile(`\d{1,3}(?:,\d{2,3})+\s*-\s*[A-Za-z\s]+`)

// Config holds the span sizes used when extracting a field from a context
// window. Sizes are in bytes around the matched keyword.
type Config struct {
	CourseSpanBefore  int
	CourseSpanAfter   int
	CollegeSpanBefore int
	CollegeSpanAfter  int
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		CourseSpanBefore:  50,
		CourseSpanAfter:   100,
		CollegeSpanBefore: 100,
		CollegeSpanAfter:  150,
	}
}

// Fields are the optional values recovered for one record.
type Fields struct {
	CourseName  string
	CollegeName string
	Fee         string
}

// Complete reports whether every field has been found.
func (f Fields) Complete() bool {
	return f.CourseName != "" && f.CollegeName != "" && f.Fee != ""
}

type keyword struct {
	word string
	re   *regexp.Regexp
}

// Classifier evaluates field predicates against a lexicon.
type Classifier struct {
	config  Config
	lex     *lexicon.Lexicon
	course  []keyword
	college []keyword
	cities  []keyword
}

// New creates a classifier with default configuration
func New(lex *lexicon.Lexicon) *Classifier {
	return NewWithConfig(lex, DefaultConfig())
}

// NewWithConfig creates a classifier with custom configuration
func NewWithConfig(lex *lexicon.Lexicon, config Config) *Classifier {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Classifier{
		config:  config,
		lex:     lex,
		course:  compile(lex.CourseKeywords),
		college: compile(lex.CollegeKeywords),
		cities:  compile(lex.Cities),
	}
}

func compile(words []string) []keyword {
	out := make([]keyword, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		out = append(out, keyword{word: w, re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(w))})
	}
	return out
}

// Lexicon returns the tables the classifier was built from
func (c *Classifier) Lexicon() *lexicon.Lexicon {
	return c.lex
}

// IsCourseName reports whether s mentions an engineering discipline.
func (c *Classifier) IsCourseName(s string) bool {
	return containsAny(s, c.course)
}

// IsCollegeName reports whether s mentions an institution keyword.
func (c *Classifier) IsCollegeName(s string) bool {
	return containsAny(s, c.college)
}

// IsFeeText reports whether s contains a grouped numeral followed by its
// spelled-out form, e.g. "1,12,410 - One Lakh Twelve Thousand".
func (c *Classifier) IsFeeText(s string) bool {
	return IsFeeText(s)
}

// IsFeeText reports whether s contains fee text.
func IsFeeText(s string) bool {
	return feeRe.MatchString(s)
}

// FeeSpan returns the first fee text found in s.
func FeeSpan(s string) string {
	return strings.TrimSpace(feeRe.FindString(s))
}

// ExtractLocation returns the first gazetteer city mentioned in s, or the
// lexicon's default city.
func (c *Classifier) ExtractLocation(s string) string {
	if s != "" {
		for _, city := range c.cities {
			if city.re.MatchString(s) {
				return city.word
			}
		}
	}
	return c.lex.DefaultCity
}

// DefaultCity returns the location used when none is found
func (c *Classifier) DefaultCity() string {
	return c.lex.DefaultCity
}

// ScanSpans walks spans in order and fills each field from the first span
// that satisfies its predicate. Fields are independent: one span may fill
// several fields, but a field is never overwritten once set.
func (c *Classifier) ScanSpans(spans []string) Fields {
	var f Fields
	for _, span := range spans {
		span = strings.TrimSpace(span)
		if span == "" {
			continue
		}
		if f.CourseName == "" && c.IsCourseName(span) {
			f.CourseName = span
		}
		if f.CollegeName == "" && c.IsCollegeName(span) {
			f.CollegeName = span
		}
		if f.Fee == "" && c.IsFeeText(span) {
			f.Fee = span
		}
		if f.Complete() {
			break
		}
	}
	return f
}

// FromContext extracts fields from an unstructured window of page text. The
// course and college names are the text surrounding the first matching
// keyword, in lexicon order.
func (c *Classifier) FromContext(window string) Fields {
	return Fields{
		CourseName:  around(window, c.course, c.config.CourseSpanBefore, c.config.CourseSpanAfter),
		CollegeName: around(window, c.college, c.config.CollegeSpanBefore, c.config.CollegeSpanAfter),
		Fee:         FeeSpan(window),
	}
}

func containsAny(s string, keywords []keyword) bool {
	for _, k := range keywords {
		if k.re.MatchString(s) {
			return true
		}
	}
	return false
}

func around(s string, keywords []keyword, before, after int) string {
	for _, k := range keywords {
		loc := k.re.FindStringIndex(s)
		if loc == nil {
			continue
		}
		return strings.TrimSpace(Window(s, loc[0]-before, loc[1]+after))
	}
	return ""
}
