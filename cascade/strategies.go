package cascade

import (
	"regexp"
	"strconv"

	"github.com/tsawler/optionslip/classify"
	"github.com/tsawler/optionslip/model"
)

var (
	anchorRe   = regexp.MustCompile(`^(\d+)\s+(` + model.CompoundCodeExpr + `)`)
	pageScanRe = regexp.MustCompile(`(\d+)\s*[.)]?\s*(` + model.CompoundCodeExpr + `)`)
	sweepRe    = regexp.MustCompile(`\b(\d{1,3})\b`)
)

// RowAnchor is the strict tier: an option number followed by a compound code
// at the start of a row.
type RowAnchor struct {
	config     Config
	classifier *classify.Classifier
}

// NewRowAnchor creates the row anchor strategy
func NewRowAnchor(config Config, classifier *classify.Classifier) *RowAnchor {
	return &RowAnchor{config: config, classifier: classifier}
}

// Name returns the source tag of records found by this strategy
func (s *RowAnchor) Name() model.Source {
	return model.SourceRowAnchor
}

// Scan offers one candidate per anchored row
func (s *RowAnchor) Scan(page *Page, sink Sink) {
	texts := page.RowTexts()
	lookahead := s.config.AnchorLookahead
	if lookahead < 1 {
		lookahead = 1
	}

	for i, rowText := range texts {
		m := anchorRe.FindStringSubmatch(rowText)
		if m == nil {
			continue
		}
		priority, ok := parsePriority(m[1])
		if !ok || sink.Claimed(priority) {
			continue
		}

		end := i + lookahead
		if end > len(texts) {
			end = len(texts)
		}
		fields := s.classifier.ScanSpans(texts[i:end])
		sink.Offer(candidate(priority, model.CompoundCode(m[2]), fields, s.classifier, s.Name()))
	}
}

// PageScan is the aggressive tier: option number and compound code pairs
// anywhere in the page text.
type PageScan struct {
	config     Config
	classifier *classify.Classifier
}

// NewPageScan creates the page scan strategy
func NewPageScan(config Config, classifier *classify.Classifier) *PageScan {
	return &PageScan{config: config, classifier: classifier}
}

// Name returns the source tag of records found by this strategy
func (s *PageScan) Name() model.Source {
	return model.SourcePageScan
}

// Scan offers one candidate per unclaimed match
func (s *PageScan) Scan(page *Page, sink Sink) {
	text := page.Text()

	for _, m := range pageScanRe.FindAllStringSubmatchIndex(text, -1) {
		priority, ok := parsePriority(text[m[2]:m[3]])
		if !ok || sink.Claimed(priority) {
			continue
		}

		window := classify.Window(text, m[0]-s.config.PageScanBefore, m[0]+s.config.PageScanAfter)
		fields := s.classifier.FromContext(window)
		sink.Offer(candidate(priority, model.CompoundCode(text[m[4]:m[5]]), fields, s.classifier, s.Name()))
	}
}

// NumberSweep is the ultra-aggressive tier: any bare integer in range with a
// compound code nearby.
type NumberSweep struct {
	config     Config
	classifier *classify.Classifier
}

// NewNumberSweep creates the number sweep strategy
func NewNumberSweep(config Config, classifier *classify.Classifier) *NumberSweep {
	return &NumberSweep{config: config, classifier: classifier}
}

// Name returns the source tag of records found by this strategy
func (s *NumberSweep) Name() model.Source {
	return model.SourceNumberSweep
}

// Scan offers one candidate per bare integer with a nearby compound code
func (s *NumberSweep) Scan(page *Page, sink Sink) {
	text := page.Text()

	for _, n := range bareIntegers(text) {
		if n.value < s.config.SweepMin || n.value > s.config.SweepMax || sink.Claimed(n.value) {
			continue
		}

		search := classify.Window(text, n.index-s.config.SweepSearchBefore, n.index+s.config.SweepSearchAfter)
		code, ok := model.FindCompoundCode(search)
		if !ok {
			continue
		}

		window := classify.Window(text, n.index-s.config.SweepContextBefore, n.index+s.config.SweepContextAfter)
		fields := s.classifier.FromContext(window)
		sink.Offer(candidate(n.value, code, fields, s.classifier, s.Name()))
	}
}

type number struct {
	value int
	index int
}

// bareIntegers returns every run of 1 to 3 digits standing on word
// boundaries, in text order. Digits joined to a ",digit" group belong to a
// grouped amount such as a fee and are skipped.
func bareIntegers(text string) []number {
	var out []number
	for _, m := range sweepRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		if groupedBefore(text, start) || groupedAfter(text, end) {
			continue
		}
		if v, err := strconv.Atoi(text[start:end]); err == nil {
			out = append(out, number{value: v, index: start})
		}
	}
	return out
}

func groupedBefore(text string, start int) bool {
	return start >= 2 && text[start-1] == ',' && isDigit(text[start-2])
}

func groupedAfter(text string, end int) bool {
	return end+1 < len(text) && text[end] == ',' && isDigit(text[end+1])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func parsePriority(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func candidate(priority int, code model.CompoundCode, f classify.Fields, c *classify.Classifier, source model.Source) model.Candidate {
	return model.Candidate{
		Priority:    priority,
		Code:        code,
		CourseName:  f.CourseName,
		CollegeName: f.CollegeName,
		Fee:         f.Fee,
		Location:    c.ExtractLocation(f.CollegeName),
		Source:      source,
	}
}
