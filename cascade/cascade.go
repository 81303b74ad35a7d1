package cascade

import (
	"go.uber.org/zap"

	"github.com/tsawler/optionslip/classify"
	"github.com/tsawler/optionslip/layout"
	"github.com/tsawler/optionslip/model"
)

// Sink receives candidates. Claimed lets strategies skip work for
// priorities that already have a record.
type Sink interface {
	Claimed(priority int) bool
	Offer(c model.Candidate) bool
}

// Strategy produces candidate records for one page.
type Strategy interface {
	Name() model.Source
	Scan(page *Page, sink Sink)
}

// Tier is one rung of the ladder.
type Tier struct {
	Strategy Strategy

	// RunBelow is the coverage threshold: the tier runs only while fewer
	// than RunBelow records have been accepted for the page. Zero or less
	// means the tier always runs.
	RunBelow int
}

// Page is the scanning input for one page: its rows and the derived texts.
type Page struct {
	Index int
	Rows  []layout.Row

	texts []string
	text  string
}

// NewPage prepares rows for scanning.
func NewPage(index int, rows []layout.Row) *Page {
	texts := layout.Texts(rows)
	return &Page{
		Index: index,
		Rows:  rows,
		texts: texts,
		text:  layout.PageText(rows),
	}
}

// RowTexts returns the text of each row
func (p *Page) RowTexts() []string {
	return p.texts
}

// Text returns all row texts joined by single spaces
func (p *Page) Text() string {
	return p.text
}

// Config holds the ladder's thresholds and window sizes
type Config struct {
	// AnchorLookahead is the number of rows, starting at the anchor row,
	// searched for fields (default: 5)
	AnchorLookahead int

	// PageScanBelow is the coverage threshold for the page scan (default: 10)
	PageScanBelow int

	// NumberSweepBelow is the coverage threshold for the number sweep (default: 50)
	NumberSweepBelow int

	// PageScanBefore and PageScanAfter bound the context window around a
	// page scan match (default: 200, 800)
	PageScanBefore int
	PageScanAfter  int

	// SweepSearchBefore and SweepSearchAfter bound the search for a compound
	// code around a bare integer (default: 100, 300)
	SweepSearchBefore int
	SweepSearchAfter  int

	// SweepContextBefore and SweepContextAfter bound the context window
	// classified for a number sweep hit (default: 300, 600)
	SweepContextBefore int
	SweepContextAfter  int

	// SweepMin and SweepMax bound the integers treated as priorities
	// (default: 1, 200)
	SweepMin int
	SweepMax int
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		AnchorLookahead:    5,
		PageScanBelow:      10,
		NumberSweepBelow:   50,
		PageScanBefore:     200,
		PageScanAfter:      800,
		SweepSearchBefore:  100,
		SweepSearchAfter:   300,
		SweepContextBefore: 300,
		SweepContextAfter:  600,
		SweepMin:           1,
		SweepMax:           200,
	}
}

// Ladder runs tiers in order against a page
type Ladder struct {
	tiers  []Tier
	logger *zap.Logger
}

// NewLadder creates the standard three-tier ladder
func NewLadder(config Config, classifier *classify.Classifier) *Ladder {
	return NewLadderWithTiers(
		Tier{Strategy: NewRowAnchor(config, classifier)},
		Tier{Strategy: NewPageScan(config, classifier), RunBelow: config.PageScanBelow},
		Tier{Strategy: NewNumberSweep(config, classifier), RunBelow: config.NumberSweepBelow},
	)
}

// NewLadderWithTiers creates a ladder from custom tiers
func NewLadderWithTiers(tiers ...Tier) *Ladder {
	return &Ladder{tiers: tiers, logger: zap.NewNop()}
}

// SetLogger sets the logger used for tier progress
func (l *Ladder) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l.logger = logger
}

// Tiers returns the ladder's tiers in run order
func (l *Ladder) Tiers() []Tier {
	return l.tiers
}

// Run scans page with each tier in turn and returns the number of
// candidates accepted by sink for this page.
func (l *Ladder) Run(page *Page, sink Sink) int {
	counter := &countingSink{Sink: sink}

	for _, tier := range l.tiers {
		if tier.RunBelow > 0 && counter.accepted >= tier.RunBelow {
			l.logger.Debug("coverage reached, skipping tier",
				zap.Int("page", page.Index),
				zap.String("tier", string(tier.Strategy.Name())),
				zap.Int("accepted", counter.accepted))
			continue
		}

		before := counter.accepted
		tier.Strategy.Scan(page, counter)
		l.logger.Debug("tier finished",
			zap.Int("page", page.Index),
			zap.String("tier", string(tier.Strategy.Name())),
			zap.Int("found", counter.accepted-before),
			zap.Int("accepted", counter.accepted))
	}

	return counter.accepted
}

type countingSink struct {
	Sink
	accepted int
}

func (s *countingSink) Offer(c model.Candidate) bool {
	ok := s.Sink.Offer(c)
	if ok {
		s.accepted++
	}
	return ok
}
