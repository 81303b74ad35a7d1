package engine

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tsawler/optionslip/assemble"
	"github.com/tsawler/optionslip/cascade"
	"github.com/tsawler/optionslip/classify"
	"github.com/tsawler/optionslip/layout"
	"github.com/tsawler/optionslip/lexicon"
	"github.com/tsawler/optionslip/model"
	"github.com/tsawler/optionslip/text"
)

// State is a step of the strategy state machine.
type State int

const (
	NotStarted State = iota
	AdvancedMode
	CascadeMode
	Placeholder
	Done
)

// String returns a string representation of the state
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case AdvancedMode:
		return "advanced"
	case CascadeMode:
		return "cascade"
	case Placeholder:
		return "placeholder"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Config holds configuration for the engine
type Config struct {
	// BasicRows groups rows for the cascade ladder
	BasicRows layout.RowConfig

	// AdvancedRows groups rows for advanced mode
	AdvancedRows layout.RowConfig

	Advanced    AdvancedConfig
	Cascade     cascade.Config
	Classifier  classify.Config
	Assembler   assemble.Config
	Placeholder assemble.PlaceholderConfig

	// SkipAdvanced goes straight to the cascade ladder
	SkipAdvanced bool
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		BasicRows:    layout.DefaultRowConfig(),
		AdvancedRows: layout.AdvancedRowConfig(),
		Advanced:     DefaultAdvancedConfig(),
		Cascade:      cascade.DefaultConfig(),
		Classifier:   classify.DefaultConfig(),
		Assembler:    assemble.DefaultConfig(),
		Placeholder:  assemble.DefaultPlaceholderConfig(),
	}
}

// Result is the outcome of one parse.
type Result struct {
	// Options are the recovered records ordered by priority. Never empty.
	Options []model.ParsedOption

	// Mode is the strategy that produced Options: AdvancedMode, CascadeMode
	// or Placeholder.
	Mode State

	// States lists every state the parse passed through, ending in Done.
	States []State

	// RunID is the identifier shared by every record ID of this parse.
	RunID string

	// Pages is the number of pages parsed.
	Pages int
}

// Engine reconstructs option records from page fragments
type Engine struct {
	config     Config
	lex        *lexicon.Lexicon
	classifier *classify.Classifier
	ladder     *cascade.Ladder
	logger     *zap.Logger
	newRunID   func() string
}

// New creates an engine with default configuration
func New(lex *lexicon.Lexicon) *Engine {
	return NewWithConfig(DefaultConfig(), lex)
}

// NewWithConfig creates an engine with custom configuration. A nil lexicon
// uses lexicon.Default.
func NewWithConfig(config Config, lex *lexicon.Lexicon) *Engine {
	if lex == nil {
		lex = lexicon.Default()
	}
	classifier := classify.NewWithConfig(lex, config.Classifier)
	return &Engine{
		config:     config,
		lex:        lex,
		classifier: classifier,
		ladder:     cascade.NewLadder(config.Cascade, classifier),
		logger:     zap.NewNop(),
		newRunID: func() string {
			return uuid.NewString()[:8]
		},
	}
}

// SetLogger sets the logger used for strategy progress
func (e *Engine) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.logger = logger
	e.ladder.SetLogger(logger)
}

// SetRunIDFunc replaces the generator of per-parse run identifiers
func (e *Engine) SetRunIDFunc(fn func() string) {
	if fn != nil {
		e.newRunID = fn
	}
}

// Config returns the engine's configuration
func (e *Engine) Config() Config {
	return e.config
}

// Lexicon returns the engine's lookup tables
func (e *Engine) Lexicon() *lexicon.Lexicon {
	return e.lex
}

// Parse reconstructs the records of a document given as per-page fragments
// in page order. It never fails and never returns an empty list.
func (e *Engine) Parse(pages [][]text.Fragment) *Result {
	result := &Result{
		RunID:  e.newRunID(),
		States: []State{NotStarted},
		Pages:  len(pages),
	}

	cleaned := make([][]text.Fragment, len(pages))
	for i, p := range pages {
		cleaned[i] = text.Clean(p)
	}

	var seq int
	ids := func(c model.Candidate) string {
		seq++
		return fmt.Sprintf("%s-%d-%s-%d", c.Source, c.Priority, result.RunID, seq)
	}

	if !e.config.SkipAdvanced {
		result.States = append(result.States, AdvancedMode)
		asm := assemble.NewWithConfig(e.lex, e.config.Assembler, ids)
		e.runAdvanced(cleaned, asm)
		if asm.Len() > 0 {
			return e.finish(result, AdvancedMode, asm.Options())
		}
		e.logger.Debug("advanced mode found no options, trying cascade")
	}

	result.States = append(result.States, CascadeMode)
	asm := assemble.NewWithConfig(e.lex, e.config.Assembler, ids)
	e.runCascade(cleaned, asm)
	if asm.Len() > 0 {
		return e.finish(result, CascadeMode, asm.Options())
	}

	e.logger.Warn("no options recognised, emitting placeholder",
		zap.Int("pages", len(pages)),
		zap.String("run", result.RunID))
	result.States = append(result.States, Placeholder)
	placeholder := assemble.Placeholder(e.config.Placeholder, e.lex,
		fmt.Sprintf("%s-1-%s", model.SourcePlaceholder, result.RunID))
	return e.finish(result, Placeholder, []model.ParsedOption{placeholder})
}

func (e *Engine) finish(result *Result, mode State, options []model.ParsedOption) *Result {
	result.Mode = mode
	result.Options = options
	result.States = append(result.States, Done)
	e.logger.Debug("parse finished",
		zap.String("mode", mode.String()),
		zap.Int("options", len(options)),
		zap.String("run", result.RunID))
	return result
}

func (e *Engine) runAdvanced(pages [][]text.Fragment, asm *assemble.Assembler) {
	grouper := layout.NewRowGrouperWithConfig(e.config.AdvancedRows)
	walker := newWalker(e.config.Advanced, e.classifier, e.lex)

	for i, fragments := range pages {
		rows := grouper.Group(fragments)
		found := 0
		for _, c := range walker.Walk(layout.Texts(rows)) {
			if asm.Offer(c) {
				found++
			}
		}
		e.logger.Debug("advanced page walked",
			zap.Int("page", i),
			zap.Int("rows", len(rows)),
			zap.Int("found", found))
	}
}

func (e *Engine) runCascade(pages [][]text.Fragment, asm *assemble.Assembler) {
	grouper := layout.NewRowGrouperWithConfig(e.config.BasicRows)

	for i, fragments := range pages {
		rows := grouper.Group(fragments)
		n := e.ladder.Run(cascade.NewPage(i, rows), asm)
		e.logger.Debug("cascade page scanned",
			zap.Int("page", i),
			zap.Int("rows", len(rows)),
			zap.Int("found", n))
	}
}
