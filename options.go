package optionslip

import (
	"go.uber.org/zap"

	"github.com/tsawler/optionslip/engine"
	"github.com/tsawler/optionslip/lexicon"
	"github.com/tsawler/optionslip/reader"
)

// ExtractOptions holds configuration for an Extractor.
type ExtractOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	engine  engine.Config
	reader  reader.Config
	lexicon *lexicon.Lexicon
	logger  *zap.Logger
	runID   func() string
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:   nil, // nil means all pages
		engine:  engine.DefaultConfig(),
		reader:  reader.DefaultConfig(),
		lexicon: lexicon.Default(),
		logger:  zap.NewNop(),
	}
}

// clone creates a copy of ExtractOptions. The lexicon is immutable and
// shared.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	return newOpts
}
