package optionslip

import (
	"bytes"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/tsawler/optionslip/engine"
	"github.com/tsawler/optionslip/layout"
	"github.com/tsawler/optionslip/lexicon"
	"github.com/tsawler/optionslip/model"
	"github.com/tsawler/optionslip/reader"
	"github.com/tsawler/optionslip/text"
)

// Extractor provides a fluent interface for parsing option slips.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source: a file name, in-memory bytes, an open reader or fragments
	filename  string
	data      []byte
	fragments [][]text.Fragment
	static    bool

	reader *reader.Reader

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		data:         e.data,
		fragments:    e.fragments,
		static:       e.static,
		reader:       e.reader,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
		err:          e.err,
	}
}

// ensureReader opens the reader if not already open.
func (e *Extractor) ensureReader() error {
	if e.readerOpened || e.static {
		return nil
	}

	var (
		r   *reader.Reader
		err error
	)
	switch {
	case e.data != nil:
		r, err = reader.NewReaderWithConfig(bytes.NewReader(e.data), int64(len(e.data)), e.options.reader)
	case e.filename != "":
		r, err = reader.OpenWithConfig(e.filename, e.options.reader)
	default:
		return fmt.Errorf("no filename specified")
	}
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}

	e.reader = r
	e.ownsReader = true
	e.readerOpened = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		e.readerOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to parse (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	options, _, err := optionslip.Open("slip.pdf").Pages(1, 2).Options()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to parse (1-indexed, inclusive).
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// WithConfig replaces the engine configuration.
//
// Example:
//
//	config := engine.DefaultConfig()
//	config.Cascade.SweepMax = 300
//	options, _, err := optionslip.Open("slip.pdf").WithConfig(config).Options()
func (e *Extractor) WithConfig(config engine.Config) *Extractor {
	newExt := e.clone()
	newExt.options.engine = config
	return newExt
}

// WithReaderConfig replaces the PDF reader configuration. It has no effect
// on an Extractor created with FromReader or FromFragments.
func (e *Extractor) WithReaderConfig(config reader.Config) *Extractor {
	newExt := e.clone()
	newExt.options.reader = config
	return newExt
}

// WithLexicon replaces the lookup tables. A nil lexicon records an error
// returned by the terminal operation.
func (e *Extractor) WithLexicon(lex *lexicon.Lexicon) *Extractor {
	newExt := e.clone()
	if lex == nil {
		newExt.err = fmt.Errorf("nil lexicon")
		return newExt
	}
	newExt.options.lexicon = lex
	return newExt
}

// WithLogger sets the logger used for strategy progress.
func (e *Extractor) WithLogger(logger *zap.Logger) *Extractor {
	newExt := e.clone()
	if logger == nil {
		logger = zap.NewNop()
	}
	newExt.options.logger = logger
	return newExt
}

// WithRunID fixes the run identifier embedded in record IDs, which makes
// IDs reproducible across runs.
func (e *Extractor) WithRunID(id string) *Extractor {
	newExt := e.clone()
	newExt.options.runID = func() string { return id }
	return newExt
}

// SkipAdvanced goes straight to the pattern cascade.
func (e *Extractor) SkipAdvanced() *Extractor {
	newExt := e.clone()
	newExt.options.engine.SkipAdvanced = true
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Options parses the configured pages and returns the reconstructed records
// ordered by priority. The list is never empty: when nothing is recognised
// it holds a single placeholder record and a WarnNoOptions warning.
//
// The only error is a document that cannot be read; it wraps
// reader.ErrDecode.
//
// Example:
//
//	options, warnings, err := optionslip.Open("slip.pdf").Options()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", optionslip.FormatWarnings(warnings))
//	}
func (e *Extractor) Options() ([]model.ParsedOption, []Warning, error) {
	result, warnings, err := e.Result()
	if err != nil {
		return nil, nil, err
	}
	return result.Options, warnings, nil
}

// Result is like Options but also reports which strategy produced the
// records and the run identifier.
func (e *Extractor) Result() (*engine.Result, []Warning, error) {
	pages, warnings, err := e.collectPages()
	if err != nil {
		return nil, nil, err
	}

	eng := engine.NewWithConfig(e.options.engine, e.options.lexicon)
	eng.SetLogger(e.options.logger)
	eng.SetRunIDFunc(e.options.runID)

	result := eng.Parse(pages)

	switch result.Mode {
	case engine.CascadeMode:
		if !e.options.engine.SkipAdvanced {
			warnings = append(warnings, Warning{Code: WarnCascadeFallback, Message: "advanced mode found no options; records come from the pattern cascade"})
		}
	case engine.Placeholder:
		warnings = append(warnings, Warning{Code: WarnNoOptions, Message: "no options recognised; returning a placeholder record"})
	}

	return result, warnings, nil
}

// Fragments returns the cleaned text fragments of each configured page.
//
// Example:
//
//	pages, warnings, err := optionslip.Open("slip.pdf").Pages(1).Fragments()
func (e *Extractor) Fragments() ([][]text.Fragment, []Warning, error) {
	pages, warnings, err := e.collectPages()
	if err != nil {
		return nil, nil, err
	}

	out := make([][]text.Fragment, len(pages))
	for i, p := range pages {
		out[i] = text.Clean(p)
	}
	return out, warnings, nil
}

// Rows groups each configured page into rows at the cascade tolerance.
func (e *Extractor) Rows() ([][]layout.Row, []Warning, error) {
	return e.rows(e.options.engine.BasicRows)
}

// AdvancedRows groups each configured page into rows at the advanced mode
// tolerance.
func (e *Extractor) AdvancedRows() ([][]layout.Row, []Warning, error) {
	return e.rows(e.options.engine.AdvancedRows)
}

// PageCount returns the total number of pages in the document.
// Note: This does NOT close the reader, allowing further operations.
//
// Example:
//
//	ext := optionslip.Open("slip.pdf")
//	defer ext.Close()
//	count, err := ext.PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.static {
		return len(e.fragments), nil
	}
	if err := e.ensureReader(); err != nil {
		return 0, err
	}
	return e.reader.PageCount()
}

// ============================================================================
// Internal helpers
// ============================================================================

func (e *Extractor) rows(config layout.RowConfig) ([][]layout.Row, []Warning, error) {
	pages, warnings, err := e.Fragments()
	if err != nil {
		return nil, nil, err
	}

	grouper := layout.NewRowGrouperWithConfig(config)
	out := make([][]layout.Row, len(pages))
	for i, p := range pages {
		out[i] = grouper.Group(p)
	}
	return out, warnings, nil
}

// collectPages returns the raw fragments of the selected pages and closes
// the reader if the Extractor opened it. Warnings belong to this call only.
func (e *Extractor) collectPages() ([][]text.Fragment, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	count, err := e.PageCount()
	if err != nil {
		return nil, nil, err
	}

	indices, err := e.resolvePages(count)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning

	if e.static {
		pages := make([][]text.Fragment, len(indices))
		for i, index := range indices {
			pages[i] = e.fragments[index]
		}
		return pages, warnings, nil
	}

	pages, skipped, err := e.reader.ReadPages(indices...)
	for _, s := range skipped {
		warnings = append(warnings, Warning{Code: WarnPageSkipped, Message: s.Err.Error(), Page: s.Page + 1})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return pages, warnings, nil
}

// resolvePages converts 1-indexed page numbers to 0-indexed and validates them.
// If no pages specified, returns all pages.
func (e *Extractor) resolvePages(pageCount int) ([]int, error) {
	if len(e.options.pages) == 0 {
		pageIndices := make([]int, pageCount)
		for i := 0; i < pageCount; i++ {
			pageIndices[i] = i
		}
		return pageIndices, nil
	}

	seen := make(map[int]bool)
	var pageIndices []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		zeroIndexed := p - 1
		if !seen[zeroIndexed] {
			seen[zeroIndexed] = true
			pageIndices = append(pageIndices, zeroIndexed)
		}
	}

	// Pages are always parsed in document order
	sort.Ints(pageIndices)
	return pageIndices, nil
}

