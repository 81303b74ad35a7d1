package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/optionslip/text"
)

// ErrDecode is returned when a document cannot be read at all.
var ErrDecode = errors.New("pdf decode failed")

// Config holds configuration for the reader
type Config struct {
	// MergeGlyphs rebuilds words from the decoder's per-glyph output
	// (default: true)
	MergeGlyphs bool

	// Merge holds the word-building thresholds
	Merge text.MergeConfig
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		MergeGlyphs: true,
		Merge:       text.DefaultMergeConfig(),
	}
}

// PageError records a page that could not be decoded.
type PageError struct {
	Page int
	Err  error
}

// Error implements the error interface
func (e PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page+1, e.Err)
}

// Unwrap returns the underlying error
func (e PageError) Unwrap() error {
	return e.Err
}

// Reader represents an open PDF document
type Reader struct {
	file   *os.File
	doc    *pdf.Reader
	config Config
}

// Open opens a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	return OpenWithConfig(filename, DefaultConfig())
}

// OpenWithConfig opens a PDF file with custom configuration
func OpenWithConfig(filename string, config Config) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	r, err := NewReaderWithConfig(file, info.Size(), config)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// NewReader creates a reader over size bytes of ra
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	return NewReaderWithConfig(ra, size, DefaultConfig())
}

// NewReaderWithConfig creates a reader with custom configuration
func NewReaderWithConfig(ra io.ReaderAt, size int64, config Config) (r *Reader, err error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDecode)
	}

	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("%w: %v", ErrDecode, p)
		}
	}()

	doc, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &Reader{doc: doc, config: config}, nil
}

// Close closes the underlying file when the reader owns one
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// PageCount returns the number of pages in the document
func (r *Reader) PageCount() (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			n, err = 0, fmt.Errorf("%w: page tree: %v", ErrDecode, p)
		}
	}()
	return r.doc.NumPage(), nil
}

// PageFragments returns the words of the page at the given 0-based index,
// in content stream order.
func (r *Reader) PageFragments(index int) (fragments []text.Fragment, err error) {
	count, err := r.PageCount()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= count {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, count)
	}

	defer func() {
		if p := recover(); p != nil {
			fragments, err = nil, fmt.Errorf("content stream: %v", p)
		}
	}()

	page := r.doc.Page(index + 1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d has no page object", index+1)
	}

	glyphs := convert(page.Content().Text)
	if !r.config.MergeGlyphs {
		return glyphs, nil
	}
	return text.MergeGlyphs(glyphs, r.config.Merge), nil
}

// ReadPages decodes the pages at the given 0-based indices, or every page
// when indices is empty. Pages that fail to decode are left empty and
// reported in skipped. It returns an error wrapping ErrDecode if no page
// could be decoded.
func (r *Reader) ReadPages(indices ...int) (pages [][]text.Fragment, skipped []PageError, err error) {
	count, err := r.PageCount()
	if err != nil {
		return nil, nil, err
	}

	if len(indices) == 0 {
		indices = make([]int, count)
		for i := range indices {
			indices[i] = i
		}
	}
	if len(indices) == 0 {
		return nil, nil, fmt.Errorf("%w: document has no pages", ErrDecode)
	}

	pages = make([][]text.Fragment, len(indices))
	for i, index := range indices {
		fragments, err := r.PageFragments(index)
		if err != nil {
			skipped = append(skipped, PageError{Page: index, Err: err})
			continue
		}
		pages[i] = fragments
	}

	if len(skipped) == len(indices) {
		return nil, skipped, fmt.Errorf("%w: %v", ErrDecode, skipped[0])
	}
	return pages, skipped, nil
}

func convert(glyphs []pdf.Text) []text.Fragment {
	out := make([]text.Fragment, 0, len(glyphs))
	for _, g := range glyphs {
		out = append(out, text.Fragment{
			Text:     g.S,
			X:        g.X,
			Y:        g.Y,
			Width:    g.W,
			Height:   g.FontSize,
			FontName: g.Font,
			FontSize: g.FontSize,
		})
	}
	return out
}
