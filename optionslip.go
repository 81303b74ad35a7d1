// Package optionslip provides a fluent API for reconstructing option entry
// records from option slip PDFs.
//
// Basic usage:
//
//	options, warnings, err := optionslip.Open("slip.pdf").Options()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", optionslip.FormatWarnings(warnings))
//	}
//
// With options:
//
//	options, _, err := optionslip.Open("slip.pdf").
//	    Pages(1, 2).
//	    WithLexicon(lex).
//	    WithLogger(logger).
//	    Options()
//
// Fragments that were extracted elsewhere can be parsed directly:
//
//	options, _, err := optionslip.FromFragments(pages).Options()
//
// For advanced use cases, the lower-level reader, layout and engine packages
// are also available.
package optionslip

import (
	"github.com/tsawler/optionslip/reader"
	"github.com/tsawler/optionslip/text"
)

// Open opens a PDF file and returns an Extractor for fluent configuration.
// The file is opened lazily by the first terminal operation, which also
// closes it.
//
// Example:
//
//	options, warnings, err := optionslip.Open("slip.pdf").Options()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes creates an Extractor over an in-memory PDF, such as an upload.
//
// Example:
//
//	options, _, err := optionslip.FromBytes(body).Options()
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		options: defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened reader.Reader.
// Note: The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := reader.Open("slip.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	options, warnings, err := optionslip.FromReader(r).Options()
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:       r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// FromFragments creates an Extractor over fragments that were already
// extracted, one slice per page in page order.
//
// Example:
//
//	options, _, err := optionslip.FromFragments(pages).Options()
func FromFragments(pages [][]text.Fragment) *Extractor {
	copied := make([][]text.Fragment, len(pages))
	for i, p := range pages {
		copied[i] = append([]text.Fragment(nil), p...)
	}
	return &Extractor{
		fragments: copied,
		static:    true,
		options:   defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := optionslip.Must(optionslip.Open("slip.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustOptions is a helper that wraps a call to Options() or Fragments() and
// panics if the error is non-nil. It discards warnings and returns just the
// value.
//
// Example:
//
//	options := optionslip.MustOptions(optionslip.Open("slip.pdf").Options())
func MustOptions[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
