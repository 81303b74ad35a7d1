// Package reader decodes PDF documents into positioned text fragments.
//
// Decoding is delegated to github.com/ledongthuc/pdf. This package adapts its
// per-glyph output into [text.Fragment] words and isolates the rest of the
// module from the decoder's failure modes.
//
// # Opening PDF Files
//
// Use [Open] to open a PDF file for reading:
//
//	r, err := reader.Open("slip.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or use [NewReader] with any io.ReaderAt, such as a bytes.Reader holding an
// uploaded document.
//
// # Page Access
//
// Pages are addressed by 0-based index:
//
//	fragments, err := r.PageFragments(0) // First page
//
// [Reader.ReadPages] decodes several pages at once. A page that fails to
// decode is skipped and reported as a [PageError]; the document only fails
// when no selected page could be decoded.
//
// # Errors
//
// Every fatal failure wraps [ErrDecode]; test for it with errors.Is. The
// underlying decoder panics on some malformed inputs; those panics are
// recovered and reported as errors.
package reader
