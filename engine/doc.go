// Package engine reconstructs option records from the positioned text of
// an option entry slip.
//
// An [Engine] runs up to three strategies over the whole document and stops
// at the first that yields records:
//
//  1. Advanced mode walks rows grouped at the loose tolerance. A row holding
//     only an integer opens a record; the following rows fill its code, fee
//     and college until the next such row.
//  2. The cascade ladder (see package cascade) scans rows grouped at the
//     strict tolerance.
//  3. A single placeholder record is emitted so callers never receive an
//     empty list.
//
// Basic usage:
//
//	eng := engine.New(lexicon.Default())
//	result := eng.Parse(pages)
//	for _, opt := range result.Options {
//	    fmt.Println(opt.Priority, opt.CollegeCourse)
//	}
//
// A parse is synchronous and deterministic apart from record IDs, which
// carry a per-parse run identifier.
package engine
