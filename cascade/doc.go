// Package cascade locates option-number and compound-code pairs on a page
// with three strategies of increasing recall and decreasing precision.
//
// # Tiers
//
//   - [RowAnchor] matches "<n> <code>" at the start of a grouped row and reads
//     the following rows for the course, college and fee.
//   - [PageScan] matches "<n>[.)] <code>" anywhere in the page text and reads
//     a context window around each match.
//   - [NumberSweep] treats every bare integer in range as a possible priority
//     and looks for a compound code near it.
//
// A [Ladder] runs [Tier] values in order. Each tier after the first runs only
// while the page has fewer accepted records than the tier's coverage
// threshold. Candidates go to a [Sink], normally an assemble.Assembler, which
// keeps the first record offered for each priority, so a later tier can never
// replace an earlier one.
//
// # Tuning
//
// The coverage thresholds and window sizes in [Config] are heuristics. They
// are exposed so they can be tuned per document family; nothing else in the
// package depends on their particular values.
package cascade
