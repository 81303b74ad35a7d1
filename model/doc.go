// Package model defines the records produced by option slip reconstruction.
//
// # Records
//
// A [ParsedOption] is one ranked preference entry recovered from an option
// entry slip. A [Candidate] is the partial form a recovery strategy produces
// before the assembler applies defaults and de-duplicates by priority.
//
// # Compound Codes
//
// Every entry is keyed by a [CompoundCode] such as "E099AI": a four character
// college code ("E099") followed by a branch code ("AI").
//
//	code, ok := model.FindCompoundCode("1 E099AI Artificial Intelligence")
//	college, branch := code.College(), code.Branch()
package model
