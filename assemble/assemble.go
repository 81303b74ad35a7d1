// Package assemble merges candidate records from every recovery strategy
// into de-duplicated, fully defaulted option records.
//
// Records are keyed by priority and the first writer wins: a candidate for a
// priority that is already claimed is discarded, whichever strategy or page
// it came from.
package assemble

import (
	"fmt"
	"sort"

	"github.com/tsawler/optionslip/lexicon"
	"github.com/tsawler/optionslip/model"
)

// DefaultFee is the course fee recorded when none was found.
const DefaultFee = "Not specified"

// IDFunc assigns the identifier of an accepted record.
type IDFunc func(c model.Candidate) string

// Config holds configuration for the assembler
type Config struct {
	// BackfillBranchNames replaces placeholder branch names with the
	// lexicon's dictionary entry when finalizing (default: true)
	BackfillBranchNames bool
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{BackfillBranchNames: true}
}

// Assembler accumulates accepted records for one document.
type Assembler struct {
	config  Config
	lex     *lexicon.Lexicon
	ids     IDFunc
	claimed map[int]bool
	options []model.ParsedOption
}

// New creates an assembler with default configuration
func New(lex *lexicon.Lexicon) *Assembler {
	return NewWithConfig(lex, DefaultConfig(), nil)
}

// NewWithConfig creates an assembler with custom configuration. A nil ids
// function names records "<source>-<priority>".
func NewWithConfig(lex *lexicon.Lexicon, config Config, ids IDFunc) *Assembler {
	if lex == nil {
		lex = lexicon.Default()
	}
	if ids == nil {
		ids = func(c model.Candidate) string {
			return fmt.Sprintf("%s-%d", c.Source, c.Priority)
		}
	}
	return &Assembler{
		config:  config,
		lex:     lex,
		ids:     ids,
		claimed: make(map[int]bool),
	}
}

// Claimed reports whether a record for priority has been accepted.
func (a *Assembler) Claimed(priority int) bool {
	return a.claimed[priority]
}

// Offer accepts c if it is complete and its priority is unclaimed. It
// reports whether the candidate was accepted.
func (a *Assembler) Offer(c model.Candidate) bool {
	if !c.Complete() || a.claimed[c.Priority] {
		return false
	}
	a.claimed[c.Priority] = true
	opt := Build(c, a.lex)
	opt.ID = a.ids(c)
	a.options = append(a.options, opt)
	return true
}

// Len returns the number of accepted records.
func (a *Assembler) Len() int {
	return len(a.options)
}

// Options returns the accepted records ordered by priority, with branch
// names backfilled from the dictionary when enabled. The assembler may keep
// accepting candidates afterwards.
func (a *Assembler) Options() []model.ParsedOption {
	out := make([]model.ParsedOption, len(a.options))
	copy(out, a.options)
	if a.config.BackfillBranchNames {
		for i := range out {
			BackfillBranchName(&out[i], a.lex)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Merge assembles candidates in order with default configuration.
func Merge(lex *lexicon.Lexicon, candidates []model.Candidate) []model.ParsedOption {
	a := New(lex)
	for _, c := range candidates {
		a.Offer(c)
	}
	return a.Options()
}

// Build converts a candidate into a record, filling every missing field
// with its default. It does not check completeness.
func Build(c model.Candidate, lex *lexicon.Lexicon) model.ParsedOption {
	college, branch := c.Code.College(), c.Code.Branch()

	opt := model.ParsedOption{
		Priority:       c.Priority,
		CollegeCode:    college,
		BranchCode:     branch,
		CollegeName:    c.CollegeName,
		BranchName:     c.CourseName,
		Location:       c.Location,
		CollegeCourse:  college + branch,
		CourseFee:      c.Fee,
		CollegeAddress: c.CollegeAddress,
		Source:         c.Source,
	}
	if opt.CollegeName == "" {
		opt.CollegeName = DefaultCollegeName(college)
	}
	if opt.BranchName == "" {
		opt.BranchName = DefaultBranchName(branch)
	}
	if opt.Location == "" {
		opt.Location = lex.DefaultCity
	}
	if opt.CourseFee == "" {
		opt.CourseFee = DefaultFee
	}
	if opt.CollegeAddress == "" {
		opt.CollegeAddress = opt.CollegeName
	}
	return opt
}

// BackfillBranchName replaces an empty or placeholder branch name with the
// dictionary entry for the record's branch code, if there is one.
func BackfillBranchName(opt *model.ParsedOption, lex *lexicon.Lexicon) {
	if opt.BranchName != "" &&
		opt.BranchName != opt.BranchCode &&
		opt.BranchName != DefaultBranchName(opt.BranchCode) {
		return
	}
	if name, ok := lex.BranchName(opt.BranchCode); ok {
		opt.BranchName = name
	}
}

// DefaultCollegeName is the college name recorded when none was found.
func DefaultCollegeName(collegeCode string) string {
	return collegeCode + " College"
}

// DefaultBranchName is the branch name recorded when none was found.
func DefaultBranchName(branchCode string) string {
	return branchCode + " Engineering"
}
