package engine

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/optionslip/classify"
	"github.com/tsawler/optionslip/lexicon"
	"github.com/tsawler/optionslip/model"
)

var loneIntegerRe = regexp.MustCompile(`^\d+$`)

// AdvancedConfig holds the row length thresholds used by advanced mode
type AdvancedConfig struct {
	// NameMinLength is the length a row must exceed to be taken as the
	// college name (default: 20)
	NameMinLength int

	// AddressMinLength is the length a row must exceed to extend the
	// college address (default: 10)
	AddressMinLength int
}

// DefaultAdvancedConfig returns sensible default configuration
func DefaultAdvancedConfig() AdvancedConfig {
	return AdvancedConfig{
		NameMinLength:    20,
		AddressMinLength: 10,
	}
}

// building is the record under construction: either none is open, or rec
// is being filled from the rows that follow its option number.
type building struct {
	open bool
	rec  model.Candidate
}

// walker folds the rows of a page into records.
type walker struct {
	config     AdvancedConfig
	classifier *classify.Classifier
	lex        *lexicon.Lexicon
}

func newWalker(config AdvancedConfig, classifier *classify.Classifier, lex *lexicon.Lexicon) *walker {
	return &walker{config: config, classifier: classifier, lex: lex}
}

// Walk returns the records found in rows, in row order.
func (w *walker) Walk(rows []string) []model.Candidate {
	var out []model.Candidate
	state := building{}

	for _, row := range rows {
		var done *model.Candidate
		state, done = w.step(state, row)
		if done != nil {
			out = append(out, *done)
		}
	}
	if done := finalize(state); done != nil {
		out = append(out, *done)
	}

	return out
}

// step consumes one row. It returns the next state and, when the row closes
// a complete record, that record.
func (w *walker) step(state building, row string) (building, *model.Candidate) {
	row = strings.TrimSpace(row)
	if row == "" {
		return state, nil
	}

	if loneIntegerRe.MatchString(row) {
		done := finalize(state)
		priority, _ := strconv.Atoi(row)
		return building{
			open: true,
			rec:  model.Candidate{Priority: priority, Source: model.SourceAdvanced},
		}, done
	}

	if !state.open {
		return state, nil
	}
	rec := state.rec

	if code, ok := model.FindCompoundCode(row); ok {
		if rec.Code == "" {
			rec.Code = code
			if name, ok := w.lex.BranchName(code.Branch()); ok {
				rec.CourseName = name
			}
		}
		return building{open: true, rec: rec}, nil
	}

	if w.classifier.IsFeeText(row) {
		if rec.Fee == "" {
			rec.Fee = row
		}
		return building{open: true, rec: rec}, nil
	}

	length := utf8.RuneCountInString(row)
	switch {
	case rec.CollegeName == "" && length > w.config.NameMinLength:
		rec.CollegeName = row
		rec.CollegeAddress = row
		rec.Location = w.classifier.ExtractLocation(row)
	case rec.CollegeName != "" && length > w.config.AddressMinLength:
		rec.CollegeAddress += " " + row
	}

	return building{open: true, rec: rec}, nil
}

// finalize returns the open record if it has both codes.
func finalize(state building) *model.Candidate {
	if !state.open || !state.rec.Complete() {
		return nil
	}
	rec := state.rec
	return &rec
}
