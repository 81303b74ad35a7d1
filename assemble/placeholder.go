package assemble

import (
	"github.com/tsawler/optionslip/lexicon"
	"github.com/tsawler/optionslip/model"
)

// PlaceholderConfig describes the synthetic record emitted when nothing
// could be recovered from a document.
type PlaceholderConfig struct {
	CollegeCode string
	BranchCode  string
	CollegeName string
	BranchName  string
}

// DefaultPlaceholderConfig returns values a reviewer will recognise as
// "not parsed".
func DefaultPlaceholderConfig() PlaceholderConfig {
	return PlaceholderConfig{
		CollegeCode: "X000",
		BranchCode:  "XX",
		CollegeName: "No options recognised - please check the PDF",
		BranchName:  "Unknown Branch",
	}
}

// Placeholder builds the single fallback record.
func Placeholder(config PlaceholderConfig, lex *lexicon.Lexicon, id string) model.ParsedOption {
	if lex == nil {
		lex = lexicon.Default()
	}
	code := model.CompoundCode(config.CollegeCode + config.BranchCode)
	if !code.Valid() {
		def := DefaultPlaceholderConfig()
		config.CollegeCode, config.BranchCode = def.CollegeCode, def.BranchCode
		code = model.CompoundCode(config.CollegeCode + config.BranchCode)
	}

	opt := Build(model.Candidate{
		Priority:    1,
		Code:        code,
		CourseName:  config.BranchName,
		CollegeName: config.CollegeName,
		Source:      model.SourcePlaceholder,
	}, lex)
	opt.ID = id
	opt.Placeholder = true
	return opt
}
