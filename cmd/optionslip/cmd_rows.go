package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tsawler/optionslip"
	"github.com/tsawler/optionslip/layout"
)

var rowsAdvanced bool

// rowsCmd dumps the grouped rows of a slip
var rowsCmd = &cobra.Command{
	Use:   "rows FILE",
	Short: "Print the visual rows the engine reads from a slip",
	Long: `Groups each page's text into rows and prints them top to bottom.
Useful for tuning the row tolerances and the lexicon.`,
	Args: cobra.ExactArgs(1),
	RunE: runRows,
}

func init() {
	rowsCmd.Flags().BoolVarP(&rowsAdvanced, "advanced", "a", false, "Use the advanced mode tolerance")
	rowsCmd.Flags().IntSliceVarP(&parsePages, "pages", "p", nil, "Pages to print (1-indexed, default all)")
}

// pageRows is the rendered form of one page's rows
type pageRows struct {
	Page int       `json:"page" yaml:"page"`
	Rows []rowLine `json:"rows" yaml:"rows"`
}

type rowLine struct {
	Y    float64 `json:"y" yaml:"y"`
	Text string  `json:"text" yaml:"text"`
}

func runRows(cmd *cobra.Command, args []string) error {
	ext := optionslip.Open(args[0]).
		WithConfig(settings.EngineConfig()).
		WithLogger(logger)
	if len(parsePages) > 0 {
		ext = ext.Pages(parsePages...)
	}

	var (
		pages    [][]layout.Row
		warnings []optionslip.Warning
		err      error
	)
	if rowsAdvanced {
		pages, warnings, err = ext.AdvancedRows()
	} else {
		pages, warnings, err = ext.Rows()
	}
	if err != nil {
		return err
	}
	if len(warnings) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warnings:", optionslip.FormatWarnings(warnings))
	}

	numbers := slices.Clone(parsePages)
	slices.Sort(numbers)
	numbers = slices.Compact(numbers)

	out := make([]pageRows, len(pages))
	for i, rows := range pages {
		out[i].Page = i + 1
		if i < len(numbers) {
			out[i].Page = numbers[i]
		}
		out[i].Rows = make([]rowLine, len(rows))
		for j, r := range rows {
			out[i].Rows[j] = rowLine{Y: r.Y, Text: r.Text()}
		}
	}
	return render(cmd.OutOrStdout(), settings.Output, out)
}
