package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/optionslip"
)

var parsePages []int

// parseCmd parses one or more slips
var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse option slips and print the recovered options",
	Long: `Parses each PDF and prints one document per file with the recovered
options, the strategy that produced them and any warnings.

Files are parsed concurrently (see the workers setting); each file is
still parsed on a single goroutine, so results are deterministic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().IntSliceVarP(&parsePages, "pages", "p", nil, "Pages to parse (1-indexed, default all)")
}

func runParse(cmd *cobra.Command, args []string) error {
	docs, err := parseFiles(cmd.Context(), args)
	if err != nil {
		return err
	}

	if err := render(cmd.OutOrStdout(), settings.Output, docs); err != nil {
		return err
	}

	failed := 0
	for _, d := range docs {
		if d.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents could not be read", failed, len(docs))
	}
	return nil
}

// parseFiles parses files with at most settings.Workers in flight. A file
// that cannot be read is reported in its document's Error; only
// cancellation aborts the batch.
func parseFiles(ctx context.Context, files []string) ([]document, error) {
	docs := make([]document, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.Workers)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs[i] = parseFile(file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}
	return docs, nil
}

// parseFile parses one slip with the loaded settings.
func parseFile(file string) document {
	log := logger.With(zap.String("file", file))

	ext := optionslip.Open(file).
		WithConfig(settings.EngineConfig()).
		WithLexicon(lex).
		WithLogger(log)
	if len(parsePages) > 0 {
		ext = ext.Pages(parsePages...)
	}

	result, warnings, err := ext.Result()
	if err != nil {
		log.Error("failed to parse", zap.Error(err))
		return document{File: file, Error: err.Error()}
	}

	if len(warnings) > 0 {
		log.Warn("parsed with warnings", zap.String("warnings", optionslip.FormatWarnings(warnings)))
	}
	log.Info("parsed",
		zap.String("mode", result.Mode.String()),
		zap.Int("options", len(result.Options)))
	return newDocument(file, result, warnings)
}
