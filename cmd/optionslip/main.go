package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tsawler/optionslip/config"
	"github.com/tsawler/optionslip/lexicon"
)

var (
	// Global flags
	verbose bool
	cfgFile string
	output  string

	// Set by PersistentPreRunE
	logger   *zap.Logger
	settings *config.Config
	lex      *lexicon.Lexicon
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "optionslip",
	Short: "Reconstruct option entry records from option slip PDFs",
	Long: `optionslip reads option entry slip PDFs and recovers the ordered list of
options (priority, college code, branch code, names, fee and location).

It tries a single-pass reading of the slip first, then a cascade of
increasingly permissive patterns, and falls back to a placeholder record
so the result is never empty.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// config init must work without a valid config
		if cmd.HasParent() && cmd.Parent().Name() == "config" && cmd.Name() == "init" {
			return nil
		}
		return loadSettings(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./optionslip.yaml or $HOME/.optionslip/optionslip.yaml)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: json or yaml (overrides config)")

	rootCmd.AddCommand(parseCmd, rowsCmd, watchCmd, configCmd, versionCmd)
}

// loadSettings reads the config file and lexicon into the globals.
func loadSettings(cmd *cobra.Command) error {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return err
	}
	settings = mgr.Get()
	if output != "" {
		settings.Output = output
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	lex, err = settings.LoadLexicon()
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		zap.String("file", mgr.File()),
		zap.String("output", settings.Output))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
