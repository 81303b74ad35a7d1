package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/optionslip/config"
	"github.com/tsawler/optionslip/lexicon"
)

var initForce bool

// configCmd groups configuration commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage optionslip configuration",
}

// configInitCmd writes a default configuration
var configInitCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Write a default optionslip.yaml and lexicon.yaml",
	Long: `Writes optionslip.yaml and lexicon.yaml with the built-in defaults into DIR
(default: the current directory). Edit the lexicon to add keywords, cities
or branch names.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd.OutOrStdout(), "yaml", settings)
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
	configCmd.AddCommand(configInitCmd, configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, "optionslip.yaml")
	lexiconPath := filepath.Join(dir, "lexicon.yaml")
	for _, p := range []string{configPath, lexiconPath} {
		if _, err := os.Stat(p); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", p)
		}
	}

	if err := config.WriteDefault(configPath, "lexicon.yaml"); err != nil {
		return err
	}

	data, err := lexicon.Default().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(lexiconPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lexicon: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s\n", configPath, lexiconPath)
	return nil
}
