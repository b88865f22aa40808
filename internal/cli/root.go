// Package cli provides the command-line interface for gridline.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/cli/commands"
	"github.com/gridline-labs/gridline/internal/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridline [file]",
		Short: "Gridline - Tabular Data Engine",
		Long: `Gridline loads, type-infers, sorts, filters, and edits delimited
text data at scale. Sorting and filtering are index views over the loaded
rows; cell edits are reversible through bounded undo/redo history.

Run with a file argument to open the interactive viewer, or use a
subcommand for one-shot operations.`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(commands.WithConfig(cmd.Context(), cfg))

			if cfg.Verbose {
				if used := config.ConfigFileUsed(); used != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			// Bare file argument opens the viewer.
			return commands.RunView(cmd, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Tabular data engine
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gridline.yaml)")
	rootCmd.PersistentFlags().String("delimiter", "", "field delimiter (default: ,)")
	rootCmd.PersistentFlags().String("header", "", "header handling: auto, present, or absent")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, or csv")
	rootCmd.PersistentFlags().Int("workers", 0, "parallel workers (0 = all CPUs)")
	rootCmd.PersistentFlags().Int("sample-size", 0, "rows sampled for type inference")
	rootCmd.PersistentFlags().Int("history-depth", 0, "undo/redo history depth")
	rootCmd.PersistentFlags().Int("parallel-threshold", 0, "row count above which sort/filter parallelize")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		commands.NewInfoCmd(),
		commands.NewHeadCmd(),
		commands.NewSortCmd(),
		commands.NewFilterCmd(),
		commands.NewConvertCmd(),
		commands.NewEditCmd(),
		commands.NewViewCmd(),
		commands.NewVersionCmd(Version, BuildDate, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
