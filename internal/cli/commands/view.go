package commands

import (
	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/tui"
)

// NewViewCmd creates the interactive viewer command.
func NewViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <file>",
		Short: "Browse a file in the interactive viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunView(cmd, args[0])
		},
	}
}

// RunView loads path into a session and opens the terminal viewer. The
// root command delegates here when invoked with a bare file argument.
func RunView(cmd *cobra.Command, path string) error {
	s, err := openSession(cmd, path)
	if err != nil {
		return err
	}
	return tui.Run(s, path)
}
