package commands

import (
	"github.com/spf13/cobra"
)

// NewHeadCmd creates the head command.
func NewHeadCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "head <file>",
		Short: "Show the first rows of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			return renderVisible(cmd.OutOrStdout(), s, cfg.Output, count, cfg.DelimiterRune())
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of rows to show")
	return cmd
}
