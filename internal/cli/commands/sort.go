package commands

import (
	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/sorter"
)

// NewSortCmd creates the sort command.
func NewSortCmd() *cobra.Command {
	var (
		column string
		desc   bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "sort <file>",
		Short: "Sort rows by a column",
		Long: `Sort rows by a column, referenced by header name or 1-based index.
Number columns compare numerically; cells that fail to parse sort before
every numeric value. Text columns compare by byte order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			col, err := resolveColumn(s.Table(), column)
			if err != nil {
				return err
			}
			dir := sorter.Ascending
			if desc {
				dir = sorter.Descending
			}
			if err := s.Sort(cmd.Context(), col, dir); err != nil {
				return err
			}
			return renderVisible(cmd.OutOrStdout(), s, cfg.Output, limit, cfg.DelimiterRune())
		},
	}

	cmd.Flags().StringVarP(&column, "column", "c", "", "column to sort by (name or 1-based index)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().IntVarP(&limit, "limit", "n", -1, "limit output rows (-1 = all)")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}
