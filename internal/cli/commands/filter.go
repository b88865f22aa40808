package commands

import (
	"github.com/spf13/cobra"
)

// NewFilterCmd creates the filter command.
func NewFilterCmd() *cobra.Command {
	var (
		wheres   []string
		anyMatch bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "filter <file>",
		Short: "Show rows matching filter conditions",
		Long: `Show rows matching one or more conditions. Each --where takes a
"column op value" expression; operators: eq, ne, contains, not-contains,
starts-with, ends-with, >, <, >=, <=, empty. Ordering operators require a
Number column. Conditions combine with AND unless --any is set.

Examples:
  gridline filter data.csv --where "age > 26"
  gridline filter data.csv --where "age > 100" --where "name contains A" --any`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			set, err := parseFilterSet(s.Table(), wheres, anyMatch)
			if err != nil {
				return err
			}
			if err := s.Filter(cmd.Context(), set); err != nil {
				return err
			}
			return renderVisible(cmd.OutOrStdout(), s, cfg.Output, limit, cfg.DelimiterRune())
		},
	}

	cmd.Flags().StringArrayVarP(&wheres, "where", "w", nil, `condition: "column op value" (repeatable)`)
	cmd.Flags().BoolVar(&anyMatch, "any", false, "match any condition instead of all")
	cmd.Flags().IntVarP(&limit, "limit", "n", -1, "limit output rows (-1 = all)")
	_ = cmd.MarkFlagRequired("where")
	return cmd
}
