package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/export"
)

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	var (
		to      string
		outPath string
		pretty  bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Export a file as CSV or JSON",
		Long: `Export the loaded rows as CSV or JSON. With no sort or filter
applied, CSV output round-trips to identical row content. JSON output is
one object per row, keyed by headers (or ColumnN when absent).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			t, view := s.Table(), s.View()

			switch to {
			case "csv":
				if outPath != "" {
					return export.SaveCSVFile(outPath, t, view, cfg.DelimiterRune())
				}
				return export.WriteCSV(cmd.OutOrStdout(), t, view, cfg.DelimiterRune())
			case "json":
				if outPath != "" {
					return export.SaveJSONFile(outPath, t, view, pretty)
				}
				return export.WriteJSON(cmd.OutOrStdout(), t, view, pretty)
			}
			return fmt.Errorf("unknown target format %q (want csv or json)", to)
		},
	}

	cmd.Flags().StringVar(&to, "to", "json", "target format: csv or json")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
