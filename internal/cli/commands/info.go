package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/export"
)

// NewInfoCmd creates the info command.
func NewInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show table shape and inferred column types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			t := s.Table()
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "File:    %s\n", args[0])
			fmt.Fprintf(w, "Rows:    %d\n", t.RowCount())
			fmt.Fprintf(w, "Columns: %d\n", t.ColumnCount())
			fmt.Fprintf(w, "Headers: %v\n\n", t.HasHeaders())

			pt := table.NewWriter()
			pt.SetOutputMirror(w)
			pt.SetStyle(table.StyleLight)
			pt.AppendHeader(table.Row{"#", "Column", "Type"})
			headers := export.Headers(t)
			for i, typ := range t.Types() {
				pt.AppendRow(table.Row{i + 1, headers[i], typ.String()})
			}
			pt.Render()
			return nil
		},
	}
}
