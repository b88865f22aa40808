package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gridline-labs/gridline/internal/export"
	"github.com/gridline-labs/gridline/internal/session"
	tbl "github.com/gridline-labs/gridline/internal/table"
)

// renderVisible writes the session's visible rows in the requested format.
// limit caps the row count; limit < 0 means unlimited.
func renderVisible(w io.Writer, s *session.Session, format string, limit int, delimiter rune) error {
	t := s.Table()
	view := s.View()

	switch format {
	case "json":
		if limit < 0 {
			return export.WriteJSON(w, t, view, true)
		}
		return export.WriteJSON(w, t, limitedView(t, view, limit), true)
	case "csv":
		if limit < 0 {
			return export.WriteCSV(w, t, view, delimiter)
		}
		return export.WriteCSV(w, t, limitedView(t, view, limit), delimiter)
	case "", "table":
		return renderPretty(w, t, view, limit)
	}
	return fmt.Errorf("unknown output format %q (want table, json, or csv)", format)
}

// limitedView truncates a view to its first limit indices.
func limitedView(t *tbl.Table, view *tbl.View, limit int) *tbl.View {
	indices := make([]int, 0, limit)
	for idx := range view.Indices(t.RowCount()) {
		if len(indices) == limit {
			break
		}
		indices = append(indices, idx)
	}
	return &tbl.View{Filtered: indices}
}

func renderPretty(w io.Writer, t *tbl.Table, view *tbl.View, limit int) error {
	pt := table.NewWriter()
	pt.SetOutputMirror(w)
	pt.SetStyle(table.StyleLight)

	headers := export.Headers(t)
	headerRow := make(table.Row, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	pt.AppendHeader(headerRow)

	shown := 0
	for row := range export.VisibleRows(t, view) {
		if limit >= 0 && shown == limit {
			break
		}
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		pt.AppendRow(r)
		shown++
	}
	pt.Render()

	total := view.VisibleCount(t.RowCount())
	if limit >= 0 && total > shown {
		_, _ = fmt.Fprintf(w, "(%d of %d rows)\n", shown, total)
	} else {
		_, _ = fmt.Fprintf(w, "(%d rows)\n", total)
	}
	return nil
}
