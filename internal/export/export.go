// Package export writes the visible portion of a table (current sort
// order, current filter) to delimited text or JSON. Byte-level spreadsheet
// writing stays external; writers consume Headers and VisibleRows.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/gridline-labs/gridline/internal/table"
)

// Headers returns the column names for export: the table's own headers,
// or synthesized Column1..ColumnN when the source had none.
func Headers(t *table.Table) []string {
	if t.HasHeaders() {
		return t.Headers()
	}
	out := make([]string, t.ColumnCount())
	for i := range out {
		out[i] = fmt.Sprintf("Column%d", i+1)
	}
	return out
}

// VisibleRows lazily yields rows in view order, honoring the active
// filter, without copying row data.
func VisibleRows(t *table.Table, view *table.View) iter.Seq[[]string] {
	rows := t.Rows()
	return func(yield func([]string) bool) {
		for idx := range view.Indices(len(rows)) {
			if !yield(rows[idx]) {
				return
			}
		}
	}
}

// WriteCSV writes the visible rows as delimited text. Headers are written
// only when the table carries them, so an unheadered load round-trips to
// byte-identical row content.
func WriteCSV(w io.Writer, t *table.Table, view *table.View, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if t.HasHeaders() {
		if err := cw.Write(t.Headers()); err != nil {
			return fmt.Errorf("write headers: %w", err)
		}
	}
	for row := range VisibleRows(t, view) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the visible rows as an array of objects, one per row,
// keyed by the export headers.
func WriteJSON(w io.Writer, t *table.Table, view *table.View, pretty bool) error {
	headers := Headers(t)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	objs := make([]map[string]string, 0, view.VisibleCount(t.RowCount()))
	for row := range VisibleRows(t, view) {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			obj[h] = row[i]
		}
		objs = append(objs, obj)
	}
	return enc.Encode(objs)
}

// SaveCSVFile writes the visible rows to a file.
func SaveCSVFile(path string, t *table.Table, view *table.View, delimiter rune) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, t, view, delimiter); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// SaveJSONFile writes the visible rows to a JSON file.
func SaveJSONFile(path string, t *table.Table, view *table.View, pretty bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := WriteJSON(bw, t, view, pretty); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
