// Package sniff infers a semantic type per column from a bounded sample of
// rows. Inference is a pure function of the sampled cells: running it twice
// on the same table yields the same result regardless of evaluation order.
package sniff

import (
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gridline-labs/gridline/internal/table"
)

// DefaultSampleSize bounds how many rows are examined per column.
const DefaultSampleSize = 10_000

// Sniff returns one ColType per column. A column is Number when every
// sampled non-empty cell parses as a decimal numeric literal; empty cells
// are ignored and never force Text on their own, so an entirely empty
// sample infers Number (optimistic inference).
//
// Inference runs once after load. Edits do not re-trigger it; a column
// keeps its load-time tag even when an edit changes its apparent shape.
func Sniff(t *table.Table, sampleSize int) []table.ColType {
	cols := t.ColumnCount()
	types := make([]table.ColType, cols)
	if cols == 0 {
		return types
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	rows := t.Rows()
	if len(rows) > sampleSize {
		rows = rows[:sampleSize]
	}

	// Columns are independent, so they can be scanned concurrently
	// without affecting the result.
	workers := min(cols, runtime.GOMAXPROCS(0))
	var g errgroup.Group
	g.SetLimit(workers)
	for col := 0; col < cols; col++ {
		g.Go(func() error {
			types[col] = sniffColumn(rows, col)
			return nil
		})
	}
	_ = g.Wait() // sniffColumn cannot fail

	return types
}

func sniffColumn(rows [][]string, col int) table.ColType {
	for _, row := range rows {
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return table.Text
		}
	}
	return table.Number
}
