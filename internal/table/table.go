// Package table holds the core tabular data structures: the Table aggregate
// owning raw row data and column types, the View index projection, and the
// error taxonomy shared by the engine packages.
//
// A Table is created once by the loader, typed once by the sniffer, and
// mutated only through history-tracked writes. Sort order and filter
// membership are never stored as reordered copies of the data; they are
// index views (see View) owned by the consuming session.
package table

import "fmt"

// ColType classifies a column for comparator selection and filter
// operator validation.
type ColType int

const (
	// Text columns compare by byte-ordinal string order.
	Text ColType = iota
	// Number columns compare by parsed numeric value.
	Number
)

func (t ColType) String() string {
	switch t {
	case Number:
		return "Number"
	default:
		return "Text"
	}
}

// Table is the aggregate root for loaded tabular data.
type Table struct {
	headers  []string
	rows     [][]string
	colTypes []ColType
}

// New builds a Table from headers (nil when the source has none) and rows.
// Every row must have the same width as the headers, or as the first row
// when headers are absent; a violation is a MalformedRowError.
func New(headers []string, rows [][]string) (*Table, error) {
	width := len(headers)
	if width == 0 && len(rows) > 0 {
		width = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != width {
			return nil, &MalformedRowError{Row: i + 1, Expected: width, Actual: len(row)}
		}
	}
	t := &Table{headers: headers, rows: rows}
	t.colTypes = make([]ColType, t.ColumnCount())
	return t, nil
}

// Headers returns the header row, or nil when the source had none.
func (t *Table) Headers() []string { return t.headers }

// HasHeaders reports whether the table carries column names.
func (t *Table) HasHeaders() bool { return t.headers != nil }

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.rows) }

// ColumnCount returns the table width.
func (t *Table) ColumnCount() int {
	if t.headers != nil {
		return len(t.headers)
	}
	if len(t.rows) > 0 {
		return len(t.rows[0])
	}
	return 0
}

// Rows exposes the raw row data. Callers must not mutate it; all writes
// go through the edit history.
func (t *Table) Rows() [][]string { return t.rows }

// Row returns the row at index, or an error when out of range.
func (t *Table) Row(index int) ([]string, error) {
	if index < 0 || index >= len(t.rows) {
		return nil, fmt.Errorf("row %d out of range (table has %d rows)", index, len(t.rows))
	}
	return t.rows[index], nil
}

// Cell returns the cell value at (row, col).
func (t *Table) Cell(row, col int) (string, error) {
	if row < 0 || row >= len(t.rows) {
		return "", fmt.Errorf("row %d out of range (table has %d rows)", row, len(t.rows))
	}
	if col < 0 || col >= len(t.rows[row]) {
		return "", &InvalidColumnError{Column: col, Columns: len(t.rows[row])}
	}
	return t.rows[row][col], nil
}

// SetCell writes a cell value in place.
//
// The edit history is the only permitted caller once a table is loaded;
// writing directly bypasses undo tracking and view invalidation.
func (t *Table) SetCell(row, col int, value string) error {
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("row %d out of range (table has %d rows)", row, len(t.rows))
	}
	if col < 0 || col >= len(t.rows[row]) {
		return &InvalidColumnError{Column: col, Columns: len(t.rows[row])}
	}
	t.rows[row][col] = value
	return nil
}

// Types returns the per-column type tags.
func (t *Table) Types() []ColType { return t.colTypes }

// Type returns the type tag for a single column.
func (t *Table) Type(col int) (ColType, error) {
	if col < 0 || col >= len(t.colTypes) {
		return Text, &InvalidColumnError{Column: col, Columns: len(t.colTypes)}
	}
	return t.colTypes[col], nil
}

// SetTypes installs the inferred column types. The slice length must match
// the column count.
func (t *Table) SetTypes(types []ColType) error {
	if len(types) != t.ColumnCount() {
		return fmt.Errorf("type count %d does not match column count %d", len(types), t.ColumnCount())
	}
	t.colTypes = types
	return nil
}

// ColumnIndex resolves a header name to its column index. The match is
// exact; returns -1 when the name is unknown or headers are absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.headers {
		if h == name {
			return i
		}
	}
	return -1
}
