package table

import (
	"errors"
	"fmt"
)

// Sentinel errors for undo/redo boundary conditions. They are reported,
// never escalated; the engine stays usable afterward.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// MalformedRowError reports a row whose field count disagrees with the
// header (or first-row) width. It is fatal for the whole load; partial
// tables never surface.
type MalformedRowError struct {
	Row      int // 1-based data row number
	Expected int
	Actual   int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row %d: expected %d fields, got %d", e.Row, e.Expected, e.Actual)
}

// InvalidColumnError reports a column index outside the table width.
// It is a precondition violation by the caller, not a runtime condition.
type InvalidColumnError struct {
	Column  int
	Columns int
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("column %d out of range (table has %d columns)", e.Column, e.Columns)
}

// UnsupportedOperatorError reports a filter operator applied to a column
// type that cannot support it (ordering comparisons on Text columns).
type UnsupportedOperatorError struct {
	Operator string
	Column   int
	Type     ColType
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("operator %q not supported on column %d of type %s", e.Operator, e.Column, e.Type)
}

// StaleEditError reports an edit whose recorded old value no longer matches
// the cell content; the action was built against outdated data. The edit is
// rejected and the rows are left unchanged, so the caller may re-read the
// cell and retry with a fresh action.
type StaleEditError struct {
	Row      int
	Col      int
	Expected string
	Actual   string
}

func (e *StaleEditError) Error() string {
	return fmt.Sprintf("stale edit at (%d,%d): expected %q, cell holds %q", e.Row, e.Col, e.Expected, e.Actual)
}
