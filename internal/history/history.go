// Package history records and reverses cell mutations. It is the only
// path permitted to mutate a table's rows after load; every mutation call
// is atomic and no in-progress edit state survives across calls.
package history

import (
	"fmt"

	"github.com/gridline-labs/gridline/internal/table"
)

// DefaultMaxDepth bounds each stack when no explicit depth is configured.
const DefaultMaxDepth = 100

// CellEdit is a single cell mutation with enough context to reverse it.
type CellEdit struct {
	Row int
	Col int
	Old string
	New string
}

// Action is one undoable unit: a single cell edit, or a grouped edit whose
// cells apply and revert together. A grouped action occupies exactly one
// history slot regardless of how many cells it touches, so a bulk paste is
// one user-level undo.
type Action struct {
	Cells []CellEdit
}

// Single builds a one-cell action.
func Single(row, col int, old, new string) Action {
	return Action{Cells: []CellEdit{{Row: row, Col: col, Old: old, New: new}}}
}

// Grouped builds a multi-cell action.
func Grouped(cells []CellEdit) Action {
	return Action{Cells: cells}
}

// History owns the undo and redo stacks. Pushing a fresh action clears the
// redo stack entirely: after a new edit, redoing a divergent timeline is
// meaningless. Exceeding maxDepth evicts the oldest undo entry, which then
// becomes permanently unrecoverable.
type History struct {
	undo     []Action
	redo     []Action
	maxDepth int
}

// New creates a History bounded by maxDepth (DefaultMaxDepth when <= 0).
func New(maxDepth int) *History {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &History{maxDepth: maxDepth}
}

// Apply validates the action against the table's current content, writes
// the new values, and records the action. Validation happens for every
// cell before any write: a mismatch between a recorded old value and the
// cell's current content means the action was built against stale data,
// reported as StaleEditError with the rows untouched.
func (h *History) Apply(t *table.Table, a Action) error {
	if len(a.Cells) == 0 {
		return fmt.Errorf("empty edit action")
	}
	for _, c := range a.Cells {
		current, err := t.Cell(c.Row, c.Col)
		if err != nil {
			return err
		}
		if current != c.Old {
			return &table.StaleEditError{Row: c.Row, Col: c.Col, Expected: c.Old, Actual: current}
		}
	}
	for _, c := range a.Cells {
		if err := t.SetCell(c.Row, c.Col, c.New); err != nil {
			return err
		}
	}
	h.pushUndo(a)
	h.redo = nil
	return nil
}

// Undo reverses the most recent action, writing each cell's old value back
// and moving the action to the redo stack. Grouped cells revert in reverse
// application order.
func (h *History) Undo(t *table.Table) error {
	if len(h.undo) == 0 {
		return table.ErrNothingToUndo
	}
	a := h.undo[len(h.undo)-1]
	for i := len(a.Cells) - 1; i >= 0; i-- {
		c := a.Cells[i]
		if err := t.SetCell(c.Row, c.Col, c.Old); err != nil {
			return err
		}
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, a)
	return nil
}

// Redo re-applies the most recently undone action, restoring its new
// values and moving it back to the undo stack.
func (h *History) Redo(t *table.Table) error {
	if len(h.redo) == 0 {
		return table.ErrNothingToRedo
	}
	a := h.redo[len(h.redo)-1]
	for _, c := range a.Cells {
		if err := t.SetCell(c.Row, c.Col, c.New); err != nil {
			return err
		}
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.pushUndo(a)
	return nil
}

// CanUndo reports whether an action is available to undo.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether an action is available to redo.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the current undo stack size.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the current redo stack size.
func (h *History) RedoDepth() int { return len(h.redo) }

// Clear drops both stacks, typically when a new file replaces the table.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

func (h *History) pushUndo(a Action) {
	h.undo = append(h.undo, a)
	if len(h.undo) > h.maxDepth {
		h.undo = h.undo[1:]
	}
}
