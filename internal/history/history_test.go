package history

import (
	"errors"
	"strconv"
	"testing"

	"github.com/gridline-labs/gridline/internal/table"
)

func peopleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		[]string{"name", "age"},
		[][]string{{"Alice", "30"}, {"Bob", "25"}},
	)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tbl
}

func cellValue(t *testing.T, tbl *table.Table, row, col int) string {
	t.Helper()
	v, err := tbl.Cell(row, col)
	if err != nil {
		t.Fatalf("Cell(%d,%d): %v", row, col, err)
	}
	return v
}

func TestApplyUndoRedo(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)

	if err := h.Apply(tbl, Single(0, 1, "30", "31")); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := cellValue(t, tbl, 0, 1); got != "31" {
		t.Fatalf("after apply: got %q", got)
	}

	if err := h.Undo(tbl); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := cellValue(t, tbl, 0, 1); got != "30" {
		t.Fatalf("after undo: got %q", got)
	}
	if h.RedoDepth() != 1 {
		t.Fatalf("redo depth %d, want 1", h.RedoDepth())
	}

	if err := h.Redo(tbl); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := cellValue(t, tbl, 0, 1); got != "31" {
		t.Fatalf("after redo: got %q", got)
	}
	if h.UndoDepth() != 1 || h.RedoDepth() != 0 {
		t.Fatalf("depths undo=%d redo=%d after redo", h.UndoDepth(), h.RedoDepth())
	}
}

func TestUndoRedoInverseLaw(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)

	edits := []Action{
		Single(0, 0, "Alice", "Alicia"),
		Single(1, 1, "25", "26"),
		Single(0, 1, "30", "40"),
	}
	for _, a := range edits {
		if err := h.Apply(tbl, a); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}

	for range edits {
		if err := h.Undo(tbl); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	if cellValue(t, tbl, 0, 0) != "Alice" || cellValue(t, tbl, 1, 1) != "25" || cellValue(t, tbl, 0, 1) != "30" {
		t.Fatal("table not restored after full undo")
	}

	for range edits {
		if err := h.Redo(tbl); err != nil {
			t.Fatalf("Redo: %v", err)
		}
	}
	if cellValue(t, tbl, 0, 0) != "Alicia" || cellValue(t, tbl, 1, 1) != "26" || cellValue(t, tbl, 0, 1) != "40" {
		t.Fatal("table not restored after full redo")
	}
}

func TestGroupedActionIsOneSlot(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)

	group := Grouped([]CellEdit{
		{Row: 0, Col: 1, Old: "30", New: "0"},
		{Row: 1, Col: 1, Old: "25", New: "0"},
	})
	if err := h.Apply(tbl, group); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if h.UndoDepth() != 1 {
		t.Fatalf("undo depth %d, want 1", h.UndoDepth())
	}

	// One undo reverses every cell of the group.
	if err := h.Undo(tbl); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if cellValue(t, tbl, 0, 1) != "30" || cellValue(t, tbl, 1, 1) != "25" {
		t.Fatal("grouped undo did not revert all cells")
	}
}

func TestGroupedChainedCellIsStale(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)

	// Every cell of a group validates against current content before any
	// write, so a group that chains writes to one cell is stale: the
	// second edit's Old only holds after the first write.
	group := Grouped([]CellEdit{
		{Row: 0, Col: 1, Old: "30", New: "31"},
		{Row: 0, Col: 1, Old: "31", New: "32"},
	})
	var stale *table.StaleEditError
	if err := h.Apply(tbl, group); !errors.As(err, &stale) {
		t.Fatalf("expected StaleEditError for chained group, got %v", err)
	}
	if cellValue(t, tbl, 0, 1) != "30" {
		t.Fatal("rejected group must leave the table untouched")
	}
}

func TestStaleEditLeavesTableUntouched(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)

	group := Grouped([]CellEdit{
		{Row: 0, Col: 0, Old: "Alice", New: "A"},
		{Row: 1, Col: 1, Old: "99", New: "0"}, // wrong old value
	})
	err := h.Apply(tbl, group)
	var stale *table.StaleEditError
	if !errors.As(err, &stale) {
		t.Fatalf("expected StaleEditError, got %v", err)
	}
	if stale.Row != 1 || stale.Col != 1 || stale.Expected != "99" || stale.Actual != "25" {
		t.Errorf("unexpected error detail: %+v", stale)
	}
	// The first cell validated fine but must not have been written.
	if cellValue(t, tbl, 0, 0) != "Alice" {
		t.Error("stale action partially applied")
	}
	if h.CanUndo() {
		t.Error("stale action must not be recorded")
	}
}

func TestApplyOutOfRange(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)
	err := h.Apply(tbl, Single(9, 0, "x", "y"))
	if err == nil {
		t.Fatal("expected error for out-of-range row")
	}
	if h.CanUndo() {
		t.Error("failed action must not be recorded")
	}
}

func TestFreshApplyClearsRedo(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)

	if err := h.Apply(tbl, Single(0, 1, "30", "31")); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := h.Undo(tbl); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo available")
	}

	if err := h.Apply(tbl, Single(1, 0, "Bob", "Robert")); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if h.CanRedo() {
		t.Error("fresh apply must clear the redo stack")
	}
	if err := h.Redo(tbl); !errors.Is(err, table.ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestMaxDepthEvictsOldest(t *testing.T) {
	tbl := peopleTable(t)
	h := New(3)

	old := "30"
	for i := 0; i < 5; i++ {
		next := strconv.Itoa(31 + i)
		if err := h.Apply(tbl, Single(0, 1, old, next)); err != nil {
			t.Fatalf("Apply %d: %v", i, err)
		}
		old = next
	}
	if h.UndoDepth() != 3 {
		t.Fatalf("undo depth %d, want 3", h.UndoDepth())
	}

	for h.CanUndo() {
		if err := h.Undo(tbl); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	// Only the last three edits are reversible; the table stops at the
	// evicted boundary, not at the original value.
	if got := cellValue(t, tbl, 0, 1); got != "32" {
		t.Errorf("after exhausting undo: got %q, want %q", got, "32")
	}
}

func TestNothingToUndoOrRedo(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)
	if err := h.Undo(tbl); !errors.Is(err, table.ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if err := h.Redo(tbl); !errors.Is(err, table.ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestClear(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)
	if err := h.Apply(tbl, Single(0, 1, "30", "31")); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := h.Undo(tbl); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear must drop both stacks")
	}
}

func TestEmptyActionRejected(t *testing.T) {
	tbl := peopleTable(t)
	h := New(0)
	if err := h.Apply(tbl, Action{}); err == nil {
		t.Fatal("expected error for empty action")
	}
}
