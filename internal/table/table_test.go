package table

import (
	"errors"
	"testing"
)

func TestNew_UniformRows(t *testing.T) {
	tbl, err := New([]string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.RowCount() != 2 {
		t.Errorf("expected 2 rows, got %d", tbl.RowCount())
	}
	if tbl.ColumnCount() != 2 {
		t.Errorf("expected 2 columns, got %d", tbl.ColumnCount())
	}
}

func TestNew_WidthMismatch(t *testing.T) {
	_, err := New([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
	var malformed *MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRowError, got %v", err)
	}
	if malformed.Row != 2 || malformed.Expected != 2 || malformed.Actual != 1 {
		t.Errorf("unexpected error fields: %+v", malformed)
	}
}

func TestNew_NoHeaders_WidthFromFirstRow(t *testing.T) {
	tbl, err := New(nil, [][]string{{"1", "2", "3"}, {"4", "5", "6"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.HasHeaders() {
		t.Error("expected no headers")
	}
	if tbl.ColumnCount() != 3 {
		t.Errorf("expected 3 columns, got %d", tbl.ColumnCount())
	}
}

func TestCellAccess(t *testing.T) {
	tbl, _ := New(nil, [][]string{{"a", "b"}, {"c", "d"}})

	v, err := tbl.Cell(1, 1)
	if err != nil || v != "d" {
		t.Errorf("Cell(1,1) = %q, %v; want d", v, err)
	}

	if _, err := tbl.Cell(2, 0); err == nil {
		t.Error("expected error for out-of-range row")
	}

	_, err = tbl.Cell(0, 5)
	var invalid *InvalidColumnError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidColumnError, got %v", err)
	}
}

func TestSetCell(t *testing.T) {
	tbl, _ := New(nil, [][]string{{"a", "b"}})
	if err := tbl.SetCell(0, 1, "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := tbl.Cell(0, 1)
	if v != "x" {
		t.Errorf("expected x, got %q", v)
	}
	if err := tbl.SetCell(3, 0, "x"); err == nil {
		t.Error("expected error for out-of-range row")
	}
}

func TestColumnIndex(t *testing.T) {
	tbl, _ := New([]string{"name", "age"}, nil)
	if idx := tbl.ColumnIndex("age"); idx != 1 {
		t.Errorf("expected 1, got %d", idx)
	}
	if idx := tbl.ColumnIndex("missing"); idx != -1 {
		t.Errorf("expected -1, got %d", idx)
	}
}

func TestView_Indices(t *testing.T) {
	collect := func(v *View, n int) []int {
		var out []int
		for idx := range v.Indices(n) {
			out = append(out, idx)
		}
		return out
	}

	v := &View{}
	if got := collect(v, 3); len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("identity view: got %v", got)
	}

	v.Order = []int{2, 0, 1}
	if got := collect(v, 3); got[0] != 2 || got[1] != 0 || got[2] != 1 {
		t.Errorf("ordered view: got %v", got)
	}

	v.Filtered = []int{2, 1}
	if got := collect(v, 3); len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("filtered view: got %v", got)
	}

	if v.VisibleCount(3) != 2 {
		t.Errorf("expected 2 visible, got %d", v.VisibleCount(3))
	}

	v.Reset()
	if v.Order != nil || v.Filtered != nil {
		t.Error("expected reset view to drop projections")
	}
}
