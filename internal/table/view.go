package table

import "iter"

// View is an index projection over a Table: the active sort permutation and
// the active filter membership. Views are owned by the consuming session,
// not by the Table, and are invalidated whenever the row data changes in a
// way that affects the active comparator or predicate.
type View struct {
	// Order is the row permutation for the active sort; nil means
	// identity (original file order).
	Order []int

	// Filtered is the subsequence of Order matching the active filter;
	// nil means no filter (all rows visible).
	Filtered []int
}

// VisibleCount returns the number of rows the view exposes for a table of
// rowCount rows.
func (v *View) VisibleCount(rowCount int) int {
	if v.Filtered != nil {
		return len(v.Filtered)
	}
	if v.Order != nil {
		return len(v.Order)
	}
	return rowCount
}

// Indices iterates the original row indices the view exposes, in view
// order, without materializing the identity permutation.
func (v *View) Indices(rowCount int) iter.Seq[int] {
	return func(yield func(int) bool) {
		switch {
		case v.Filtered != nil:
			for _, idx := range v.Filtered {
				if !yield(idx) {
					return
				}
			}
		case v.Order != nil:
			for _, idx := range v.Order {
				if !yield(idx) {
					return
				}
			}
		default:
			for i := 0; i < rowCount; i++ {
				if !yield(i) {
					return
				}
			}
		}
	}
}

// Base returns the ordering the filter engine should project from: the
// active sort permutation, or nil for identity.
func (v *View) Base() []int { return v.Order }

// Reset drops both projections, restoring identity order with all rows
// visible.
func (v *View) Reset() {
	v.Order = nil
	v.Filtered = nil
}
