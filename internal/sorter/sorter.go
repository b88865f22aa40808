// Package sorter computes ordering permutations of row indices. Sorting
// never reorders the underlying rows; it produces a row_order view the
// session installs.
//
// Two policies are deliberate and covered by tests:
//
//   - Stability is relative to the base order passed in, not to original
//     file order. Sorting by column B after column A keeps A-order among
//     B-ties, so successive sorts compose as secondary sorts.
//   - In a Number column, a cell that fails to parse sorts as less than
//     every numeric value (non-numeric outliers sink to the start when
//     ascending, the end when descending) and ties with other unparseable
//     cells.
package sorter

import (
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gridline-labs/gridline/internal/table"
)

// Direction selects ascending or descending order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// DefaultParallelThreshold is the row count above which sorting is
// partitioned across workers. Below it a single-pass sort wins.
const DefaultParallelThreshold = 50_000

// Options tunes parallel execution. Parallelism is a performance detail:
// the result is identical to the single-threaded one.
type Options struct {
	// Workers caps concurrent sort partitions; 0 means GOMAXPROCS.
	Workers int
	// ParallelThreshold is the minimum row count for partitioned
	// sorting; 0 means DefaultParallelThreshold.
	ParallelThreshold int
}

func (o Options) normalize() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.ParallelThreshold <= 0 {
		o.ParallelThreshold = DefaultParallelThreshold
	}
	return o
}

// entry pairs a row index with its position in the base order. The
// position is the comparator's final tie-break, which makes the order
// total: chunked parallel sorting and sequential sorting cannot disagree.
type entry struct {
	row int
	pos int
}

// Order computes the permutation of row indices for sorting t by column.
// base is the currently active order (nil for identity); ties keep their
// relative position in base, in both directions. Sorting is total over the
// column comparator and cannot fail; an out-of-range column is a
// precondition violation reported as InvalidColumnError.
func Order(t *table.Table, base []int, column int, dir Direction, opts Options) ([]int, error) {
	if column < 0 || column >= t.ColumnCount() {
		return nil, &table.InvalidColumnError{Column: column, Columns: t.ColumnCount()}
	}
	opts = opts.normalize()

	n := t.RowCount()
	if base == nil {
		base = identity(n)
	}
	entries := make([]entry, len(base))
	for pos, row := range base {
		entries[pos] = entry{row: row, pos: pos}
	}

	typ, err := t.Type(column)
	if err != nil {
		return nil, err
	}

	var less func(a, b entry) bool
	switch typ {
	case table.Number:
		keys, numeric := numericKeys(t.Rows(), column, opts)
		less = numberLess(keys, numeric, dir)
	default:
		less = textLess(t.Rows(), column, dir)
	}

	if len(entries) >= opts.ParallelThreshold && opts.Workers > 1 {
		parallelSort(entries, less, opts.Workers)
	} else {
		sortEntries(entries, less)
	}

	order := make([]int, len(entries))
	for i, e := range entries {
		order[i] = e.row
	}
	return order, nil
}

func identity(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// numericKeys parses the column once up front so the comparator stays
// allocation-free. Above the parallel threshold the parse pass itself is
// chunked across workers.
func numericKeys(rows [][]string, column int, opts Options) ([]float64, []bool) {
	keys := make([]float64, len(rows))
	numeric := make([]bool, len(rows))

	parse := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rows[i][column]), 64)
			if err == nil {
				keys[i] = v
				numeric[i] = true
			}
		}
	}

	if len(rows) < opts.ParallelThreshold || opts.Workers <= 1 {
		parse(0, len(rows))
		return keys, numeric
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	chunk := (len(rows) + opts.Workers - 1) / opts.Workers
	for lo := 0; lo < len(rows); lo += chunk {
		hi := min(lo+chunk, len(rows))
		g.Go(func() error {
			parse(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
	return keys, numeric
}

func numberLess(keys []float64, numeric []bool, dir Direction) func(a, b entry) bool {
	cmp := func(a, b entry) int {
		an, bn := numeric[a.row], numeric[b.row]
		switch {
		case an && bn:
			av, bv := keys[a.row], keys[b.row]
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		case !an && bn:
			return -1 // unparseable sorts as the minimum value
		case an && !bn:
			return 1
		}
		return 0
	}
	return directedLess(cmp, dir)
}

func textLess(rows [][]string, column int, dir Direction) func(a, b entry) bool {
	cmp := func(a, b entry) int {
		return strings.Compare(rows[a.row][column], rows[b.row][column])
	}
	return directedLess(cmp, dir)
}

// directedLess reverses the cell comparison for descending order but keeps
// the base-position tie-break ascending, so ties never flip.
func directedLess(cmp func(a, b entry) int, dir Direction) func(a, b entry) bool {
	return func(a, b entry) bool {
		c := cmp(a, b)
		if dir == Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.pos < b.pos
	}
}
