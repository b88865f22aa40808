package filter

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gridline-labs/gridline/internal/table"
)

// DefaultParallelThreshold is the visible row count above which predicate
// evaluation is partitioned across workers.
const DefaultParallelThreshold = 50_000

// Options tunes parallel evaluation; the result never depends on it.
type Options struct {
	Workers           int
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

// Apply computes the filtered indices for t under set: the subsequence of
// base (the active row order, nil for identity) whose rows satisfy the
// conditions. An empty set returns all of base. Results are recomputed
// from scratch on every call; nothing is cached across changes to the set,
// the order, or the row content.
func Apply(t *table.Table, base []int, set Set, opts Options) ([]int, error) {
	if err := set.Validate(t); err != nil {
		return nil, err
	}
	opts = opts.normalize()

	if base == nil {
		base = make([]int, t.RowCount())
		for i := range base {
			base[i] = i
		}
	}
	if set.Empty() {
		out := make([]int, len(base))
		copy(out, base)
		return out, nil
	}

	rows := t.Rows()
	types := t.Types()
	conds := compile(set)

	if len(base) < opts.ParallelThreshold || opts.Workers <= 1 {
		out := make([]int, 0, len(base))
		for _, idx := range base {
			if rowMatches(rows[idx], types, conds, set.Combinator) {
				out = append(out, idx)
			}
		}
		return out, nil
	}

	// Rows have no ordering dependency, so chunks of base are evaluated
	// concurrently and reassembled in base order.
	chunkSize := (len(base) + opts.Workers - 1) / opts.Workers
	var chunks [][]int
	matched := make([][]int, 0, opts.Workers)
	for lo := 0; lo < len(base); lo += chunkSize {
		hi := min(lo+chunkSize, len(base))
		chunks = append(chunks, base[lo:hi])
		matched = append(matched, nil)
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			var keep []int
			for _, idx := range chunk {
				if rowMatches(rows[idx], types, conds, set.Combinator) {
					keep = append(keep, idx)
				}
			}
			matched[i] = keep
			return nil
		})
	}
	_ = g.Wait()

	var out []int
	for _, keep := range matched {
		out = append(out, keep...)
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}
