package session

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/gridline-labs/gridline/internal/filter"
	"github.com/gridline-labs/gridline/internal/loader"
	"github.com/gridline-labs/gridline/internal/sniff"
	"github.com/gridline-labs/gridline/internal/sorter"
	"github.com/gridline-labs/gridline/internal/table"
)

// Kind identifies which derived artifact a request computes.
type Kind int

const (
	KindLoad Kind = iota
	KindSort
	KindFilter
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindSort:
		return "sort"
	case KindFilter:
		return "filter"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Result is a completed worker computation. Exactly one of Table, Order,
// or Indices is populated according to Kind; Seq ties the result back to
// the request that produced it.
type Result struct {
	Kind      Kind
	Seq       uint64
	RequestID string

	Table   *table.Table // KindLoad
	Order   []int        // KindSort
	Indices []int        // KindFilter

	sortState *SortState
	filterSet filter.Set

	Err error
}

// Results is the channel workers deliver on. The owner drains it and
// passes each Result to Install; results for superseded requests are
// discarded there, never applied.
func (s *Session) Results() <-chan Result { return s.results }

// next issues a fresh sequence number for a request kind. Issuing a new
// number is what supersedes any in-flight request of the same kind:
// workers are not interrupted (sort and filter are pure, wasted work has
// no correctness cost), their results are simply discarded on arrival.
func (s *Session) next(k Kind) uint64 {
	s.seq[k]++
	return s.seq[k]
}

// StartLoad offloads loading and type inference of a file. Returns the
// request's sequence number.
func (s *Session) StartLoad(path string, opts loader.Options) uint64 {
	seq := s.next(KindLoad)
	id := uuid.NewString()
	s.logger.Info("load requested", "request_id", id, "seq", seq, "path", path)
	go func() {
		t, err := s.loadAndSniff(path, opts)
		s.results <- Result{Kind: KindLoad, Seq: seq, RequestID: id, Table: t, Err: err}
	}()
	return seq
}

// StartSort offloads computing the order permutation for a column. The
// worker reads the rows as an immutable snapshot; the owner must not edit
// until the result is installed or superseded.
func (s *Session) StartSort(column int, dir sorter.Direction) uint64 {
	seq := s.next(KindSort)
	id := uuid.NewString()
	tbl, base := s.tbl, s.view.Order
	s.logger.Info("sort requested", "request_id", id, "seq", seq, "column", column, "direction", dir.String())
	go func() {
		if tbl == nil {
			s.results <- Result{Kind: KindSort, Seq: seq, RequestID: id, Err: fmt.Errorf("no table loaded")}
			return
		}
		order, err := sorter.Order(tbl, base, column, dir, s.sorterOptions())
		s.results <- Result{
			Kind: KindSort, Seq: seq, RequestID: id,
			Order:     order,
			sortState: &SortState{Column: column, Direction: dir},
			Err:       err,
		}
	}()
	return seq
}

// StartFilter offloads computing filtered indices for a condition set
// against the current row order.
func (s *Session) StartFilter(set filter.Set) uint64 {
	seq := s.next(KindFilter)
	id := uuid.NewString()
	tbl, base := s.tbl, s.view.Order
	s.logger.Info("filter requested", "request_id", id, "seq", seq,
		"conditions", len(set.Conditions), "combinator", set.Combinator.String())
	go func() {
		if tbl == nil {
			s.results <- Result{Kind: KindFilter, Seq: seq, RequestID: id, Err: fmt.Errorf("no table loaded")}
			return
		}
		indices, err := filter.Apply(tbl, base, set, s.filterOptions())
		s.results <- Result{
			Kind: KindFilter, Seq: seq, RequestID: id,
			Indices:   indices,
			filterSet: set,
			Err:       err,
		}
	}()
	return seq
}

// Install applies a worker result to the session. A result whose sequence
// number is not the newest issued for its kind is stale: it is logged and
// dropped, and Install reports false. Failed results surface their error
// and install nothing.
func (s *Session) Install(res Result) (bool, error) {
	if res.Seq != s.seq[res.Kind] {
		s.logger.Debug("stale result discarded",
			"kind", res.Kind.String(), "seq", res.Seq, "newest", s.seq[res.Kind])
		return false, nil
	}
	if res.Err != nil {
		return false, res.Err
	}
	s.installed[res.Kind] = res.Seq

	switch res.Kind {
	case KindLoad:
		s.install(res.Table)
	case KindSort:
		s.view.Order = res.Order
		s.sortState = res.sortState
		// A new order invalidates filter membership ordering; the
		// active set must be re-applied against the new base.
		if s.view.Filtered != nil {
			s.view.Filtered = nil
			s.viewStale = !s.filterSet.Empty()
		}
		s.logger.Info("sort installed", "seq", res.Seq, "rows", len(res.Order))
	case KindFilter:
		s.view.Filtered = res.Indices
		s.filterSet = res.filterSet
		s.viewStale = false
		s.logger.Info("filter installed", "seq", res.Seq, "visible", len(res.Indices))
	}
	return true, nil
}

// await drains results until the request with seq lands or ctx ends.
func (s *Session) await(ctx context.Context, kind Kind, seq uint64) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-s.results:
			installed, err := s.Install(res)
			if err != nil && res.Kind == kind && res.Seq == seq {
				return err
			}
			if installed && res.Kind == kind && res.Seq == seq {
				return nil
			}
		}
	}
}

// Load is the synchronous convenience over StartLoad.
func (s *Session) Load(ctx context.Context, path string, opts loader.Options) error {
	return s.await(ctx, KindLoad, s.StartLoad(path, opts))
}

// Open loads from a reader synchronously (the reader cannot be safely
// handed to a background goroutine the caller may outlive).
func (s *Session) Open(r io.Reader, opts loader.Options) error {
	t, err := loader.Load(r, opts)
	if err != nil {
		return err
	}
	if err := t.SetTypes(sniff.Sniff(t, s.cfg.SampleSize)); err != nil {
		return err
	}
	s.install(t)
	return nil
}

// OpenSheet installs an already-parsed spreadsheet sheet (external
// reader, first sheet only), built identically to the delimited path.
func (s *Session) OpenSheet(headers []string, rows [][]string) error {
	t, err := loader.FromSheet(headers, rows)
	if err != nil {
		return err
	}
	if err := t.SetTypes(sniff.Sniff(t, s.cfg.SampleSize)); err != nil {
		return err
	}
	s.install(t)
	return nil
}

// Sort is the synchronous convenience over StartSort. When a filter is
// active it is re-applied against the new order before returning, so the
// view is never left stale.
func (s *Session) Sort(ctx context.Context, column int, dir sorter.Direction) error {
	if err := s.await(ctx, KindSort, s.StartSort(column, dir)); err != nil {
		return err
	}
	if s.viewStale && !s.filterSet.Empty() {
		return s.Filter(ctx, s.filterSet)
	}
	return nil
}

// Filter is the synchronous convenience over StartFilter.
func (s *Session) Filter(ctx context.Context, set filter.Set) error {
	return s.await(ctx, KindFilter, s.StartFilter(set))
}

// ClearFilter drops filtering; the canonical way is an empty set.
func (s *Session) ClearFilter() {
	s.filterSet = filter.Set{}
	s.view.Filtered = nil
	s.viewStale = false
	s.seq[KindFilter]++ // supersede any in-flight filter
}

// Refresh recomputes the filtered indices after edits outdated them.
func (s *Session) Refresh(ctx context.Context) error {
	if !s.viewStale || s.filterSet.Empty() {
		return nil
	}
	return s.Filter(ctx, s.filterSet)
}
