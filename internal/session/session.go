// Package session owns a loaded table and its derived views, and is the
// single write surface over them. Long-running work (load, large sort,
// large filter) is offloaded to workers that read a snapshot and hand back
// a result on a channel tagged with a sequence number; cell edits, undo,
// and redo are synchronous and O(affected cells).
//
// Ownership model: exactly one logical owner drives a Session at a time.
// Session methods are not safe for concurrent use; workers never mutate
// shared state, they only compute results the owner later installs.
// Mutation and view recomputation are sequenced, never interleaved.
package session

import (
	"fmt"
	"log/slog"

	"github.com/gridline-labs/gridline/internal/filter"
	"github.com/gridline-labs/gridline/internal/history"
	"github.com/gridline-labs/gridline/internal/loader"
	"github.com/gridline-labs/gridline/internal/sniff"
	"github.com/gridline-labs/gridline/internal/sorter"
	"github.com/gridline-labs/gridline/internal/table"
)

// Config holds session tuning.
type Config struct {
	// SampleSize bounds type inference; 0 means sniff.DefaultSampleSize.
	SampleSize int
	// HistoryDepth bounds the undo/redo stacks; 0 means
	// history.DefaultMaxDepth.
	HistoryDepth int
	// Workers caps parallel sort/filter partitions; 0 means GOMAXPROCS.
	Workers int
	// ParallelThreshold is the row count above which sort and filter
	// are partitioned; 0 means the engine defaults.
	ParallelThreshold int
	// Logger receives structured events; nil discards.
	Logger *slog.Logger
}

// SortState describes the active sort.
type SortState struct {
	Column    int
	Direction sorter.Direction
}

// Session is the aggregate owner of a table, its edit history, and the
// sort/filter state that produces the current view.
type Session struct {
	logger *slog.Logger
	cfg    Config

	tbl  *table.Table
	hist *history.History
	view table.View

	sortState *SortState
	filterSet filter.Set

	// viewStale flags that an edit changed row content while a filter
	// was active; the filtered indices no longer reflect the predicate
	// until the filter is recomputed.
	viewStale bool

	seq       [kindCount]uint64 // newest issued sequence per request kind
	installed [kindCount]uint64
	results   chan Result
}

// New creates an empty session; a table arrives via Load or Install.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		logger:  logger,
		cfg:     cfg,
		hist:    history.New(cfg.HistoryDepth),
		results: make(chan Result, 8),
	}
}

// Table returns the loaded table, or nil before the first load.
func (s *Session) Table() *table.Table { return s.tbl }

// View returns the current index view. The pointer stays valid across
// installs; its contents change as results land.
func (s *Session) View() *table.View { return &s.view }

// History exposes undo/redo stack state for callers that render it.
func (s *Session) History() *history.History { return s.hist }

// SortState returns the active sort, or nil when unsorted.
func (s *Session) SortState() *SortState { return s.sortState }

// FilterSet returns the active filter set (empty when unfiltered).
func (s *Session) FilterSet() filter.Set { return s.filterSet }

// ViewStale reports whether an edit has outdated the filtered indices.
// Callers should re-run the active filter before trusting the view.
func (s *Session) ViewStale() bool { return s.viewStale }

// install replaces the table wholesale: new data, fresh types, cleared
// history and views. Used by the load path.
func (s *Session) install(t *table.Table) {
	s.tbl = t
	s.hist = history.New(s.cfg.HistoryDepth)
	s.view.Reset()
	s.sortState = nil
	s.filterSet = filter.Set{}
	s.viewStale = false
	s.logger.Info("table installed",
		"rows", t.RowCount(),
		"columns", t.ColumnCount(),
		"has_headers", t.HasHeaders(),
	)
}

// Resniff re-runs type inference on demand. It is never called implicitly:
// edits do not change a column's load-time type tag, because re-inference
// would retroactively change sort and filter behavior.
func (s *Session) Resniff() error {
	if s.tbl == nil {
		return fmt.Errorf("no table loaded")
	}
	return s.tbl.SetTypes(sniff.Sniff(s.tbl, s.cfg.SampleSize))
}

// Edit applies a caller-constructed action through the history, with the
// usual stale-data check against each cell's recorded old value.
func (s *Session) Edit(a history.Action) error {
	if s.tbl == nil {
		return fmt.Errorf("no table loaded")
	}
	if err := s.hist.Apply(s.tbl, a); err != nil {
		return err
	}
	s.invalidateAfterMutation("edit", len(a.Cells))
	return nil
}

// SetCell edits one cell, reading the current value as the action's old
// value so the stale check always passes for a fresh read.
func (s *Session) SetCell(row, col int, value string) error {
	if s.tbl == nil {
		return fmt.Errorf("no table loaded")
	}
	old, err := s.tbl.Cell(row, col)
	if err != nil {
		return err
	}
	return s.Edit(history.Single(row, col, old, value))
}

// SetCells edits many cells as one grouped, atomically undoable action.
func (s *Session) SetCells(cells []history.CellEdit) error {
	return s.Edit(history.Grouped(cells))
}

// Undo reverses the most recent action.
func (s *Session) Undo() error {
	if s.tbl == nil {
		return table.ErrNothingToUndo
	}
	if err := s.hist.Undo(s.tbl); err != nil {
		return err
	}
	s.invalidateAfterMutation("undo", 0)
	return nil
}

// Redo re-applies the most recently undone action.
func (s *Session) Redo() error {
	if s.tbl == nil {
		return table.ErrNothingToRedo
	}
	if err := s.hist.Redo(s.tbl); err != nil {
		return err
	}
	s.invalidateAfterMutation("redo", 0)
	return nil
}

func (s *Session) invalidateAfterMutation(op string, cells int) {
	if !s.filterSet.Empty() {
		s.viewStale = true
	}
	s.logger.Debug("rows mutated", "op", op, "cells", cells, "view_stale", s.viewStale)
}

// sorterOptions and filterOptions translate session config for the
// engines.
func (s *Session) sorterOptions() sorter.Options {
	return sorter.Options{Workers: s.cfg.Workers, ParallelThreshold: s.cfg.ParallelThreshold}
}

func (s *Session) filterOptions() filter.Options {
	return filter.Options{Workers: s.cfg.Workers, ParallelThreshold: s.cfg.ParallelThreshold}
}

func (s *Session) loadAndSniff(path string, opts loader.Options) (*table.Table, error) {
	t, err := loader.LoadFile(path, opts)
	if err != nil {
		return nil, err
	}
	if err := t.SetTypes(sniff.Sniff(t, s.cfg.SampleSize)); err != nil {
		return nil, err
	}
	return t, nil
}
