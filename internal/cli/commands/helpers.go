// Package commands implements the gridline subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/config"
	"github.com/gridline-labs/gridline/internal/filter"
	"github.com/gridline-labs/gridline/internal/loader"
	"github.com/gridline-labs/gridline/internal/session"
	"github.com/gridline-labs/gridline/internal/table"
)

// configKey is used to store config in context.
type configKey struct{}

// WithConfig stores the resolved config in a context for subcommands.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// getConfig retrieves the config placed in context by the root command.
func getConfig(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{
		SampleSize:        config.DefaultSampleSize,
		HistoryDepth:      config.DefaultHistoryDepth,
		ParallelThreshold: config.DefaultParallelThreshold,
		Delimiter:         config.DefaultDelimiter,
		Header:            config.DefaultHeader,
		Output:            config.DefaultOutput,
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if !cfg.Verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newSession(cfg *config.Config) *session.Session {
	return session.New(session.Config{
		SampleSize:        cfg.SampleSize,
		HistoryDepth:      cfg.HistoryDepth,
		Workers:           cfg.Workers,
		ParallelThreshold: cfg.ParallelThreshold,
		Logger:            newLogger(cfg),
	})
}

func loadOptions(cfg *config.Config) (loader.Options, error) {
	mode, err := loader.ParseHeaderMode(cfg.Header)
	if err != nil {
		return loader.Options{}, err
	}
	return loader.Options{Delimiter: cfg.DelimiterRune(), Header: mode}, nil
}

// openSession builds a session from config and loads the file into it.
func openSession(cmd *cobra.Command, path string) (*session.Session, error) {
	cfg := getConfig(cmd)
	opts, err := loadOptions(cfg)
	if err != nil {
		return nil, err
	}
	s := newSession(cfg)
	if err := s.Load(cmd.Context(), path, opts); err != nil {
		return nil, err
	}
	return s, nil
}

// resolveColumn maps a column reference (header name or 1-based index) to
// a zero-based column index.
func resolveColumn(t *table.Table, ref string) (int, error) {
	if idx := t.ColumnIndex(ref); idx >= 0 {
		return idx, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("unknown column %q", ref)
	}
	if n < 1 || n > t.ColumnCount() {
		return 0, &table.InvalidColumnError{Column: n - 1, Columns: t.ColumnCount()}
	}
	return n - 1, nil
}

// parseCondition parses a `column op value` expression, e.g. "age > 26"
// or "name contains smith". The value may contain spaces; is-empty takes
// no value.
func parseCondition(t *table.Table, expr string) (filter.Condition, error) {
	fields := strings.Fields(expr)
	if len(fields) < 2 {
		return filter.Condition{}, fmt.Errorf("invalid condition %q (want: column op [value])", expr)
	}
	col, err := resolveColumn(t, fields[0])
	if err != nil {
		return filter.Condition{}, err
	}
	op, err := filter.ParseOperator(fields[1])
	if err != nil {
		return filter.Condition{}, err
	}
	value := strings.Join(fields[2:], " ")
	if op != filter.IsEmpty && value == "" {
		return filter.Condition{}, fmt.Errorf("condition %q is missing a value", expr)
	}
	return filter.Condition{Column: col, Operator: op, Value: value}, nil
}

// parseFilterSet builds a Set from repeated --where expressions.
func parseFilterSet(t *table.Table, exprs []string, anyMatch bool) (filter.Set, error) {
	set := filter.Set{}
	if anyMatch {
		set.Combinator = filter.Any
	}
	for _, expr := range exprs {
		cond, err := parseCondition(t, expr)
		if err != nil {
			return filter.Set{}, err
		}
		set.Conditions = append(set.Conditions, cond)
	}
	return set, nil
}
