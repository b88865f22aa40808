// Package config provides configuration management for the gridline CLI.
// Precedence, highest to lowest: flags > environment > config file >
// defaults.
package config

// Config is the resolved engine and CLI configuration.
type Config struct {
	// SampleSize bounds how many rows type inference examines.
	SampleSize int `koanf:"sample_size"`
	// HistoryDepth bounds the undo and redo stacks.
	HistoryDepth int `koanf:"history_depth"`
	// Workers caps parallel sort/filter partitions; 0 uses all CPUs.
	Workers int `koanf:"workers"`
	// ParallelThreshold is the row count above which sort and filter
	// run partitioned.
	ParallelThreshold int `koanf:"parallel_threshold"`
	// Delimiter is the field separator for loading and CSV export.
	Delimiter string `koanf:"delimiter"`
	// Header selects first-record handling: auto, present, or absent.
	Header string `koanf:"header"`
	// Output is the default render format: table, json, or csv.
	Output string `koanf:"output"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// DelimiterRune returns the configured delimiter as a rune, defaulting to
// a comma when unset or multi-character.
func (c *Config) DelimiterRune() rune {
	if c.Delimiter == "\\t" || c.Delimiter == "tab" {
		return '\t'
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return ','
	}
	return r[0]
}
