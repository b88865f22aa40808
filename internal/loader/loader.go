// Package loader parses delimited text into a Table. Parsing follows
// RFC4180 quoting: quoted fields may contain the delimiter, newlines, and
// doubled quotes. The row-width invariant is enforced here; a width
// mismatch aborts the whole load.
package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gridline-labs/gridline/internal/table"
)

// HeaderMode controls how the first record is interpreted.
type HeaderMode int

const (
	// HeaderInfer treats the first record as headers unless every field
	// parses as a number, in which case it is taken as data.
	HeaderInfer HeaderMode = iota
	// HeaderPresent always treats the first record as headers.
	HeaderPresent
	// HeaderAbsent treats every record as data; columns are addressed
	// by index and named ColumnN only at export time.
	HeaderAbsent
)

// ParseHeaderMode maps the config/CLI spelling to a HeaderMode.
func ParseHeaderMode(s string) (HeaderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "infer":
		return HeaderInfer, nil
	case "present", "yes", "true":
		return HeaderPresent, nil
	case "absent", "no", "false", "none":
		return HeaderAbsent, nil
	}
	return HeaderInfer, fmt.Errorf("unknown header mode %q (want auto, present, or absent)", s)
}

// Options configures a load.
type Options struct {
	// Delimiter separates fields; defaults to ','.
	Delimiter rune
	// Quote is the quoting character. RFC4180 fixes this to '"', which
	// is the only supported value; zero means '"'.
	Quote rune
	// Header selects how the first record is interpreted.
	Header HeaderMode
}

func (o Options) validate() (Options, error) {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Quote == 0 {
		o.Quote = '"'
	}
	if o.Quote != '"' {
		return o, fmt.Errorf("unsupported quote character %q: RFC4180 quoting uses %q", o.Quote, '"')
	}
	if o.Delimiter == '"' || o.Delimiter == '\n' || o.Delimiter == '\r' {
		return o, fmt.Errorf("invalid delimiter %q", o.Delimiter)
	}
	return o, nil
}

// Load parses delimited text from r into a Table.
func Load(r io.Reader, opts Options) (*table.Table, error) {
	opts, err := opts.validate()
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1 // width checked below for a precise error
	cr.ReuseRecord = false

	var headers []string
	var rows [][]string
	width := -1
	dataRow := 0

	first := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		trimFields(record)

		if first {
			first = false
			width = len(record)
			if headerRecord(record, opts.Header) {
				headers = record
				continue
			}
		}

		dataRow++
		if len(record) != width {
			return nil, &table.MalformedRowError{Row: dataRow, Expected: width, Actual: len(record)}
		}
		rows = append(rows, record)
	}

	return table.New(headers, rows)
}

// LoadFile opens path and loads it through a buffered reader.
func LoadFile(path string, opts Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	t, err := Load(bufio.NewReader(f), opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// FromSheet constructs a Table from an already-parsed spreadsheet sheet
// (headers plus rows from the first sheet). The width invariant matches
// the delimited-text path exactly.
func FromSheet(headers []string, rows [][]string) (*table.Table, error) {
	width := len(headers)
	if width == 0 && len(rows) > 0 {
		width = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != width {
			return nil, &table.MalformedRowError{Row: i + 1, Expected: width, Actual: len(row)}
		}
	}
	if len(headers) == 0 {
		headers = nil
	}
	return table.New(headers, rows)
}

// headerRecord decides whether the first record is a header row.
func headerRecord(record []string, mode HeaderMode) bool {
	switch mode {
	case HeaderPresent:
		return true
	case HeaderAbsent:
		return false
	}
	if len(record) == 0 {
		return false
	}
	// A first record whose every non-empty field parses as a number is
	// overwhelmingly a data row.
	numeric := 0
	for _, f := range record {
		if f == "" {
			continue
		}
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return true
		}
		numeric++
	}
	return numeric == 0
}

func trimFields(record []string) {
	for i, f := range record {
		record[i] = strings.TrimSpace(f)
	}
}
