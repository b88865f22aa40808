// Package filter computes the subset of row indices matching a condition
// set. The result is always a subsequence of the base order passed in:
// filtering never reorders rows relative to the active sort.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gridline-labs/gridline/internal/table"
)

// Operator compares a cell against a condition value. Text comparisons are
// case-insensitive; ordering comparisons require a Number column.
type Operator int

const (
	Equals Operator = iota
	NotEquals
	Contains
	NotContains
	StartsWith
	EndsWith
	GreaterThan
	LessThan
	GreaterOrEqual
	LessOrEqual
	IsEmpty
)

var operatorNames = map[Operator]string{
	Equals:         "eq",
	NotEquals:      "ne",
	Contains:       "contains",
	NotContains:    "not-contains",
	StartsWith:     "starts-with",
	EndsWith:       "ends-with",
	GreaterThan:    ">",
	LessThan:       "<",
	GreaterOrEqual: ">=",
	LessOrEqual:    "<=",
	IsEmpty:        "empty",
}

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// ParseOperator maps a CLI/config spelling to an Operator.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eq", "=", "==", "equals":
		return Equals, nil
	case "ne", "!=", "<>", "not-equals":
		return NotEquals, nil
	case "contains":
		return Contains, nil
	case "not-contains":
		return NotContains, nil
	case "starts-with", "startswith":
		return StartsWith, nil
	case "ends-with", "endswith":
		return EndsWith, nil
	case ">", "gt":
		return GreaterThan, nil
	case "<", "lt":
		return LessThan, nil
	case ">=", "ge", "gte":
		return GreaterOrEqual, nil
	case "<=", "le", "lte":
		return LessOrEqual, nil
	case "empty", "is-empty":
		return IsEmpty, nil
	}
	return Equals, fmt.Errorf("unknown filter operator %q", s)
}

// ordering reports whether the operator compares magnitudes, which is only
// defined for Number columns.
func (op Operator) ordering() bool {
	switch op {
	case GreaterThan, LessThan, GreaterOrEqual, LessOrEqual:
		return true
	}
	return false
}

// Combinator joins multiple conditions.
type Combinator int

const (
	// All requires every condition to hold (AND).
	All Combinator = iota
	// Any requires at least one condition to hold (OR).
	Any
)

func (c Combinator) String() string {
	if c == Any {
		return "any"
	}
	return "all"
}

// Condition is a single column predicate.
type Condition struct {
	Column   int
	Operator Operator
	Value    string
}

// Set is an ordered sequence of conditions joined by a combinator. The
// zero value (no conditions) means "no filter": every row passes, which is
// the canonical way to clear a filter.
type Set struct {
	Conditions []Condition
	Combinator Combinator
}

// Empty reports whether the set filters nothing.
func (s Set) Empty() bool { return len(s.Conditions) == 0 }

// Validate checks every condition against the table shape and column
// types before any row is evaluated.
func (s Set) Validate(t *table.Table) error {
	for _, c := range s.Conditions {
		typ, err := t.Type(c.Column)
		if err != nil {
			return err
		}
		if c.Operator.ordering() && typ != table.Number {
			return &table.UnsupportedOperatorError{Operator: c.Operator.String(), Column: c.Column, Type: typ}
		}
	}
	return nil
}

// compiled carries per-condition state computed once per Apply.
type compiled struct {
	cond     Condition
	value    string  // lowercased for text matching
	num      float64 // parsed condition value for ordering/number ops
	numValid bool
}

func compile(set Set) []compiled {
	out := make([]compiled, len(set.Conditions))
	for i, c := range set.Conditions {
		cc := compiled{cond: c, value: strings.ToLower(c.Value)}
		if v, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64); err == nil {
			cc.num = v
			cc.numValid = true
		}
		out[i] = cc
	}
	return out
}

// matches evaluates one condition against one row.
func (c *compiled) matches(row []string, typ table.ColType) bool {
	cell := row[c.cond.Column]
	switch c.cond.Operator {
	case Equals:
		if typ == table.Number {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			return err == nil && c.numValid && v == c.num
		}
		return strings.EqualFold(cell, c.cond.Value)
	case NotEquals:
		if typ == table.Number {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			return err != nil || !c.numValid || v != c.num
		}
		return !strings.EqualFold(cell, c.cond.Value)
	case Contains:
		return strings.Contains(strings.ToLower(cell), c.value)
	case NotContains:
		return !strings.Contains(strings.ToLower(cell), c.value)
	case StartsWith:
		return strings.HasPrefix(strings.ToLower(cell), c.value)
	case EndsWith:
		return strings.HasSuffix(strings.ToLower(cell), c.value)
	case GreaterThan, LessThan, GreaterOrEqual, LessOrEqual:
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || !c.numValid {
			return false
		}
		switch c.cond.Operator {
		case GreaterThan:
			return v > c.num
		case LessThan:
			return v < c.num
		case GreaterOrEqual:
			return v >= c.num
		default:
			return v <= c.num
		}
	case IsEmpty:
		return strings.TrimSpace(cell) == ""
	}
	return false
}

// rowMatches combines the compiled conditions under the set's combinator.
func rowMatches(row []string, types []table.ColType, conds []compiled, comb Combinator) bool {
	if comb == Any {
		for i := range conds {
			if conds[i].matches(row, types[conds[i].cond.Column]) {
				return true
			}
		}
		return false
	}
	for i := range conds {
		if !conds[i].matches(row, types[conds[i].cond.Column]) {
			return false
		}
	}
	return true
}
