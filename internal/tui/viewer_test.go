package tui

import (
	"testing"

	"github.com/gridline-labs/gridline/internal/filter"
)

func TestParseFilter(t *testing.T) {
	m := Model{selCol: 1}

	set, err := m.parseFilter("> 26")
	if err != nil {
		t.Fatalf("parseFilter: %v", err)
	}
	if len(set.Conditions) != 1 {
		t.Fatalf("got %d conditions", len(set.Conditions))
	}
	cond := set.Conditions[0]
	if cond.Column != 1 || cond.Operator != filter.GreaterThan || cond.Value != "26" {
		t.Errorf("unexpected condition: %+v", cond)
	}

	set, err = m.parseFilter("contains van der")
	if err != nil {
		t.Fatalf("parseFilter: %v", err)
	}
	if got := set.Conditions[0].Value; got != "van der" {
		t.Errorf("value %q, want %q", got, "van der")
	}

	set, err = m.parseFilter("empty")
	if err != nil {
		t.Fatalf("parseFilter: %v", err)
	}
	if set.Conditions[0].Operator != filter.IsEmpty {
		t.Errorf("unexpected operator: %v", set.Conditions[0].Operator)
	}

	if _, err := m.parseFilter("between 1 2"); err == nil {
		t.Error("expected error for unknown operator")
	}
}
