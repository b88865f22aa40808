package sorter

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/gridline-labs/gridline/internal/table"
)

func typedTable(t *testing.T, headers []string, rows [][]string, types []table.ColType) *table.Table {
	t.Helper()
	tbl, err := table.New(headers, rows)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	tbl.SetTypes(types)
	return tbl
}

func peopleTable(t *testing.T) *table.Table {
	return typedTable(t,
		[]string{"name", "age"},
		[][]string{{"Alice", "30"}, {"Bob", "25"}},
		[]table.ColType{table.Text, table.Number},
	)
}

func equalOrder(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("order length %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestOrder_NumericAscending(t *testing.T) {
	tbl := peopleTable(t)
	order, err := Order(tbl, nil, 1, Ascending, Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	equalOrder(t, order, []int{1, 0}) // Bob (25) before Alice (30)
}

func TestOrder_NumericDescending(t *testing.T) {
	tbl := peopleTable(t)
	order, err := Order(tbl, nil, 1, Descending, Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	equalOrder(t, order, []int{0, 1})
}

func TestOrder_TextAscending(t *testing.T) {
	tbl := typedTable(t, nil,
		[][]string{{"banana"}, {"apple"}, {"cherry"}},
		[]table.ColType{table.Text},
	)
	order, err := Order(tbl, nil, 0, Ascending, Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	equalOrder(t, order, []int{1, 0, 2})
}

func TestOrder_NonNumericSinksToStart(t *testing.T) {
	tbl := typedTable(t, nil,
		[][]string{{"10"}, {"n/a"}, {"2"}, {"-"}, {"7"}},
		[]table.ColType{table.Number},
	)
	asc, err := Order(tbl, nil, 0, Ascending, Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	// Unparseable cells sort below every number and tie among
	// themselves in base order.
	equalOrder(t, asc, []int{1, 3, 2, 4, 0})

	desc, err := Order(tbl, nil, 0, Descending, Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	equalOrder(t, desc, []int{0, 4, 2, 1, 3})
}

func TestOrder_TiesKeepBaseOrderBothDirections(t *testing.T) {
	tbl := typedTable(t, nil,
		[][]string{{"5"}, {"5"}, {"1"}, {"5"}},
		[]table.ColType{table.Number},
	)
	asc, err := Order(tbl, nil, 0, Ascending, Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	equalOrder(t, asc, []int{2, 0, 1, 3})

	// Descending reverses the keys but never the tie order.
	desc, err := Order(tbl, nil, 0, Descending, Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	equalOrder(t, desc, []int{0, 1, 3, 2})
}

func TestOrder_SecondarySortComposition(t *testing.T) {
	tbl := typedTable(t,
		[]string{"city", "age"},
		[][]string{
			{"Oslo", "30"},
			{"Bergen", "25"},
			{"Oslo", "25"},
			{"Bergen", "30"},
		},
		[]table.ColType{table.Text, table.Number},
	)

	byAge, err := Order(tbl, nil, 1, Ascending, Options{})
	if err != nil {
		t.Fatalf("Order by age: %v", err)
	}
	equalOrder(t, byAge, []int{1, 2, 0, 3})

	// Sorting by city with the age order as base keeps age order among
	// city ties: the second sort acts as the primary key.
	byCity, err := Order(tbl, byAge, 0, Ascending, Options{})
	if err != nil {
		t.Fatalf("Order by city: %v", err)
	}
	equalOrder(t, byCity, []int{1, 3, 2, 0})
}

func TestOrder_Idempotent(t *testing.T) {
	tbl := typedTable(t, nil,
		[][]string{{"3"}, {"1"}, {"2"}, {"1"}},
		[]table.ColType{table.Number},
	)
	first, err := Order(tbl, nil, 0, Ascending, Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	second, err := Order(tbl, first, 0, Ascending, Options{})
	if err != nil {
		t.Fatalf("Order again: %v", err)
	}
	equalOrder(t, second, first)
}

func TestOrder_InvalidColumn(t *testing.T) {
	tbl := peopleTable(t)
	_, err := Order(tbl, nil, 5, Ascending, Options{})
	var colErr *table.InvalidColumnError
	if !errors.As(err, &colErr) {
		t.Fatalf("expected InvalidColumnError, got %v", err)
	}
	if colErr.Column != 5 || colErr.Columns != 2 {
		t.Errorf("unexpected error detail: %+v", colErr)
	}
}

func TestOrder_DoesNotMutateBase(t *testing.T) {
	tbl := peopleTable(t)
	base := []int{0, 1}
	if _, err := Order(tbl, base, 1, Ascending, Options{}); err != nil {
		t.Fatalf("Order: %v", err)
	}
	if base[0] != 0 || base[1] != 1 {
		t.Errorf("base order mutated: %v", base)
	}
}

func TestOrder_ParallelMatchesSequential(t *testing.T) {
	const n = 2000
	rng := rand.New(rand.NewSource(42))
	rows := make([][]string, n)
	for i := range rows {
		// Heavy duplication plus scattered unparseables to stress the
		// tie-break and the outlier policy across chunk boundaries.
		switch rng.Intn(10) {
		case 0:
			rows[i] = []string{"n/a"}
		default:
			rows[i] = []string{strconv.Itoa(rng.Intn(50))}
		}
	}
	tbl := typedTable(t, nil, rows, []table.ColType{table.Number})

	for _, dir := range []Direction{Ascending, Descending} {
		seq, err := Order(tbl, nil, 0, dir, Options{Workers: 1})
		if err != nil {
			t.Fatalf("sequential Order: %v", err)
		}
		par, err := Order(tbl, nil, 0, dir, Options{Workers: 4, ParallelThreshold: 10})
		if err != nil {
			t.Fatalf("parallel Order: %v", err)
		}
		equalOrder(t, par, seq)
	}
}

func TestOrder_PermutationInvariant(t *testing.T) {
	tbl := typedTable(t, nil,
		[][]string{{"c"}, {"a"}, {"b"}, {"a"}},
		[]table.ColType{table.Text},
	)
	order, err := Order(tbl, nil, 0, Descending, Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	seen := make(map[int]bool, len(order))
	for _, row := range order {
		if row < 0 || row >= tbl.RowCount() || seen[row] {
			t.Fatalf("not a permutation: %v", order)
		}
		seen[row] = true
	}
}
