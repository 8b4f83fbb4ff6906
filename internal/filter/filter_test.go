package filter

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabfilter/internal/model"
)

func people() []model.Row {
	return []model.Row{
		{Index: 0, Cells: []string{"John", "49"}},
		{Index: 1, Cells: []string{"Anne", "22"}},
	}
}

func TestVisibilityNoSelection(t *testing.T) {
	rows := Visibility(people(), model.Selections{})
	for _, r := range rows {
		assert.True(t, r.Visible, "row %d", r.Index)
	}
}

func TestVisibilitySingleColumn(t *testing.T) {
	rows := Visibility(people(), model.Selections{0: "Anne"})
	assert.False(t, rows[0].Visible)
	assert.True(t, rows[1].Visible)
	assert.Len(t, rows, 2)
}

func TestVisibilityDoesNotMutateInput(t *testing.T) {
	in := people()
	_ = Visibility(in, model.Selections{0: "Anne"})
	assert.False(t, in[0].Visible)
	assert.False(t, in[1].Visible)
}

func TestOptionsForSortedScenario(t *testing.T) {
	opts := model.DefaultOptions()
	assert.Equal(t, []string{"", "Anne", "John"}, OptionsFor(0, people(), model.Selections{}, opts))
	assert.Equal(t, []string{"", "22", "49"}, OptionsFor(1, people(), model.Selections{}, opts))
	assert.Equal(t, []string{"", "22"}, OptionsFor(1, people(), model.Selections{0: "Anne"}, opts))
	// own selection is ignored
	assert.Equal(t, []string{"", "Anne", "John"}, OptionsFor(0, people(), model.Selections{0: "Anne"}, opts))
}

func TestOptionsForFirstOccurrenceOrder(t *testing.T) {
	rows := []model.Row{
		{Index: 0, Cells: []string{"b"}},
		{Index: 1, Cells: []string{"a"}},
		{Index: 2, Cells: []string{"b"}},
		{Index: 3, Cells: []string{"c"}},
	}
	opts := model.Options{EmptyFilterText: "(all)", SortFilterValues: false, NumberOfColumns: model.AllColumns}
	assert.Equal(t, []string{"(all)", "b", "a", "c"}, OptionsFor(0, rows, nil, opts))
}

func TestOptionsForSortsByCodePoint(t *testing.T) {
	rows := []model.Row{
		{Index: 0, Cells: []string{"b"}},
		{Index: 1, Cells: []string{"B"}},
		{Index: 2, Cells: []string{"é"}},
		{Index: 3, Cells: []string{"a"}},
	}
	got := OptionsFor(0, rows, nil, model.DefaultOptions())
	assert.Equal(t, []string{"", "B", "a", "b", "é"}, got)
}

func TestOptionsForSkipsSentinelValue(t *testing.T) {
	rows := []model.Row{
		{Index: 0, Cells: []string{""}},
		{Index: 1, Cells: []string{"x"}},
	}
	assert.Equal(t, []string{"", "x"}, OptionsFor(0, rows, nil, model.DefaultOptions()))
}

func TestOptionsForDeterministic(t *testing.T) {
	rows := randomRows(rand.New(rand.NewSource(7)), 200, 3, 5)
	sel := model.Selections{1: "v2"}
	first := OptionsFor(0, rows, sel, model.DefaultOptions())
	for i := 0; i < 10; i++ {
		require.Equal(t, first, OptionsFor(0, rows, sel, model.DefaultOptions()))
	}
}

// Property checks against a brute-force recomputation over random tables.
func TestVisibilityAndOptionsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	opts := model.DefaultOptions()
	for iter := 0; iter < 200; iter++ {
		cols := 1 + rng.Intn(4)
		rows := randomRows(rng, 1+rng.Intn(40), cols, 1+rng.Intn(4))
		sel := randomSelections(rng, rows, cols)

		vis := Visibility(rows, sel)
		for _, r := range vis {
			want := true
			for c := 0; c < cols; c++ {
				if v, ok := sel[c]; ok && r.Cells[c] != v {
					want = false
				}
			}
			require.Equal(t, want, r.Visible, "iter %d row %d sel %v", iter, r.Index, sel)
		}

		for c := 0; c < cols; c++ {
			got := OptionsFor(c, rows, sel, opts)
			require.Equal(t, "", got[0])
			set := map[string]struct{}{}
			for _, r := range rows {
				ok := true
				for oc, v := range sel {
					if oc != c && r.Cells[oc] != v {
						ok = false
					}
				}
				if ok {
					set[r.Cells[c]] = struct{}{}
				}
			}
			want := make([]string, 0, len(set))
			for v := range set {
				want = append(want, v)
			}
			sort.Strings(want)
			require.Equal(t, want, got[1:], "iter %d column %d sel %v", iter, c, sel)
		}
	}
}

func TestAllOptionsAndContains(t *testing.T) {
	all := AllOptions(2, people(), model.Selections{0: "Anne"}, model.DefaultOptions())
	require.Len(t, all, 2)
	assert.True(t, Contains(all[1], "22"))
	assert.False(t, Contains(all[1], "49"))
	assert.False(t, Contains(all[1], ""), "sentinel is not a value")
}

func randomRows(rng *rand.Rand, n, cols, card int) []model.Row {
	rows := make([]model.Row, n)
	for i := range rows {
		cells := make([]string, cols)
		for c := range cells {
			cells[c] = "v" + string(rune('0'+rng.Intn(card)))
		}
		rows[i] = model.Row{Index: i, Cells: cells}
	}
	return rows
}

func randomSelections(rng *rand.Rand, rows []model.Row, cols int) model.Selections {
	sel := model.Selections{}
	for c := 0; c < cols; c++ {
		if rng.Intn(3) == 0 && len(rows) > 0 {
			sel[c] = rows[rng.Intn(len(rows))].Cells[c]
		}
	}
	return sel
}
