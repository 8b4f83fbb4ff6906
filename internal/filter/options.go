package filter

import (
	"sort"

	"tabfilter/internal/model"
)

// OptionsFor returns the option list of column: the sentinel followed by the
// distinct values of that column among rows matching every other column's
// selection. The column's own selection is ignored so that a filtered column
// keeps offering its alternatives.
func OptionsFor(column int, rows []model.Row, sel model.Selections, opts model.Options) []string {
	others := sel.Without(column)
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range rows {
		if column < 0 || column >= len(r.Cells) {
			continue
		}
		if !Match(r, others) {
			continue
		}
		v := r.Cells[column]
		// the sentinel entry already stands for this value
		if v == opts.EmptyFilterText {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	if opts.SortFilterValues {
		sort.Strings(values)
	}
	return append([]string{opts.EmptyFilterText}, values...)
}

// AllOptions computes OptionsFor every column in 0..columns-1.
func AllOptions(columns int, rows []model.Row, sel model.Selections, opts model.Options) [][]string {
	out := make([][]string, columns)
	for c := 0; c < columns; c++ {
		out[c] = OptionsFor(c, rows, sel, opts)
	}
	return out
}

// Contains reports whether value is one of the non-sentinel entries of options.
func Contains(options []string, value string) bool {
	for i, o := range options {
		if i == 0 {
			continue
		}
		if o == value {
			return true
		}
	}
	return false
}
