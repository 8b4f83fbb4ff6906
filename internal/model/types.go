package model

import "sort"

// Row is one body row of a filtered table as captured at snapshot time.
type Row struct {
	Index   int      `json:"index"`
	Cells   []string `json:"cells"`
	Visible bool     `json:"visible"`
}

// Selections maps a filtered column to its selected value. A missing key is
// the default "no filter" selection.
type Selections map[int]string

// Get returns the selected value for col and whether a filter is set.
func (s Selections) Get(col int) (string, bool) {
	v, ok := s[col]
	return v, ok
}

// Without returns a copy of s with col cleared.
func (s Selections) Without(col int) Selections {
	out := make(Selections, len(s))
	for k, v := range s {
		if k != col {
			out[k] = v
		}
	}
	return out
}

// Columns returns the columns carrying a filter in ascending order.
func (s Selections) Columns() []int {
	cols := make([]int, 0, len(s))
	for k := range s {
		cols = append(cols, k)
	}
	sort.Ints(cols)
	return cols
}

// AllColumns is the NumberOfColumns value that attaches a filter to every column.
const AllColumns = -1

// Options configures a filter widget.
type Options struct {
	// EmptyFilterText is the label and value of every column's default option.
	EmptyFilterText string `mapstructure:"emptyFilterText" json:"emptyFilterText"`
	// SortFilterValues sorts option lists by code point instead of first occurrence.
	SortFilterValues bool `mapstructure:"sortFilterValues" json:"sortFilterValues"`
	// NumberOfColumns limits filters to the first n columns; AllColumns means every column.
	NumberOfColumns int `mapstructure:"numberOfColumns" json:"numberOfColumns"`
}

func DefaultOptions() Options {
	return Options{
		EmptyFilterText:  "",
		SortFilterValues: true,
		NumberOfColumns:  AllColumns,
	}
}

// FilteredColumns returns how many of total columns receive a filter control.
func (o Options) FilteredColumns(total int) int {
	if total < 0 {
		total = 0
	}
	if o.NumberOfColumns == AllColumns {
		return total
	}
	n := o.NumberOfColumns
	if n > total {
		n = total
	}
	if n < 0 {
		n = 0
	}
	return n
}

// Normalize drops selections equal to the sentinel so they read as "no filter".
func (o Options) Normalize(s Selections) Selections {
	out := make(Selections, len(s))
	for k, v := range s {
		if v == o.EmptyFilterText {
			continue
		}
		out[k] = v
	}
	return out
}
