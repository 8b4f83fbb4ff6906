package filter

import (
	"tabfilter/internal/model"
)

// Match reports whether row satisfies every non-default selection.
// Columns without a selection impose no constraint.
func Match(row model.Row, sel model.Selections) bool {
	for col, want := range sel {
		if col < 0 || col >= len(row.Cells) {
			return false
		}
		if row.Cells[col] != want {
			return false
		}
	}
	return true
}

// Visibility returns a copy of rows with Visible set according to sel.
// The input slice is not modified.
func Visibility(rows []model.Row, sel model.Selections) []model.Row {
	out := make([]model.Row, len(rows))
	for i, r := range rows {
		r.Visible = Match(r, sel)
		out[i] = r
	}
	return out
}
