package ui

import (
	"github.com/charmbracelet/bubbles/table"
)

const (
	minColWidth = 4
	maxColWidth = 32
)

// refreshRows reloads the table from the rows currently attached to the
// document, so the order shown is the order in the tree.
func (m *Model) refreshRows() {
	m.rowIdx = m.w.MaterializedRows()
	rows := make([]table.Row, 0, len(m.rowIdx))
	for _, i := range m.rowIdx {
		cells := m.w.RowText(i)
		// short rows are legal past the filtered columns
		for len(cells) < len(m.headers) {
			cells = append(cells, "")
		}
		rows = append(rows, table.Row(cells))
	}
	m.tbl.SetColumns(m.columns(rows))
	m.tbl.SetRows(rows)
	if c := m.tbl.Cursor(); c >= len(rows) {
		m.tbl.SetCursor(len(rows) - 1)
	}
	if m.tbl.Cursor() < 0 && len(rows) > 0 {
		m.tbl.SetCursor(0)
	}
}

func (m *Model) columns(rows []table.Row) []table.Column {
	widths := m.computeWidths(rows)
	cols := make([]table.Column, len(m.headers))
	for c, h := range m.headers {
		cols[c] = table.Column{Title: h, Width: widths[c]}
	}
	return cols
}

// computeWidths sizes each column to its widest cell, then shrinks the widest
// columns until the table fits the terminal.
func (m *Model) computeWidths(rows []table.Row) []int {
	widths := make([]int, len(m.headers))
	for c, h := range m.headers {
		widths[c] = clamp(runeLen(h), minColWidth, maxColWidth)
	}
	for _, r := range rows {
		for c := range widths {
			if c < len(r) {
				if n := runeLen(r[c]); n > widths[c] {
					widths[c] = clamp(n, minColWidth, maxColWidth)
				}
			}
		}
	}
	// one cell of padding per column
	avail := m.termWidth - len(widths)
	for sum(widths) > avail {
		wi := 0
		for c := range widths {
			if widths[c] > widths[wi] {
				wi = c
			}
		}
		if widths[wi] <= minColWidth {
			break
		}
		widths[wi]--
	}
	return widths
}

// cursorRow returns the snapshot index of the row under the cursor.
func (m *Model) cursorRow() (int, bool) {
	c := m.tbl.Cursor()
	if c < 0 || c >= len(m.rowIdx) {
		return 0, false
	}
	return m.rowIdx[c], true
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func sum(xs []int) int {
	t := 0
	for _, x := range xs {
		t += x
	}
	return t
}
