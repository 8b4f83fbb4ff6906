// Package snapshot captures the text of a table's body rows once, before any
// filter control exists, so later filtering never reads its own output.
package snapshot

import (
	"fmt"

	"golang.org/x/net/html"

	"tabfilter/internal/dom"
	"tabfilter/internal/model"
)

// MalformedRowError reports a body row with fewer cells than filtered columns.
type MalformedRowError struct {
	Row   int // 0-based position among body rows
	Cells int
	Want  int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row %d: has %d cells, need at least %d", e.Row, e.Cells, e.Want)
}

// Snapshot is the captured table: the rows' values alongside the live <tr>
// elements and the sections that own them.
type Snapshot struct {
	Rows     []model.Row
	Elements []*html.Node
	Sections []*html.Node // Sections[i] is the original parent of Elements[i]
}

// FilterRowClass marks the row of filter controls inside <thead>.
const FilterRowClass = "tabfilter-row"

// HeaderRows returns the <thead> rows that are not filter control rows,
// including rows left behind by an earlier render of the document.
func HeaderRows(table *html.Node) []*html.Node {
	head := dom.Head(table)
	if head == nil {
		return nil
	}
	var out []*html.Node
	for _, tr := range dom.Rows(head) {
		if dom.HasClass(tr, FilterRowClass) {
			continue
		}
		out = append(out, tr)
	}
	return out
}

// HeaderCount returns the number of columns of table: the cell count of the
// last header row, else of the first body row.
func HeaderCount(table *html.Node) int {
	if rows := HeaderRows(table); len(rows) > 0 {
		return len(dom.Cells(rows[len(rows)-1]))
	}
	for _, s := range dom.BodySections(table) {
		if rows := dom.Rows(s); len(rows) > 0 {
			return len(dom.Cells(rows[0]))
		}
	}
	return 0
}

// Build reads the first columns cells of every body row.
func Build(table *html.Node, columns int) (*Snapshot, error) {
	s := &Snapshot{}
	idx := 0
	for _, section := range dom.BodySections(table) {
		for _, tr := range dom.Rows(section) {
			cells := dom.Cells(tr)
			if len(cells) < columns {
				return nil, &MalformedRowError{Row: idx, Cells: len(cells), Want: columns}
			}
			values := make([]string, columns)
			for c := 0; c < columns; c++ {
				values[c] = dom.CellText(cells[c])
			}
			s.Rows = append(s.Rows, model.Row{Index: idx, Cells: values, Visible: true})
			s.Elements = append(s.Elements, tr)
			s.Sections = append(s.Sections, section)
			idx++
		}
	}
	return s, nil
}

// Len returns the number of captured rows.
func (s *Snapshot) Len() int { return len(s.Rows) }
