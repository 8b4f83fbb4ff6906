package widget

import (
	"strconv"

	"golang.org/x/net/html"

	"tabfilter/internal/dom"
	"tabfilter/internal/model"
	"tabfilter/internal/snapshot"
)

const (
	filterRowClass = snapshot.FilterRowClass
	controlClass   = "tabfilter"
	emptyCellClass = "tabfilter-empty"
	columnAttr     = "data-column"
)

// adapter is the only code that mutates the table's node tree.
type adapter struct {
	table    *html.Node
	controls []*html.Node // <select> per filtered column
	elements []*html.Node
	sections []*html.Node
	index    map[*html.Node]int
}

func newAdapter(table *html.Node, snap *snapshot.Snapshot) *adapter {
	a := &adapter{
		table:    table,
		elements: snap.Elements,
		sections: snap.Sections,
		index:    make(map[*html.Node]int, len(snap.Elements)),
	}
	for i, el := range snap.Elements {
		a.index[el] = i
	}
	return a
}

// dropStaleControls removes filter rows that came with the document, as in a
// re-loaded HTML export. It returns how many were removed.
func (a *adapter) dropStaleControls() int {
	head := dom.Head(a.table)
	if head == nil {
		return 0
	}
	n := 0
	for _, tr := range dom.Rows(head) {
		if dom.HasClass(tr, filterRowClass) {
			head.RemoveChild(tr)
			n++
		}
	}
	return n
}

// buildControls appends the filter row: a <select> for each of the first
// filtered columns and an empty marker cell for the rest.
func (a *adapter) buildControls(total, filtered int, options [][]string) {
	head := dom.EnsureHead(a.table)
	tr := dom.Element("tr", html.Attribute{Key: "class", Val: filterRowClass})
	a.controls = make([]*html.Node, filtered)
	for c := 0; c < total; c++ {
		th := dom.Element("th")
		if c < filtered {
			sel := dom.Element("select",
				html.Attribute{Key: "class", Val: controlClass},
				html.Attribute{Key: columnAttr, Val: strconv.Itoa(c)},
			)
			th.AppendChild(sel)
			a.controls[c] = sel
			a.rebuildOptions(c, options[c], "", false)
		} else {
			dom.SetAttr(th, "class", emptyCellClass)
		}
		tr.AppendChild(th)
	}
	head.AppendChild(tr)
}

// readSelections reads the selected option of every control. A control with
// no explicitly selected option is on its first (default) option.
func (a *adapter) readSelections(opts model.Options) model.Selections {
	sel := model.Selections{}
	for c, ctl := range a.controls {
		if v, ok := selectedValue(ctl); ok {
			sel[c] = v
		}
	}
	return opts.Normalize(sel)
}

func selectedValue(ctl *html.Node) (string, bool) {
	var first *html.Node
	for o := ctl.FirstChild; o != nil; o = o.NextSibling {
		if o.Type != html.ElementNode {
			continue
		}
		if first == nil {
			first = o
		}
		if dom.HasAttr(o, "selected") {
			return optionValue(o), true
		}
	}
	if first == nil {
		return "", false
	}
	return optionValue(first), true
}

func optionValue(o *html.Node) string {
	if v, ok := dom.Attr(o, "value"); ok {
		return v
	}
	return dom.CollapseSpace(dom.Text(o))
}

// options lists the values currently offered by control col.
func (a *adapter) options(col int) []string {
	var out []string
	for o := a.controls[col].FirstChild; o != nil; o = o.NextSibling {
		if o.Type == html.ElementNode {
			out = append(out, optionValue(o))
		}
	}
	return out
}

// setSelected marks the first option of col whose value is value as selected.
// It reports false when no such option exists.
func (a *adapter) setSelected(col int, value string) bool {
	var target *html.Node
	for o := a.controls[col].FirstChild; o != nil; o = o.NextSibling {
		if o.Type == html.ElementNode && target == nil && optionValue(o) == value {
			target = o
		}
	}
	if target == nil {
		return false
	}
	for o := a.controls[col].FirstChild; o != nil; o = o.NextSibling {
		if o.Type == html.ElementNode {
			dom.RemoveAttr(o, "selected")
		}
	}
	dom.SetAttr(target, "selected", "")
	return true
}

// rebuildOptions replaces the options of col. When keep is set, the option
// equal to selected (other than the default) is reselected.
func (a *adapter) rebuildOptions(col int, values []string, selected string, keep bool) {
	ctl := a.controls[col]
	dom.RemoveChildren(ctl)
	for i, v := range values {
		o := dom.Element("option", html.Attribute{Key: "value", Val: v})
		o.AppendChild(dom.TextNode(v))
		if keep && i > 0 && v == selected {
			dom.SetAttr(o, "selected", "")
			keep = false
		}
		ctl.AppendChild(o)
	}
}

func (a *adapter) materialized(i int) bool {
	return a.elements[i].Parent == a.sections[i]
}

// applyVisibility shows and hides row elements to match rows[i].Visible and
// returns the number of insertions and removals. Rows are settled from the
// highest index down so every shown row's successor is already in place.
func (a *adapter) applyVisibility(rows []model.Row) int {
	mutations := 0
	for i := len(rows) - 1; i >= 0; i-- {
		want := rows[i].Visible
		if want == a.materialized(i) {
			continue
		}
		el, sec := a.elements[i], a.sections[i]
		if !want {
			sec.RemoveChild(el)
			mutations++
			continue
		}
		var next *html.Node
		for j := i + 1; j < len(rows); j++ {
			if rows[j].Visible && a.sections[j] == sec {
				next = a.elements[j]
				break
			}
		}
		if next != nil {
			sec.InsertBefore(el, next)
		} else {
			sec.AppendChild(el)
		}
		mutations++
	}
	return mutations
}

// materializedOrder walks the live tree and returns the snapshot index of
// every row element currently attached, in document order.
func (a *adapter) materializedOrder() []int {
	var out []int
	seen := map[*html.Node]bool{}
	for _, sec := range a.sections {
		if seen[sec] {
			continue
		}
		seen[sec] = true
		for _, tr := range dom.Rows(sec) {
			if i, ok := a.index[tr]; ok {
				out = append(out, i)
			}
		}
	}
	return out
}
