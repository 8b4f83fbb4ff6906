// Package widget attaches per-column filter controls to an HTML table held in
// memory and keeps the table body and the controls consistent as selections
// change.
//
// A Widget is driven by Change events passed to Dispatch. Each event runs one
// synchronous cycle: read every control, decide row visibility, show or hide
// row elements in original order, then rebuild every control's options from
// the rows visible under the other columns' selections. A Widget is not safe
// for concurrent use.
package widget

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/net/html"

	"tabfilter/internal/dom"
	"tabfilter/internal/filter"
	"tabfilter/internal/model"
	"tabfilter/internal/snapshot"
	"tabfilter/internal/util/logx"
)

// registry remembers attached tables for the life of the process.
var (
	registryMu sync.Mutex
	registry   = map[*html.Node]*Widget{}
)

// Widget is a filter widget bound to one table.
type Widget struct {
	selector string
	table    *html.Node
	opts     model.Options
	total    int
	columns  int
	rows     []model.Row
	ad       *adapter

	busy      bool
	pending   []Change
	observers []func(State)
	cycles    int
}

// Attach resolves selector under doc to a <table>, snapshots its body rows
// and appends the filter controls. Failures are reported on the diagnostic
// log and returned; the table is left untouched when attach fails. Attaching
// to a table that already has a widget returns that widget.
func Attach(doc *html.Node, selector string, opts model.Options) (*Widget, error) {
	w, err := attach(doc, selector, opts)
	if err != nil {
		logx.Errorf("tabfilter: %v", err)
		return nil, err
	}
	return w, nil
}

func attach(doc *html.Node, selector string, opts model.Options) (*Widget, error) {
	n, err := dom.Resolve(doc, selector)
	if err != nil {
		return nil, &ResolutionError{Selector: selector, Err: err}
	}
	if !dom.IsTable(n) {
		return nil, &ResolutionError{Selector: selector, Err: fmt.Errorf("%w: matched <%s>", ErrNotTable, n.Data)}
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if w, ok := registry[n]; ok {
		logx.Debugf("tabfilter: %q already attached, skipping", selector)
		return w, nil
	}

	total := snapshot.HeaderCount(n)
	columns := opts.FilteredColumns(total)
	snap, err := snapshot.Build(n, columns)
	if err != nil {
		return nil, fmt.Errorf("attach %q: %w", selector, err)
	}

	w := &Widget{
		selector: selector,
		table:    n,
		opts:     opts,
		total:    total,
		columns:  columns,
		rows:     snap.Rows,
		ad:       newAdapter(n, snap),
	}
	if stale := w.ad.dropStaleControls(); stale > 0 {
		logx.Debugf("tabfilter: %q replaced %d filter row(s) already in the document", selector, stale)
	}
	w.ad.buildControls(total, columns, filter.AllOptions(columns, w.rows, model.Selections{}, opts))
	registry[n] = w
	logx.Infof("tabfilter: attached %q rows=%d columns=%d filtered=%d", selector, snap.Len(), total, columns)
	return w, nil
}

// IsResolutionError reports whether err came from selector resolution.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// IsMalformedRow reports whether err came from a short body row.
func IsMalformedRow(err error) bool {
	var me *MalformedRowError
	return errors.As(err, &me)
}

func (w *Widget) Table() *html.Node { return w.table }

func (w *Widget) Selector() string { return w.selector }

func (w *Widget) Config() model.Options { return w.opts }

// TotalColumns is the number of columns of the table.
func (w *Widget) TotalColumns() int { return w.total }

// Columns is the number of filtered columns.
func (w *Widget) Columns() int { return w.columns }

// Rows returns a copy of the snapshot with the current visibility flags.
func (w *Widget) Rows() []model.Row {
	out := make([]model.Row, len(w.rows))
	copy(out, w.rows)
	return out
}

// Selections reads the current selection of every control.
func (w *Widget) Selections() model.Selections {
	return w.ad.readSelections(w.opts)
}

// Options returns the values currently offered by column col's control.
func (w *Widget) Options(col int) []string {
	if col < 0 || col >= w.columns {
		return nil
	}
	return w.ad.options(col)
}

// VisibleRows returns the indices of logically visible rows, ascending.
func (w *Widget) VisibleRows() []int {
	out := make([]int, 0, len(w.rows))
	for _, r := range w.rows {
		if r.Visible {
			out = append(out, r.Index)
		}
	}
	return out
}

// MaterializedRows returns the indices of the rows attached to the tree, in
// document order.
func (w *Widget) MaterializedRows() []int {
	return w.ad.materializedOrder()
}

// RowText returns the normalized text of every cell of row i.
func (w *Widget) RowText(i int) []string {
	if i < 0 || i >= len(w.ad.elements) {
		return nil
	}
	cells := dom.Cells(w.ad.elements[i])
	out := make([]string, len(cells))
	for c, n := range cells {
		out[c] = dom.CellText(n)
	}
	return out
}

// Headers returns one title per column: the text of the last header row
// that is not a filter row, or "column N" when the table has none.
func (w *Widget) Headers() []string {
	out := make([]string, w.total)
	var titles []*html.Node
	if rows := snapshot.HeaderRows(w.table); len(rows) > 0 {
		titles = dom.Cells(rows[len(rows)-1])
	}
	for c := range out {
		if c < len(titles) {
			out[c] = dom.CellText(titles[c])
		} else {
			out[c] = fmt.Sprintf("column %d", c)
		}
	}
	return out
}

// Cycles is the number of completed recomputation cycles.
func (w *Widget) Cycles() int { return w.cycles }
