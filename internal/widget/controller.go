package widget

import (
	"fmt"
	"time"

	"tabfilter/internal/filter"
	"tabfilter/internal/model"
	"tabfilter/internal/util"
	"tabfilter/internal/util/logx"
)

// Change is a user selecting Value in column Column's control. Selecting the
// default option clears the column's filter.
type Change struct {
	Column int
	Value  string
}

// Reset is the Change that puts col back on its default option.
func (w *Widget) Reset(col int) Change {
	return Change{Column: col, Value: w.opts.EmptyFilterText}
}

// State summarizes the widget after a completed cycle.
type State struct {
	Selections model.Selections
	Visible    []int
	Options    [][]string
	Mutations  int
	Elapsed    time.Duration
}

// OnChange registers fn to run after every completed cycle. A Dispatch issued
// from fn is queued and handled once the current cycle has returned.
func (w *Widget) OnChange(fn func(State)) {
	w.observers = append(w.observers, fn)
}

// Dispatch applies c to its control and recomputes the widget. The value must
// be one of the control's current options.
func (w *Widget) Dispatch(c Change) error {
	if w.busy {
		w.pending = append(w.pending, c)
		return nil
	}
	if err := w.apply(c); err != nil {
		return err
	}
	for len(w.pending) > 0 {
		next := w.pending[0]
		w.pending = w.pending[1:]
		if err := w.apply(next); err != nil {
			logx.Warnf("tabfilter: dropped queued change on column %d to %s", next.Column, util.LogValue(next.Value))
		}
	}
	return nil
}

func (w *Widget) apply(c Change) error {
	if c.Column < 0 || c.Column >= w.columns {
		return fmt.Errorf("%w: %d", ErrUnknownColumn, c.Column)
	}
	if !w.ad.setSelected(c.Column, c.Value) {
		return fmt.Errorf("%w: column %d value %q", ErrUnknownOption, c.Column, c.Value)
	}
	w.busy = true
	defer func() { w.busy = false }()
	st := w.recompute()
	for _, fn := range w.observers {
		fn(st)
	}
	return nil
}

// recompute is one cycle. Selections are read once per pass; when a column's
// selection is no longer offered it falls back to the default and the pass
// repeats so the rows always match the controls.
func (w *Widget) recompute() State {
	start := time.Now()
	st := State{}
	for pass := 0; pass <= w.columns; pass++ {
		sel := w.ad.readSelections(w.opts)
		w.rows = filter.Visibility(w.rows, sel)
		st.Mutations += w.ad.applyVisibility(w.rows)

		stale := false
		st.Options = make([][]string, w.columns)
		for col := 0; col < w.columns; col++ {
			prev, had := sel.Get(col)
			opts := filter.OptionsFor(col, w.rows, sel, w.opts)
			keep := had && filter.Contains(opts, prev)
			if had && !keep {
				logx.Debugf("tabfilter: column %d value %s no longer offered, reset", col, util.LogValue(prev))
				stale = true
			}
			w.ad.rebuildOptions(col, opts, prev, keep)
			st.Options[col] = opts
		}
		if !stale {
			st.Selections = sel
			break
		}
	}
	if st.Selections == nil {
		st.Selections = w.ad.readSelections(w.opts)
	}
	st.Visible = w.VisibleRows()
	st.Elapsed = time.Since(start)
	w.cycles++
	return st
}
