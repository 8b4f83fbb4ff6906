package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tabfilter/internal/export"
	"tabfilter/internal/util"
	"tabfilter/internal/util/logx"
	"tabfilter/internal/widget"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		// filter bar, status line and table header
		h := msg.Height - 4
		if h < 1 {
			h = 1
		}
		m.tbl.SetHeight(h)
		m.tbl.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.refreshRows()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case selectionChangedMsg:
		m.applyChange(msg.change)
		return m, nil
	case exportDoneMsg:
		if msg.err != nil {
			logx.Errorf("export: %v", msg.err)
			m.lastMsg = "export failed: " + msg.err.Error()
		} else {
			logx.Infof("export: wrote %s", msg.path)
			m.lastMsg = "exported to " + msg.path
		}
		return m, nil
	case tea.KeyMsg:
		if m.modalActive {
			return m.updateModal(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	switch {
	case key.Matches(msg, km.Quit):
		return m, tea.Quit
	case key.Matches(msg, km.Left):
		if m.focus > 0 {
			m.focus--
		}
		return m, nil
	case key.Matches(msg, km.Right):
		if m.focus+1 < m.w.Columns() {
			m.focus++
		}
		return m, nil
	case key.Matches(msg, km.Open):
		m.openPicker()
		return m, nil
	case key.Matches(msg, km.Next):
		return m, m.step(1)
	case key.Matches(msg, km.Prev):
		return m, m.step(-1)
	case key.Matches(msg, km.Reset):
		if m.w.Columns() == 0 {
			return m, nil
		}
		return m, changeCmd(m.w.Reset(m.focus))
	case key.Matches(msg, km.ResetAll):
		cmds := m.resetAll()
		if len(cmds) == 0 {
			m.lastMsg = "no filters set"
			return m, nil
		}
		return m, tea.Sequence(cmds...)
	case key.Matches(msg, km.CopyRow):
		m.copyRow()
		return m, nil
	case key.Matches(msg, km.Export):
		return m, m.exportCmd()
	case key.Matches(msg, km.AppLogs):
		m.openAppLogsModal()
		return m, nil
	case key.Matches(msg, km.Help):
		m.openHelpModal()
		return m, nil
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	if m.modalKind == modalPicker {
		switch {
		case key.Matches(msg, km.Close):
			m.closeModal()
			return m, nil
		case key.Matches(msg, km.Up):
			if m.picker.sel > 0 {
				m.picker.sel--
			}
			m.modalVP.SetContent(m.renderPicker())
			return m, nil
		case key.Matches(msg, km.Down):
			if m.picker.sel+1 < len(m.picker.options) {
				m.picker.sel++
			}
			m.modalVP.SetContent(m.renderPicker())
			return m, nil
		case key.Matches(msg, km.Open):
			m.closeModal()
			if len(m.picker.options) == 0 {
				return m, nil
			}
			return m, changeCmd(widget.Change{Column: m.picker.column, Value: m.picker.options[m.picker.sel]})
		}
		return m, nil
	}
	if key.Matches(msg, km.Close) || key.Matches(msg, km.Open) || msg.String() == "q" || msg.String() == "?" {
		m.closeModal()
		return m, nil
	}
	if msg.String() == "c" && m.modalKind == modalLogs {
		m.copyText(m.modalBody, "logs")
		return m, nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

func changeCmd(c widget.Change) tea.Cmd {
	return func() tea.Msg { return selectionChangedMsg{change: c} }
}

// applyChange hands c to the widget and redraws from the resulting tree.
func (m *Model) applyChange(c widget.Change) {
	if err := m.w.Dispatch(c); err != nil {
		logx.Warnf("ui: change on column %d to %s rejected", c.Column, util.LogValue(c.Value))
		m.lastMsg = err.Error()
		return
	}
	m.refreshRows()
	title := m.title(c.Column)
	if c.Value == m.w.Config().EmptyFilterText {
		m.lastMsg = fmt.Sprintf("%s: cleared", title)
	} else {
		m.lastMsg = fmt.Sprintf("%s = %q", title, c.Value)
	}
}

// step moves the focused column's selection by delta, wrapping around.
func (m *Model) step(delta int) tea.Cmd {
	if m.w.Columns() == 0 {
		return nil
	}
	opts := m.w.Options(m.focus)
	if len(opts) == 0 {
		return nil
	}
	cur := indexOf(opts, m.currentValue(m.focus))
	next := ((cur+delta)%len(opts) + len(opts)) % len(opts)
	return changeCmd(widget.Change{Column: m.focus, Value: opts[next]})
}

// resetAll returns one reset per column that carries a filter.
func (m *Model) resetAll() []tea.Cmd {
	var cmds []tea.Cmd
	sel := m.w.Selections()
	for _, col := range sel.Columns() {
		cmds = append(cmds, changeCmd(m.w.Reset(col)))
	}
	return cmds
}

// currentValue is the value selected in col, the sentinel when unfiltered.
func (m *Model) currentValue(col int) string {
	if v, ok := m.w.Selections().Get(col); ok {
		return v
	}
	return m.w.Config().EmptyFilterText
}

func (m *Model) copyRow() {
	i, ok := m.cursorRow()
	if !ok {
		m.lastMsg = "no row selected"
		return
	}
	m.copyText(strings.Join(m.w.RowText(i), "\t"), "row")
}

func (m *Model) copyText(s, what string) {
	if err := m.copy(stripANSI(s)); err != nil {
		logx.Warnf("clipboard: %v", err)
		m.lastMsg = "copy failed: " + err.Error()
		return
	}
	m.lastMsg = what + " copied to clipboard"
}

func (m *Model) exportCmd() tea.Cmd {
	format, out := m.cfg.ExportFormat, m.cfg.ExportOut
	if format == "" || out == "" {
		m.lastMsg = "export not configured (use --export and --out)"
		return nil
	}
	m.lastMsg = "exporting..."
	// The tree is only read from Update.
	var buf strings.Builder
	if err := export.Write(&buf, format, m.doc, m.w); err != nil {
		return func() tea.Msg { return exportDoneMsg{path: out, err: err} }
	}
	body := buf.String()
	return func() tea.Msg {
		return exportDoneMsg{path: out, err: writeFile(out, body)}
	}
}

func (m *Model) title(col int) string {
	if col >= 0 && col < len(m.headers) {
		return m.headers[col]
	}
	return fmt.Sprintf("column %d", col)
}

func indexOf(xs []string, v string) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return 0
}
