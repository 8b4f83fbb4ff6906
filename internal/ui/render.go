package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"tabfilter/internal/util/logx"
)

func (m *Model) View() string {
	v := lipgloss.JoinVertical(lipgloss.Left, m.renderFilterBar(), m.tbl.View(), m.renderStatus())
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

// renderFilterBar shows every filtered column with its current selection.
func (m *Model) renderFilterBar() string {
	if m.w.Columns() == 0 {
		return m.styles.Status.Render("no filtered columns")
	}
	empty := m.w.Config().EmptyFilterText
	parts := make([]string, 0, m.w.Columns())
	for col := 0; col < m.w.Columns(); col++ {
		label := m.title(col) + ": "
		st := m.styles.FilterOff
		if v, ok := m.w.Selections().Get(col); ok {
			label += v
			st = m.styles.FilterOn
		} else if empty != "" {
			label += empty
		} else {
			label += "*"
		}
		if col == m.focus {
			st = st.Inherit(m.styles.Focus)
			label = "▸" + label
		}
		parts = append(parts, st.Render(label))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderStatus() string {
	cur := 0
	total := len(m.rowIdx)
	if c := m.tbl.Cursor(); c >= 0 && total > 0 {
		cur = c + 1
	}
	status := fmt.Sprintf("%s | row:%d/%d of %d | %s",
		m.source, cur, total, len(m.w.Rows()), m.help.ShortHelpView(m.keymap.ShortHelp()))
	if m.lastMsg != "" {
		status += " | " + m.lastMsg
	}
	return m.styles.Status.Render(status)
}

func (m *Model) openPicker() {
	if m.w.Columns() == 0 {
		return
	}
	opts := m.w.Options(m.focus)
	m.picker = picker{column: m.focus, options: opts, sel: indexOf(opts, m.currentValue(m.focus))}
	m.modalActive = true
	m.modalKind = modalPicker
	m.modalTitle = "Filter: " + m.title(m.focus)
	m.modalBody = m.renderPicker()
	m.resizeModal()
}

func (m *Model) renderPicker() string {
	empty := m.w.Config().EmptyFilterText
	lines := make([]string, len(m.picker.options))
	for i, o := range m.picker.options {
		label := o
		if i == 0 && o == empty {
			label = fmt.Sprintf("%q (no filter)", o)
		}
		if i == m.picker.sel {
			lines[i] = m.styles.PickerSel.Render("> " + label)
		} else {
			lines[i] = "  " + label
		}
	}
	// keep the selection on screen
	if h := m.modalVP.Height; h > 0 {
		if m.picker.sel < m.modalVP.YOffset {
			m.modalVP.YOffset = m.picker.sel
		} else if m.picker.sel >= m.modalVP.YOffset+h {
			m.modalVP.YOffset = m.picker.sel - h + 1
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.help.ShowAll = true
	m.modalBody = m.help.View(m.keymap)
	m.help.ShowAll = false
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Diagnostics"
	m.modalBody = logx.Dump()
	m.resizeModal()
}

func (m *Model) closeModal() {
	m.modalActive = false
	m.modalKind = modalNone
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	if m.modalKind == modalPicker {
		m.modalBody = m.renderPicker()
	}
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	content := ""
	switch m.modalKind {
	case modalPicker:
		content = m.modalVP.View() + "\n[↑/↓]=move  [enter]=choose  [esc]=cancel"
	case modalLogs:
		header := []string{
			"Status:",
			fmt.Sprintf("selector: %s  source: %s  log level: %s", m.w.Selector(), m.source, logx.CurrentLevel()),
			fmt.Sprintf("rows: %d  visible: %d  columns: %d/%d  cycles: %d",
				len(m.w.Rows()), len(m.w.VisibleRows()), m.w.Columns(), m.w.TotalColumns(), m.w.Cycles()),
		}
		if m.hasLast {
			header = append(header, fmt.Sprintf("last cycle: %d filters, %d row moves", len(m.last.Selections), m.last.Mutations))
		}
		h := m.styles.Help.Render(strings.Join(header, "\n"))
		content = h + "\n" + m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}
