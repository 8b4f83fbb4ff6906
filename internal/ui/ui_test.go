package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabfilter/internal/config"
	"tabfilter/internal/dom"
	"tabfilter/internal/export"
	"tabfilter/internal/model"
	"tabfilter/internal/util/logx"
	"tabfilter/internal/widget"
)

const people = `<table id="p">
<thead><tr><th>Name</th><th>Age</th></tr></thead>
<tbody>
<tr><td>John</td><td>49</td></tr>
<tr><td>Anne</td><td>22</td></tr>
<tr><td>Anne</td><td>31</td></tr>
</tbody></table>`

func newTestModel(t *testing.T, cfg *config.Config) *Model {
	t.Helper()
	doc, err := dom.ParseString(people)
	require.NoError(t, err)
	w, err := widget.Attach(doc, "#p", model.DefaultOptions())
	require.NoError(t, err)
	if cfg == nil {
		cfg = &config.Config{Theme: config.ThemeDark, Selector: "#p"}
	}
	m := initialModel(context.Background(), cfg, w, doc, "test")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// run feeds the message produced by cmd back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, next := m.Update(msg)
	assert.Nil(t, next)
}

func names(m *Model) []string {
	var out []string
	for _, r := range m.tbl.Rows() {
		out = append(out, r[0]+"/"+r[1])
	}
	return out
}

func TestInitialRows(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, []string{"John/49", "Anne/22", "Anne/31"}, names(m))
	assert.Equal(t, []string{"Name", "Age"}, m.headers)
	assert.Contains(t, m.View(), "Name: *")
}

func TestPickerDispatchesChange(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	require.True(t, m.modalActive)
	require.Equal(t, modalPicker, m.modalKind)
	assert.Equal(t, []string{"", "Anne", "John"}, m.picker.options)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.modalActive)
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, selectionChangedMsg{change: widget.Change{Column: 0, Value: "Anne"}}, msg)

	m.Update(msg)
	assert.Equal(t, []string{"Anne/22", "Anne/31"}, names(m))
	assert.Equal(t, []string{"", "22", "31"}, m.w.Options(1))
	assert.True(t, m.hasLast)
	assert.Equal(t, model.Selections{0: "Anne"}, m.last.Selections)
	assert.Contains(t, m.lastMsg, `Name = "Anne"`)
}

func TestPickerEscCancels(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.modalActive)
	assert.Len(t, m.tbl.Rows(), 3)
}

func TestStepAndReset(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.focus)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.focus, "focus stays on the last column")

	_, cmd := m.Update(keyRunes("]"))
	run(t, m, cmd)
	assert.Equal(t, []string{"Anne/22"}, names(m))

	_, cmd = m.Update(keyRunes("["))
	run(t, m, cmd)
	assert.Len(t, m.tbl.Rows(), 3)

	_, cmd = m.Update(keyRunes("["))
	run(t, m, cmd)
	assert.Equal(t, []string{"John/49"}, names(m), "wraps to the last option")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	run(t, m, cmd)
	assert.Len(t, m.tbl.Rows(), 3)
}

func TestResetAll(t *testing.T) {
	m := newTestModel(t, nil)
	m.applyChange(widget.Change{Column: 0, Value: "Anne"})
	m.applyChange(widget.Change{Column: 1, Value: "31"})
	require.Equal(t, []string{"Anne/31"}, names(m))

	cmds := m.resetAll()
	require.Len(t, cmds, 2)
	for _, c := range cmds {
		run(t, m, c)
	}
	assert.Len(t, m.tbl.Rows(), 3)
	assert.Empty(t, m.w.Selections())

	_, cmd := m.Update(keyRunes("F"))
	assert.Nil(t, cmd)
	assert.Equal(t, "no filters set", m.lastMsg)
}

func TestRejectedChangeKeepsRows(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(selectionChangedMsg{change: widget.Change{Column: 0, Value: "Zed"}})
	assert.Len(t, m.tbl.Rows(), 3)
	assert.Contains(t, m.lastMsg, "not offered")
}

func TestCopyRow(t *testing.T) {
	m := newTestModel(t, nil)
	var got string
	m.copy = func(s string) error { got = s; return nil }
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(keyRunes("c"))
	assert.Equal(t, "Anne\t22", got)
	assert.Equal(t, "row copied to clipboard", m.lastMsg)

	m.copy = func(string) error { return errors.New("no clipboard") }
	m.Update(keyRunes("c"))
	assert.Contains(t, m.lastMsg, "copy failed")
}

func TestExport(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(keyRunes("e"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.lastMsg, "export not configured")

	out := filepath.Join(t.TempDir(), "view.csv")
	m = newTestModel(t, &config.Config{Theme: config.ThemeLight, ExportFormat: export.FormatCSV, ExportOut: out})
	m.applyChange(widget.Change{Column: 0, Value: "John"})
	_, cmd = m.Update(keyRunes("e"))
	run(t, m, cmd)
	assert.Equal(t, "exported to "+out, m.lastMsg)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Name,Age\nJohn,49\n", string(b))
}

func TestModalsOpenAndClose(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(keyRunes("?"))
	require.True(t, m.modalActive)
	assert.Equal(t, modalHelp, m.modalKind)
	assert.Contains(t, m.modalBody, "clear all")
	assert.Contains(t, m.View(), "Help")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.modalActive)

	m.Update(keyRunes("L"))
	require.True(t, m.modalActive)
	assert.Equal(t, modalLogs, m.modalKind)
	assert.True(t, strings.Contains(m.View(), "Diagnostics"))
	assert.Contains(t, m.renderModal(), "log level: "+logx.CurrentLevel().String())
	m.Update(keyRunes("q"))
	assert.False(t, m.modalActive)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestComputeWidthsFitsTerminal(t *testing.T) {
	m := newTestModel(t, nil)
	rows := []table.Row{{"abcdefghij", "xyz"}}
	m.termWidth = 200
	assert.Equal(t, []int{10, 4}, m.computeWidths(rows))

	m.termWidth = 12
	assert.Equal(t, []int{6, 4}, m.computeWidths(rows))

	m.termWidth = 2
	assert.Equal(t, []int{minColWidth, minColWidth}, m.computeWidths(rows))
}
