package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	"golang.org/x/net/html"

	"tabfilter/internal/config"
	"tabfilter/internal/widget"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalPicker
	modalLogs
)

type Model struct {
	ctx    context.Context
	cfg    *config.Config
	w      *widget.Widget
	doc    *html.Node
	source string

	// UI
	tbl        table.Model
	help       help.Model
	styles     Styles
	keymap     KeyMap
	headers    []string
	rowIdx     []int // table row -> snapshot row
	focus      int   // focused filtered column
	termWidth  int
	termHeight int

	// last completed cycle, set by the widget observer
	last    widget.State
	hasLast bool

	lastMsg string
	copy    func(string) error

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	picker picker
}

// picker is the option list of one column while it is open.
type picker struct {
	column  int
	options []string
	sel     int
}

// selectionChangedMsg carries a control change to the widget.
type selectionChangedMsg struct {
	change widget.Change
}

type exportDoneMsg struct {
	path string
	err  error
}
