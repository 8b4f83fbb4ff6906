package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Close    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Reset    key.Binding
	ResetAll key.Binding
	CopyRow  key.Binding
	Export   key.Binding
	AppLogs  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous column")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next column")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "previous row")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next row")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose value")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Next:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next value")),
		Prev:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous value")),
		Reset:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "clear column")),
		ResetAll: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear all")),
		CopyRow:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy row")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		AppLogs:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "diagnostics")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Open, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Open, k.Next, k.Prev, k.Reset, k.ResetAll},
		{k.CopyRow, k.Export, k.AppLogs, k.Help, k.Quit},
	}
}
