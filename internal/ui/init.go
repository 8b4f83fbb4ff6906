package ui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"

	"tabfilter/internal/config"
	"tabfilter/internal/widget"
)

func initialModel(ctx context.Context, cfg *config.Config, w *widget.Widget, doc *html.Node, source string) *Model {
	m := &Model{
		ctx:        ctx,
		cfg:        cfg,
		w:          w,
		doc:        doc,
		source:     source,
		help:       help.New(),
		styles:     NewStyles(cfg.Theme != config.ThemeLight),
		keymap:     DefaultKeyMap(),
		headers:    w.Headers(),
		copy:       clipboard.WriteAll,
		termWidth:  100,
		termHeight: 30,
	}
	m.modalVP = viewport.New(80, 20)

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(m.termHeight-4))
	ts := table.DefaultStyles()
	ts.Header = m.styles.TableStyles.Header
	ts.Cell = m.styles.TableStyles.Cell
	ts.Selected = m.styles.TableStyles.Selected
	m.tbl.SetStyles(ts)

	w.OnChange(func(st widget.State) {
		m.last = st
		m.hasLast = true
	})
	m.refreshRows()
	return m
}

// Run shows w in the terminal until the user quits.
func Run(ctx context.Context, cfg *config.Config, w *widget.Widget, doc *html.Node, source string) error {
	m := initialModel(ctx, cfg, w, doc, source)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if cfg.UseStdin {
		// stdin carried the document
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}
