package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/csheth/indicure/internal/workflow"
)

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Next      key.Binding
	Prev      key.Binding
	Run       key.Binding
	Activate  key.Binding
	Dismiss   key.Binding
	NewQuery  key.Binding
	Download  key.Binding
	TabLeft   key.Binding
	TabRight  key.Binding
	TabJump   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Run:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run analysis")),
		Activate:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/select")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close menu")),
		NewQuery:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new query")),
		Download:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download pdf")),
		TabLeft:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev tab")),
		TabRight:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next tab")),
		TabJump:   key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "jump to tab")),
	}
}

// bindingsFor is the footer help for view.
func (k keyMap) bindingsFor(view workflow.View) []key.Binding {
	switch view {
	case workflow.ViewProcessing:
		return []key.Binding{k.NewQuery, k.Quit}
	case workflow.ViewResults:
		return []key.Binding{k.TabJump, k.TabLeft, k.TabRight, k.Download, k.NewQuery, k.Quit}
	default:
		return []key.Binding{k.Next, k.Activate, k.Dismiss, k.Run, k.ForceQuit}
	}
}
