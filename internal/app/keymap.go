package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	GlobalSearch  key.Binding
	Escape        key.Binding
	ToggleSidebar key.Binding
	NextSession   key.Binding
	PrevSession   key.Binding
	LoadMore      key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		// Terminals that cannot report ctrl+shift+f deliver ctrl+f.
		GlobalSearch: key.NewBinding(
			key.WithKeys("ctrl+shift+f", "ctrl+f"),
			key.WithHelp("ctrl+shift+f", "search sessions"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle sidebar"),
		),
		NextSession: key.NewBinding(
			key.WithKeys("ctrl+j", "down"),
			key.WithHelp("ctrl+j", "next session"),
		),
		PrevSession: key.NewBinding(
			key.WithKeys("ctrl+k", "up"),
			key.WithHelp("ctrl+k", "previous session"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "older messages"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
