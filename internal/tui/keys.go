package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Collapse  key.Binding
	Expand    key.Binding
	Toggle    key.Binding
	Visible   key.Binding
	Duplicate key.Binding
	Mark      key.Binding
	MoveInto  key.Binding
	MoveRoot  key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Collapse:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Toggle:    key.NewBinding(key.WithKeys("enter", "tab"), key.WithHelp("enter", "fold")),
		Visible:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show/hide")),
		Duplicate: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duplicate")),
		Mark:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark for move")),
		MoveInto:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "move marked here")),
		MoveRoot:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "move marked to top")),
		Refresh:   key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Visible, k.Mark, k.MoveInto, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse, k.Expand, k.Toggle},
		{k.Visible, k.Duplicate, k.Mark, k.MoveInto, k.MoveRoot},
		{k.Refresh, k.Help, k.Quit},
	}
}
