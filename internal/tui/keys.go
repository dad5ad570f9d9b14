package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextType key.Binding
	PrevType key.Binding
	Up       key.Binding
	Down     key.Binding
	Inc      key.Binding
	Dec      key.Binding
	Edit     key.Binding
	Cancel   key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextType: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next type")),
		PrevType: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev type")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev param")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next param")),
		Inc:      key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→/l", "increase")),
		Dec:      key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/h", "decrease")),
		Edit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/apply")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextType, k.Up, k.Inc, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextType, k.PrevType},
		{k.Up, k.Down, k.Inc, k.Dec},
		{k.Edit, k.Cancel, k.Reset},
		{k.Help, k.Quit},
	}
}
