package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Navigation
	Dashboard key.Binding
	Events    key.Binding
	Clients   key.Binding
	Menu      key.Binding
	Reports   key.Binding
	Settings  key.Binding
	Book      key.Binding

	// Actions
	Select key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	Filter key.Binding
	Toggle key.Binding
	Voice  key.Binding
	Next   key.Binding
	Save   key.Binding

	// Movement
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Dashboard: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "home")),
	Events:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "events")),
	Clients:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clients")),
	Menu:      key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "menu")),
	Reports:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reports")),
	Settings:  key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Book:      key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "book event")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Voice:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "talk")),
	Next:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next step")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
}
