package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Tab      key.Binding
	Enter    key.Binding
	AddCart  key.Binding
	Fav      key.Binding
	Search   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Remove   key.Binding
	QtyUp    key.Binding
	QtyDown  key.Binding
	Checkout key.Binding
	Refresh  key.Binding
	Logout   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	AddCart:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
	Fav:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle favourite")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	NextPage: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
	PrevPage: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev page")),
	Remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove line")),
	QtyUp:    key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "more")),
	QtyDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer")),
	Checkout: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "checkout")),
	Refresh:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
	Logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
