package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the task view.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Focus   key.Binding // Move between the add input and the list.
	Submit  key.Binding // Add, save, or pick the highlighted menu entry.
	Options key.Binding // Toggle the row's options menu.
	Edit    key.Binding
	Delete  key.Binding
	Cancel  key.Binding // Leave edit mode or close the menu.
	Reload  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("Tab", "input/list"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "confirm"),
	),
	Options: key.NewBinding(
		key.WithKeys(".", " "),
		key.WithHelp(".", "options"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Submit, k.Options, k.Edit, k.Delete, k.Cancel, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus},
		{k.Submit, k.Options, k.Edit, k.Delete},
		{k.Cancel, k.Reload, k.Quit},
	}
}
