package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the explorer.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Back    key.Binding
	Reach   key.Binding
	Sidebar key.Binding
	Open    key.Binding
	Install key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right", "l"),
			key.WithHelp("n/→", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "left", "h"),
			key.WithHelp("b/←", "back"),
		),
		Reach: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r/enter", "reach selected"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sidebar to selected"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open selected"),
		),
		Install: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "begin installation"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
// This implements the help.KeyMap interface.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Back, k.Reach, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
// This implements the help.KeyMap interface.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Next, k.Back, k.Reach, k.Sidebar},
		{k.Open, k.Install},
		{k.Help, k.Quit},
	}
}

// ActionKeys returns the bindings that drive the wizard.
func (k KeyMap) ActionKeys() []key.Binding {
	return []key.Binding{k.Next, k.Back, k.Reach, k.Sidebar, k.Open, k.Install}
}

// SetActionsEnabled enables or disables the bindings that drive the wizard,
// for example while an action is still running.
func (k *KeyMap) SetActionsEnabled(enabled bool) {
	for _, b := range []*key.Binding{&k.Next, &k.Back, &k.Reach, &k.Sidebar, &k.Open, &k.Install} {
		b.SetEnabled(enabled)
	}
}
