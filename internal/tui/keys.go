package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// List
	Select key.Binding
	Filter key.Binding
	Escape key.Binding

	// Presence
	Publish    key.Binding
	Idle       key.Binding
	EditStatus key.Binding
	Home       key.Binding

	// Console
	Switch1       key.Binding
	Switch2       key.Binding
	ToggleConsole key.Binding
	Refresh       key.Binding
	Reconnect     key.Binding

	// Pins
	TogglePin  key.Binding
	PinByName  key.Binding
	PinnedView key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select game"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),

		Publish: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update presence"),
		),
		Idle: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "go idle"),
		),
		EditStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "edit status"),
		),
		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "select Home"),
		),

		Switch1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Nintendo Switch"),
		),
		Switch2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Nintendo Switch 2"),
		),
		ToggleConsole: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "other console"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh catalog"),
		),
		Reconnect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "reconnect"),
		),

		TogglePin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin/unpin"),
		),
		PinByName: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "pin by name"),
		),
		PinnedView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "pinned/all"),
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

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
