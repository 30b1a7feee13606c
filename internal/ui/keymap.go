package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit     key.Binding
	Back     key.Binding
	Tab      key.Binding
	Overview key.Binding
	Holders  key.Binding

	// Data
	Refresh   key.Binding
	NextRange key.Binding
	Export    key.Binding

	// Paging
	Left  key.Binding
	Right key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch view"),
		),
		Overview: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "overview"),
		),
		Holders: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "holders"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "refresh"),
		),
		NextRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "time range"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),

		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "prev page"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next page"),
		),
	}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteOverview:
		return []key.Binding{k.Refresh, k.NextRange, k.Tab, k.Quit}
	case RouteHolders:
		return []key.Binding{k.Left, k.Right, k.Refresh, k.Export, k.Tab, k.Quit}
	default:
		return []key.Binding{k.Tab, k.Quit}
	}
}
