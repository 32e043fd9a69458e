package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Tab      key.Binding
	ShiftTab key.Binding

	// Menu shortcuts
	Mining  key.Binding
	Staking key.Binding
	ROI     key.Binding
	Logs    key.Binding

	// Calculator screens
	Calculate  key.Binding
	Export     key.Binding
	ToggleJSON key.Binding
	Refresh    key.Binding

	// Logs
	FilterInfo  key.Binding
	FilterWarn  key.Binding
	FilterError key.Binding
	ClearFilter key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),

		Mining: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mining"),
		),
		Staking: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "staking"),
		),
		ROI: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "roi"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l", "f12"),
			key.WithHelp("l/F12", "logs"),
		),

		Calculate: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "calculate"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export"),
		),
		ToggleJSON: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "csv/json"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+p", "f5"),
			key.WithHelp("ctrl+p/F5", "refresh price"),
		),

		FilterInfo: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "info"),
		),
		FilterWarn: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "warn"),
		),
		FilterError: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "error"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("F4", "all"),
		),
	}
}

// ShortHelp returns key help text for the current context
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

// FullHelp returns extended help text for the current context
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Tab, k.ShiftTab, k.Calculate, k.Export, k.Refresh},
		{k.Mining, k.Staking, k.ROI, k.Logs, k.Quit},
	}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteMainMenu:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Mining, k.Staking, k.ROI, k.Logs, k.Quit}
	case RouteMining, RouteStaking, RouteROI:
		return []key.Binding{k.Tab, k.ShiftTab, k.Calculate, k.Refresh, k.Export, k.ToggleJSON, k.Back, k.Quit}
	case RouteLogs:
		return []key.Binding{k.FilterInfo, k.FilterWarn, k.FilterError, k.ClearFilter, k.Back, k.Quit}
	default:
		return k.ShortHelp()
	}
}
