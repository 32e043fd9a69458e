package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// PriceFetchedMsg carries the outcome of a price refetch after an asset change.
// Err is set when the price is unavailable.
type PriceFetchedMsg struct {
	Route   Route
	AssetID string
	Price   price.AssetPrice
	Err   error
}

// MarketListMsg carries the asset list used to fill the selectors.
type MarketListMsg struct {
	Markets []price.Market
	Err     error
}

// ExportDoneMsg reports where a result was written.
type ExportDoneMsg struct {
	Route Route
	Path  string
	Err   error
}

// ErrorMsg represents error conditions
type ErrorMsg struct {
	Error error
	Title string
}

// SuccessMsg represents success conditions
type SuccessMsg struct {
	Message string
	Title   string
}

// Navigate returns a command that switches to route.
func Navigate(to Route) tea.Cmd {
	return func() tea.Msg {
		return RouterMsg{To: to}
	}
}

// Route represents different screens in the application
type Route int

const (
	RouteMainMenu Route = iota
	RouteMining
	RouteStaking
	RouteROI
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteMainMenu:
		return "main_menu"
	case RouteMining:
		return "mining"
	case RouteStaking:
		return "staking"
	case RouteROI:
		return "roi"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}
