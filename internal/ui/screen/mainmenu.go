package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/component"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/router"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/style"
)

// MenuItem represents a menu item
type MenuItem struct {
	Label       string
	Description string
	Route       ui.Route
}

// MainMenuScreen represents the main menu screen
type MainMenuScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	helpBar *component.HelpBar

	selectedIndex int
	menuItems     []MenuItem

	// status line
	marketCount int
	marketErr   error
	quote       string

	titleStyle       lipgloss.Style
	menuItemStyle    lipgloss.Style
	selectedStyle    lipgloss.Style
	descriptionStyle lipgloss.Style
	headerStyle      lipgloss.Style
}

// NewMainMenuScreen creates a new main menu screen
func NewMainMenuScreen(quote string) *MainMenuScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	menuItems := []MenuItem{
		{
			Label:       "⛏ Mining",
			Description: "Daily revenue, energy cost and profit of a mining rig",
			Route:       ui.RouteMining,
		},
		{
			Label:       "🥩 Staking",
			Description: "Projected staking rewards after validator fees",
			Route:       ui.RouteStaking,
		},
		{
			Label:       "📈 ROI",
			Description: "Return on a buy/sell position with optional monthly buys",
			Route:       ui.RouteROI,
		},
		{
			Label:       "📜 Logs",
			Description: "View application logs and activity",
			Route:       ui.RouteLogs,
		},
	}

	return &MainMenuScreen{
		keyMap:    keyMap,
		menuItems: menuItems,
		quote:     quote,
		helpBar: component.NewHelpBar().
			SetKeyBindings(keyMap.ContextualHelp(ui.RouteMainMenu)),

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0).
			Align(lipgloss.Center),

		menuItemStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 2).
			Margin(0, 0, 1, 0),

		selectedStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 2).
			Margin(0, 0, 1, 0).
			Bold(true),

		descriptionStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 4).
			Margin(0, 0, 1, 0).
			Italic(true),

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Padding(0, 2),
	}
}

// Init initializes the main menu screen
func (m *MainMenuScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (m *MainMenuScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case msg.String() == "q":
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Up):
			m.moveUp()
		case key.Matches(msg, m.keyMap.Down):
			m.moveDown()
		case key.Matches(msg, m.keyMap.Enter):
			return m, ui.Navigate(m.SelectedRoute())
		case key.Matches(msg, m.keyMap.Mining):
			return m, ui.Navigate(ui.RouteMining)
		case key.Matches(msg, m.keyMap.Staking):
			return m, ui.Navigate(ui.RouteStaking)
		case key.Matches(msg, m.keyMap.ROI):
			return m, ui.Navigate(ui.RouteROI)
		case key.Matches(msg, m.keyMap.Logs):
			return m, ui.Navigate(ui.RouteLogs)
		}

	case ui.MarketListMsg:
		m.marketErr = msg.Err
		m.marketCount = len(msg.Markets)
	}

	return m, nil
}

// View renders the main menu screen
func (m *MainMenuScreen) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderMenu(),
		m.helpBar.SetWidth(m.width).View(),
	)

	if m.width > 80 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// SetSize sets the screen dimensions
func (m *MainMenuScreen) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.helpBar.SetWidth(width)
}

func (m *MainMenuScreen) renderHeader() string {
	title := m.titleStyle.Render("🧮 Crypto Calculators")

	var status string
	switch {
	case m.marketErr != nil:
		status = "Market list unavailable"
	case m.marketCount > 0:
		status = fmt.Sprintf("%d assets • prices in %s", m.marketCount, strings.ToUpper(m.quote))
	default:
		status = "Loading market list…"
	}

	return lipgloss.JoinVertical(lipgloss.Center, title, m.headerStyle.Render(status))
}

func (m *MainMenuScreen) renderMenu() string {
	var menuItems []string

	for i, item := range m.menuItems {
		if i == m.selectedIndex {
			menuItems = append(menuItems,
				m.selectedStyle.Render(item.Label),
				m.descriptionStyle.Render(item.Description))
			continue
		}
		menuItems = append(menuItems, m.menuItemStyle.Render(item.Label))
	}

	menuStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.DefaultPalette().Primary).
		Padding(1, 4).
		Margin(1, 0)

	return menuStyle.Render(strings.Join(menuItems, "\n"))
}

func (m *MainMenuScreen) moveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	} else {
		m.selectedIndex = len(m.menuItems) - 1
	}
}

func (m *MainMenuScreen) moveDown() {
	if m.selectedIndex < len(m.menuItems)-1 {
		m.selectedIndex++
	} else {
		m.selectedIndex = 0
	}
}

// SelectedRoute returns the route of the highlighted item
func (m *MainMenuScreen) SelectedRoute() ui.Route {
	if m.selectedIndex < len(m.menuItems) {
		return m.menuItems[m.selectedIndex].Route
	}
	return ui.RouteMainMenu
}
