package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/router"
)

// AppModel represents the main TUI application model
type AppModel struct {
	router      *router.Router
	loadMarkets tea.Cmd
	width       int
	height      int
}

// NewAppModel creates the application model. Screens are created once and
// kept, so calculator input survives navigation. loadMarkets may be nil.
func NewAppModel(mainMenu router.Screen, screens map[ui.Route]router.Screen, loadMarkets tea.Cmd) *AppModel {
	r := router.New(mainMenu)
	for route, s := range screens {
		r.Register(route, s)
	}
	return &AppModel{
		router:      r,
		loadMarkets: loadMarkets,
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Init(), m.loadMarkets)
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case ui.MarketListMsg:
		// Every screen keeps its selector current, not only the visible one.
		var cmds []tea.Cmd
		for _, s := range m.router.Screens() {
			_, cmd := s.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case ui.PriceFetchedMsg:
		// A fetch may finish after the user left the screen that started it.
		if s, ok := m.router.Screen(msg.Route); ok {
			_, cmd := s.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.router, cmd = m.router.Update(msg)
	return m, cmd
}

// Current returns the visible screen.
func (m *AppModel) Current() router.Screen {
	return m.router.Current()
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return m.router.View()
}
