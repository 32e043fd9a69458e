package screen

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/component"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/router"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/style"
)

const (
	logRefreshInterval = time.Second
	logViewLimit       = 200
)

// RefreshLogsMsg is sent to trigger a refresh. Ticks only reach the screen
// on top of the router, so leaving the screen ends the chain; Generation
// drops a tick that was in flight when the screen was re-entered.
type RefreshLogsMsg struct {
	Generation int
}

// LogsScreen tails the in-memory log buffer
type LogsScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	viewer  *component.LogViewer
	helpBar *component.HelpBar

	generation int
}

// NewLogsScreen creates a logs screen over source
func NewLogsScreen(source component.LogSource) *LogsScreen {
	keyMap := ui.DefaultKeyMap()
	return &LogsScreen{
		keyMap:  keyMap,
		viewer:  component.NewLogViewer(source, logViewLimit),
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteLogs)),
	}
}

// Init loads the logs and starts the refresh ticker
func (s *LogsScreen) Init() tea.Cmd {
	s.generation++
	s.viewer.Refresh()
	return s.tick()
}

func (s *LogsScreen) tick() tea.Cmd {
	gen := s.generation
	return tea.Tick(logRefreshInterval, func(time.Time) tea.Msg {
		return RefreshLogsMsg{Generation: gen}
	})
}

// Update handles screen updates
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		filter := s.viewer.Filter()
		switch {
		case key.Matches(msg, s.keyMap.Quit):
			return s, tea.Quit
		case key.Matches(msg, s.keyMap.FilterInfo):
			filter.ShowInfo = !filter.ShowInfo
			s.viewer.SetFilter(filter)
		case key.Matches(msg, s.keyMap.FilterWarn):
			filter.ShowWarning = !filter.ShowWarning
			s.viewer.SetFilter(filter)
		case key.Matches(msg, s.keyMap.FilterError):
			filter.ShowError = !filter.ShowError
			s.viewer.SetFilter(filter)
		case key.Matches(msg, s.keyMap.ClearFilter):
			s.viewer.SetFilter(component.AllLevels())
		default:
			return s, s.viewer.Update(msg)
		}
		return s, nil

	case RefreshLogsMsg:
		if msg.Generation != s.generation {
			return s, nil
		}
		s.viewer.Refresh()
		return s, s.tick()
	}

	return s, nil
}

// View renders the logs screen
func (s *LogsScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		style.TitleStyle.Render("📜 Logs"),
		s.viewer.View(),
		s.helpBar.View(),
	)
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.viewer.SetSize(width-2, height-6)
}

