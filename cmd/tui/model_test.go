package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScreen struct {
	name     string
	received []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd { return nil }

func (s *stubScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	s.received = append(s.received, msg)
	return s, nil
}

func (s *stubScreen) View() string { return s.name }
func (s *stubScreen) SetSize(int, int) {}
func (s *stubScreen) count() int { return len(s.received) }
func (s *stubScreen) last() tea.Msg { return s.received[len(s.received)-1] }

func newTestModel() (*AppModel, *stubScreen, *stubScreen, *stubScreen) {
	menu := &stubScreen{name: "menu"}
	mining := &stubScreen{name: "mining"}
	roi := &stubScreen{name: "roi"}
	m := NewAppModel(menu, map[ui.Route]router.Screen{
		ui.RouteMining: mining,
		ui.RouteROI:    roi,
	}, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, menu, mining, roi
}

func TestAppModel_Navigation(t *testing.T) {
	m, menu, mining, _ := newTestModel()
	assert.Equal(t, "menu", m.View())

	m.Update(ui.RouterMsg{To: ui.RouteMining})
	assert.Equal(t, mining, m.Current())

	m.Update(ui.RouterMsg{To: ui.RouteMining})
	assert.Equal(t, 2, m.router.Depth(), "navigating to the visible screen is a no-op")

	m.Update(ui.RouterMsg{To: ui.RouteStaking})
	assert.Equal(t, mining, m.Current(), "unknown route is ignored")

	m.Update(ui.RouterMsg{To: ui.RouteMainMenu})
	assert.Equal(t, menu, m.Current())
	assert.Equal(t, 1, m.router.Depth())
}

func TestAppModel_BroadcastsMarketList(t *testing.T) {
	m, menu, mining, roi := newTestModel()

	msg := ui.MarketListMsg{}
	m.Update(msg)
	for _, s := range []*stubScreen{menu, mining, roi} {
		require.Equal(t, 1, s.count(), s.name)
		assert.Equal(t, msg, s.last())
	}
}

func TestAppModel_RoutesPriceToOwner(t *testing.T) {
	m, menu, mining, roi := newTestModel()
	m.Update(ui.RouterMsg{To: ui.RouteMining})

	msg := ui.PriceFetchedMsg{Route: ui.RouteROI, AssetID: "bitcoin"}
	m.Update(msg)
	require.Equal(t, 1, roi.count())
	assert.Equal(t, msg, roi.last())
	assert.Zero(t, mining.count(), "visible screen does not see another screen's price")
	assert.Zero(t, menu.count())
}

func TestAppModel_KeysGoToVisibleScreen(t *testing.T) {
	m, menu, mining, _ := newTestModel()
	m.Update(ui.RouterMsg{To: ui.RouteMining})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	assert.Equal(t, 1, mining.count())
	assert.Zero(t, menu.count())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
