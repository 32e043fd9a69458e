package ui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockModel struct {
	panicOnInit   bool
	panicOnUpdate bool
	panicOnView   bool
	quitOnInit    bool
	updates       int
}

func (m *mockModel) Init() tea.Cmd {
	if m.panicOnInit {
		panic("init panic test")
	}
	if m.quitOnInit {
		return tea.Quit
	}
	return nil
}

func (m *mockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.updates++
	if m.panicOnUpdate {
		panic("update panic test")
	}
	return m, tea.Quit
}

func (m *mockModel) View() string {
	if m.panicOnView {
		panic("view panic test")
	}
	return "Test UI"
}

func headlessOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	}
}

func TestRecoveryHandler_RestartsAfterCrash(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	calls := 0
	createUI := func() (tea.Model, []tea.ProgramOption) {
		calls++
		if calls == 1 {
			panic("broken model factory")
		}
		return &mockModel{quitOnInit: true}, headlessOptions()
	}

	handler := NewRecoveryHandler(zap.New(core), createUI)
	handler.restartDelay = 0

	require.NoError(t, handler.RunWithRecovery())
	assert.Equal(t, 1, handler.RestartCount())
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, logs.FilterMessage("UI panic recovered").Len())
	assert.Equal(t, 1, logs.FilterMessage("UI crashed, will restart").Len())
}

func TestRecoveryHandler_GivesUp(t *testing.T) {
	createUI := func() (tea.Model, []tea.ProgramOption) {
		panic("always broken")
	}

	handler := NewRecoveryHandler(zap.NewNop(), createUI)
	handler.restartDelay = 0
	handler.maxRestarts = 2

	err := handler.RunWithRecovery()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crashed too many times")
	assert.Contains(t, err.Error(), "always broken")
	assert.Equal(t, 3, handler.RestartCount())
}

func TestSafeUIWrapper(t *testing.T) {
	model := &mockModel{}
	wrapper := NewSafeUIWrapper(model, zap.NewNop())

	assert.Nil(t, wrapper.Init())

	next, cmd := wrapper.Update(nil)
	assert.Same(t, wrapper, next)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Test UI", wrapper.View())

	model.panicOnView = true
	assert.Equal(t, "UI Error: View crashed. Press Ctrl+C to exit.", wrapper.View())
}

func TestSafeUIWrapper_RecoversInitAndUpdate(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	model := &mockModel{panicOnInit: true, panicOnUpdate: true}
	wrapper := NewSafeUIWrapper(model, zap.New(core))

	assert.Nil(t, wrapper.Init())

	next, cmd := wrapper.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, wrapper, next)
	assert.Nil(t, cmd)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "Init", logs.All()[0].ContextMap()["method"])
	assert.Equal(t, "Update", logs.All()[1].ContextMap()["method"])
}
