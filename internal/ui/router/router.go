package router

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Router keeps a stack of screens over a fixed root. Screens are registered
// once per route and reused, so their state survives navigation.
type Router struct {
	screens map[ui.Route]Screen
	stack   []Screen
	width   int
	height  int
}

// New creates a router showing root.
func New(root Screen) *Router {
	return &Router{
		screens: map[ui.Route]Screen{ui.RouteMainMenu: root},
		stack:   []Screen{root},
	}
}

// Register binds a screen to a route.
func (r *Router) Register(route ui.Route, s Screen) *Router {
	if route != ui.RouteMainMenu {
		r.screens[route] = s
	}
	return r
}

// Screen returns the screen registered for route.
func (r *Router) Screen(route ui.Route) (Screen, bool) {
	s, ok := r.screens[route]
	return s, ok
}

// Screens returns every registered screen, the root included.
func (r *Router) Screens() []Screen {
	out := make([]Screen, 0, len(r.screens))
	for _, s := range r.screens {
		out = append(out, s)
	}
	return out
}

// Init initializes the visible screen
func (r *Router) Init() tea.Cmd {
	return r.Current().Init()
}

// Navigate shows the screen of route. The root route unwinds the stack; a
// screen already on the stack is returned to instead of pushed twice.
// Unknown routes are ignored.
func (r *Router) Navigate(route ui.Route) tea.Cmd {
	if route == ui.RouteMainMenu {
		return r.unwindTo(0)
	}

	s, ok := r.screens[route]
	if !ok {
		return nil
	}
	for i, onStack := range r.stack {
		if onStack == s {
			return r.unwindTo(i)
		}
	}
	return r.push(s)
}

// Update processes messages and updates the current screen
func (r *Router) Update(msg tea.Msg) (*Router, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil

	case ui.RouterMsg:
		return r, r.Navigate(msg.To)

	case tea.KeyMsg:
		if msg.String() == "esc" && r.CanGoBack() {
			return r, r.Back()
		}
	}

	top := len(r.stack) - 1
	updated, cmd := r.stack[top].Update(msg)
	r.stack[top] = updated
	return r, cmd
}

// View renders the current screen
func (r *Router) View() string {
	return r.Current().View()
}

// SetSize sets the size for the router and current screen
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.Current().SetSize(width, height)
}

// Back returns to the previous screen.
func (r *Router) Back() tea.Cmd {
	if !r.CanGoBack() {
		return nil
	}
	return r.unwindTo(len(r.stack) - 2)
}

// Current returns the visible screen
func (r *Router) Current() Screen {
	return r.stack[len(r.stack)-1]
}

// Depth returns the current navigation depth
func (r *Router) Depth() int {
	return len(r.stack)
}

// CanGoBack returns true if there are screens to go back to
func (r *Router) CanGoBack() bool {
	return len(r.stack) > 1
}

func (r *Router) push(s Screen) tea.Cmd {
	s.SetSize(r.width, r.height)
	r.stack = append(r.stack, s)
	return s.Init()
}

// unwindTo drops the screens above index i and re-initializes the one shown.
func (r *Router) unwindTo(i int) tea.Cmd {
	if i == len(r.stack)-1 {
		return nil
	}
	r.stack = r.stack[:i+1]
	s := r.Current()
	s.SetSize(r.width, r.height)
	return s.Init()
}
