package router

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/tokenstats/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Router switches between registered screens. Screens keep their state
// while hidden; history records visited routes for back navigation.
type Router struct {
	screens map[ui.Route]Screen
	current ui.Route
	history []ui.Route
	started map[ui.Route]bool
	width   int
	height  int
}

// New creates a router showing initial.
func New(initial ui.Route, screens map[ui.Route]Screen) *Router {
	return &Router{
		screens: screens,
		current: initial,
		started: make(map[ui.Route]bool),
	}
}

// Init initializes the current screen
func (r *Router) Init() tea.Cmd {
	return r.start(r.current)
}

func (r *Router) start(route ui.Route) tea.Cmd {
	s, ok := r.screens[route]
	if !ok || r.started[route] {
		return nil
	}
	r.started[route] = true
	return s.Init()
}

// Update processes messages and updates the current screen
func (r *Router) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RouterMsg:
		return r, r.Navigate(msg.To)

	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "esc" && r.CanGoBack() {
			return r, r.Back()
		}

	case ui.StatsLoadedMsg, ui.ChartLoadedMsg, ui.HoldersLoadedMsg, ui.ExportedMsg, spinner.TickMsg:
		// Results go to every screen; each one ignores what it did not ask for.
		return r, r.broadcast(msg)
	}

	current, ok := r.screens[r.current]
	if !ok {
		return r, nil
	}
	updated, cmd := current.Update(msg)
	r.screens[r.current] = updated
	return r, cmd
}

func (r *Router) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for route, s := range r.screens {
		updated, cmd := s.Update(msg)
		r.screens[route] = updated
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// View renders the current screen
func (r *Router) View() string {
	s, ok := r.screens[r.current]
	if !ok {
		return "No screen available"
	}
	return s.View()
}

// SetSize sets the size for every screen
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	for _, s := range r.screens {
		s.SetSize(width, height)
	}
}

// Navigate shows route, starting its screen on first visit.
func (r *Router) Navigate(route ui.Route) tea.Cmd {
	if _, ok := r.screens[route]; !ok || route == r.current {
		return nil
	}
	r.history = append(r.history, r.current)
	r.current = route
	return r.start(route)
}

// Back navigates back to the previous screen
func (r *Router) Back() tea.Cmd {
	if len(r.history) == 0 {
		return nil
	}
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	return nil
}

// Current returns the current route
func (r *Router) Current() ui.Route {
	return r.current
}

// CanGoBack returns true if there are screens to go back to
func (r *Router) CanGoBack() bool {
	return len(r.history) > 0
}
