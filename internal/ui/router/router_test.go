package router

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/rovshanmuradov/tokenstats/internal/ui"
)

type stubScreen struct {
	name   string
	inits  int
	got    []tea.Msg
	width  int
	height int
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View() string { return s.name }

func (s *stubScreen) SetSize(width, height int) {
	s.width, s.height = width, height
}

func newRouter() (*Router, *stubScreen, *stubScreen) {
	overview := &stubScreen{name: "overview"}
	holders := &stubScreen{name: "holders"}
	r := New(ui.RouteOverview, map[ui.Route]Screen{
		ui.RouteOverview: overview,
		ui.RouteHolders:  holders,
	})
	r.Init()
	return r, overview, holders
}

func TestNavigateStartsScreenOnce(t *testing.T) {
	r, overview, holders := newRouter()
	assert.Equal(t, 1, overview.inits)
	assert.Equal(t, 0, holders.inits)

	r.Navigate(ui.RouteHolders)
	assert.Equal(t, "holders", r.View())
	r.Navigate(ui.RouteOverview)
	r.Navigate(ui.RouteHolders)
	assert.Equal(t, 1, holders.inits, "hidden screens keep their state")
}

func TestBackReturnsToPreviousRoute(t *testing.T) {
	r, _, _ := newRouter()
	assert.False(t, r.CanGoBack())

	r.Navigate(ui.RouteHolders)
	assert.True(t, r.CanGoBack())

	r.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ui.RouteOverview, r.Current())
	assert.False(t, r.CanGoBack())
}

func TestResultsReachHiddenScreens(t *testing.T) {
	r, overview, holders := newRouter()

	r.Update(ui.HoldersLoadedMsg{Gen: 1})
	assert.Len(t, holders.got, 1)
	assert.Len(t, overview.got, 1)

	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Len(t, overview.got, 2)
	assert.Len(t, holders.got, 1, "keys go to the visible screen only")
}

func TestWindowSizeReachesEveryScreen(t *testing.T) {
	r, overview, holders := newRouter()
	r.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, overview.width)
	assert.Equal(t, 30, holders.height)
}
