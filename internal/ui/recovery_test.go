package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// mockModel is a test UI model
type mockModel struct {
	panicOnUpdate bool
	panicOnView   bool
	updates       int
}

func (m *mockModel) Init() tea.Cmd { return nil }

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

func TestSafeModelPassesThrough(t *testing.T) {
	sm := NewSafeModel(&mockModel{}, zap.NewNop())

	model, cmd := sm.Update(nil)
	if model != sm {
		t.Error("Expected wrapper to be returned as the model")
	}
	if cmd == nil {
		t.Error("Expected command from wrapped model")
	}
	if sm.View() != "Test UI" {
		t.Errorf("Unexpected view: %q", sm.View())
	}
	if sm.Failed() {
		t.Error("Expected no recovered panic")
	}
}

func TestSafeModelRecoversUpdate(t *testing.T) {
	sm := NewSafeModel(&mockModel{panicOnUpdate: true}, zap.NewNop())

	_, cmd := sm.Update(nil)
	if cmd != nil {
		t.Error("Expected nil command after panic")
	}
	if !sm.Failed() {
		t.Error("Expected panic to be recorded")
	}
}

func TestSafeModelRecoversView(t *testing.T) {
	sm := NewSafeModel(&mockModel{panicOnView: true}, zap.NewNop())

	if view := sm.View(); view == "" {
		t.Error("Expected error view after panic")
	}
	if !sm.Failed() {
		t.Error("Expected panic to be recorded")
	}
}

func TestRouteOrder(t *testing.T) {
	if RouteOverview.Next() != RouteHolders || RouteHolders.Next() != RouteOverview {
		t.Error("Expected tab order to wrap between the two views")
	}
	if RouteHolders.String() != "holders" {
		t.Errorf("Unexpected route name %q", RouteHolders.String())
	}
}
