package ui

import (
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// SafeModel wraps a model so a panic in a screen is logged and rendered as
// an error line instead of tearing down the terminal.
type SafeModel struct {
	model  tea.Model
	logger *zap.Logger
	failed bool
}

// NewSafeModel creates a new panic-recovering wrapper
func NewSafeModel(model tea.Model, logger *zap.Logger) *SafeModel {
	return &SafeModel{
		model:  model,
		logger: logger,
	}
}

// Init wraps the Init method with panic recovery
func (sm *SafeModel) Init() (cmd tea.Cmd) {
	defer sm.recoverFromPanic("Init", &cmd)
	return sm.model.Init()
}

// Update wraps the Update method with panic recovery
func (sm *SafeModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	model = sm
	defer sm.recoverFromPanic("Update", &cmd)
	sm.model, cmd = sm.model.Update(msg)
	return sm, cmd
}

// View wraps the View method with panic recovery
func (sm *SafeModel) View() (view string) {
	defer func() {
		if r := recover(); r != nil {
			sm.logger.Error("View panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			sm.failed = true
			view = "Display error, see the log file. Press q to exit."
		}
	}()
	return sm.model.View()
}

// Failed reports whether any panic was recovered.
func (sm *SafeModel) Failed() bool {
	return sm.failed
}

func (sm *SafeModel) recoverFromPanic(method string, cmd *tea.Cmd) {
	if r := recover(); r != nil {
		sm.logger.Error("UI method panic recovered",
			zap.String("method", method),
			zap.Any("panic", r),
			zap.String("stack", string(debug.Stack())))
		sm.failed = true
		*cmd = nil
	}
}
