package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/config"
	"github.com/rovshanmuradov/tokenstats/internal/logger"
	"github.com/rovshanmuradov/tokenstats/internal/service"
	"github.com/rovshanmuradov/tokenstats/internal/ui"
	"github.com/rovshanmuradov/tokenstats/internal/ui/router"
	"github.com/rovshanmuradov/tokenstats/internal/ui/screen"
)

// AppModel represents the main TUI application model
type AppModel struct {
	router *router.Router
	keyMap ui.KeyMap
	width  int
	height int
}

// NewAppModel creates the application with the overview and holders screens
func NewAppModel(provider ui.ServiceProvider, symbol, mint string) *AppModel {
	r := router.New(ui.RouteOverview, map[ui.Route]router.Screen{
		ui.RouteOverview: screen.NewOverviewScreen(provider, symbol, mint),
		ui.RouteHolders:  screen.NewHoldersScreen(provider, symbol, mint),
	})

	return &AppModel{
		router: r,
		keyMap: ui.DefaultKeyMap(),
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return m.router.Init()
}

// Update handles application-level keys and forwards the rest to the router
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Tab):
			return m, m.router.Navigate(m.router.Current().Next())
		case key.Matches(msg, m.keyMap.Overview):
			return m, m.router.Navigate(ui.RouteOverview)
		case key.Matches(msg, m.keyMap.Holders):
			return m, m.router.Navigate(ui.RouteHolders)
		}
	}

	_, cmd := m.router.Update(msg)
	return m, cmd
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return m.router.View()
}

func main() {
	configPath := flag.String("config", "", "Path to config file (defaults and TOKENSTATS_* env when empty)")
	exportDir := flag.String("export-dir", "exports", "Directory for holder exports")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The terminal belongs to the TUI, so logs only go to the file.
	logCfg := logger.DefaultConfig()
	logCfg.Console = false
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	appLogger, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	svc, err := service.New(cfg, appLogger.Logger)
	if err != nil {
		appLogger.Fatal("Failed to build service", zap.Error(err))
	}

	provider := ui.NewRealServiceProvider(rootCtx, svc, *exportDir, cfg.RequestTimeout, appLogger.Logger)
	model := ui.NewSafeModel(NewAppModel(provider, cfg.TokenSymbol, cfg.TokenAddress), appLogger.Logger)

	appLogger.Info("Starting terminal client", zap.String("token", cfg.TokenAddress))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(rootCtx))
	if _, err := program.Run(); err != nil && rootCtx.Err() == nil {
		appLogger.Error("TUI application failed", zap.Error(err))
	}
	appLogger.Info("Terminal client stopped")
}
