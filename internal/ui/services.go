package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/export"
	"github.com/rovshanmuradov/tokenstats/internal/types"
)

// Backend is the statistics module as seen by the terminal screens.
type Backend interface {
	Stats(ctx context.Context) (*types.TokenStatistics, error)
	Holders(ctx context.Context) (*types.HolderTable, error)
	Chart(ctx context.Context, r types.TimeRange) ([]types.PricePoint, error)
	Invalidate()
}

// ServiceProvider provides access to backend services for UI screens
type ServiceProvider interface {
	Backend() Backend
	Exporter() *export.HolderExporter
	ExportDir() string
	Logger() *zap.Logger
	Context() context.Context
	Timeout() time.Duration
}

// RealServiceProvider implements ServiceProvider with real services
type RealServiceProvider struct {
	backend   Backend
	exporter  *export.HolderExporter
	exportDir string
	logger    *zap.Logger
	ctx       context.Context
	timeout   time.Duration
}

// NewRealServiceProvider creates a new service provider. A zero timeout
// leaves fetches bounded only by ctx.
func NewRealServiceProvider(
	ctx context.Context,
	backend Backend,
	exportDir string,
	timeout time.Duration,
	logger *zap.Logger,
) *RealServiceProvider {
	return &RealServiceProvider{
		backend:   backend,
		exporter:  export.NewHolderExporter(logger),
		exportDir: exportDir,
		logger:    logger.Named("ui"),
		ctx:       ctx,
		timeout:   timeout,
	}
}

func (p *RealServiceProvider) Backend() Backend                 { return p.backend }
func (p *RealServiceProvider) Exporter() *export.HolderExporter { return p.exporter }
func (p *RealServiceProvider) ExportDir() string                { return p.exportDir }
func (p *RealServiceProvider) Logger() *zap.Logger              { return p.logger }
func (p *RealServiceProvider) Context() context.Context         { return p.ctx }
func (p *RealServiceProvider) Timeout() time.Duration           { return p.timeout }

func fetchContext(p ServiceProvider) (context.Context, context.CancelFunc) {
	if p.Timeout() > 0 {
		return context.WithTimeout(p.Context(), p.Timeout())
	}
	return context.WithCancel(p.Context())
}

// FetchStats returns a command that loads statistics for generation gen.
func FetchStats(p ServiceProvider, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchContext(p)
		defer cancel()
		st, err := p.Backend().Stats(ctx)
		return StatsLoadedMsg{Gen: gen, Stats: st, Err: err}
	}
}

// FetchChart returns a command that loads price history for r.
func FetchChart(p ServiceProvider, gen uint64, r types.TimeRange) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchContext(p)
		defer cancel()
		points, err := p.Backend().Chart(ctx, r)
		return ChartLoadedMsg{Gen: gen, Range: r, Points: points, Err: err}
	}
}

// FetchHolders returns a command that loads the holder table. Enumeration
// pages sequentially, so it is bounded by ctx only.
func FetchHolders(p ServiceProvider, gen uint64) tea.Cmd {
	return func() tea.Msg {
		table, err := p.Backend().Holders(p.Context())
		return HoldersLoadedMsg{Gen: gen, Table: table, Err: err}
	}
}

// ExportHolders returns a command that writes table as CSV.
func ExportHolders(p ServiceProvider, table *types.HolderTable) tea.Cmd {
	return func() tea.Msg {
		path, err := p.Exporter().ExportHolders(table, export.ExportOptions{
			Format:    export.FormatCSV,
			Scope:     export.ScopeAll,
			OutputDir: p.ExportDir(),
		})
		if err != nil {
			p.Logger().Warn("Holder export failed", zap.Error(err))
		}
		return ExportedMsg{Path: path, Err: err}
	}
}
