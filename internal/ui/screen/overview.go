package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/tokenstats/internal/format"
	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/ui"
	"github.com/rovshanmuradov/tokenstats/internal/ui/component"
	"github.com/rovshanmuradov/tokenstats/internal/ui/router"
	"github.com/rovshanmuradov/tokenstats/internal/ui/style"
)

// OverviewScreen shows the statistics record and a price sparkline
type OverviewScreen struct {
	provider ui.ServiceProvider
	keyMap   ui.KeyMap
	width    int
	height   int

	// UI components
	header    *component.StatusHeader
	helpBar   *component.HelpBar
	sparkline *component.Sparkline
	spinner   spinner.Model

	// State
	statsGen     uint64
	chartGen     uint64
	stats        *types.TokenStatistics
	statsErr     error
	loadingStats bool

	timeRange    types.TimeRange
	points       []types.PricePoint
	chartErr     error
	loadingChart bool
}

// NewOverviewScreen creates the overview screen for the configured token
func NewOverviewScreen(provider ui.ServiceProvider, symbol, mint string) *OverviewScreen {
	keyMap := ui.DefaultKeyMap()

	header := component.NewStatusHeader(symbol, mint)
	header.SetRoute(ui.RouteOverview)

	return &OverviewScreen{
		provider:  provider,
		keyMap:    keyMap,
		header:    header,
		helpBar:   component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteOverview)),
		sparkline: component.NewSparkline(60).ShowText(true),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style.InfoStyle)),
		timeRange: types.DefaultRange,
	}
}

// Init starts the first fetch
func (s *OverviewScreen) Init() tea.Cmd {
	return tea.Batch(s.refreshStats(), s.refreshChart(), s.spinner.Tick)
}

func (s *OverviewScreen) refreshStats() tea.Cmd {
	s.statsGen++
	s.loadingStats = true
	return ui.FetchStats(s.provider, s.statsGen)
}

func (s *OverviewScreen) refreshChart() tea.Cmd {
	s.chartGen++
	s.loadingChart = true
	return ui.FetchChart(s.provider, s.chartGen, s.timeRange)
}

// Update handles messages for the overview screen
func (s *OverviewScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.StatsLoadedMsg:
		if msg.Gen != s.statsGen {
			return s, nil
		}
		s.loadingStats = false
		s.statsErr = msg.Err
		if msg.Stats != nil {
			s.stats = msg.Stats
			s.header.SetSymbol(msg.Stats.Symbol)
			s.header.SetSample(msg.Stats.Sample)
			s.header.SetLastUpdate(msg.Stats.FetchedAt)
		}
		return s, nil

	case ui.ChartLoadedMsg:
		if msg.Gen != s.chartGen || msg.Range != s.timeRange {
			return s, nil
		}
		s.loadingChart = false
		s.chartErr = msg.Err
		if msg.Err == nil {
			s.points = msg.Points
			s.sparkline.SetPoints(msg.Points)
		}
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Refresh):
			s.provider.Backend().Invalidate()
			return s, tea.Batch(s.refreshStats(), s.refreshChart())
		case key.Matches(msg, s.keyMap.NextRange):
			s.timeRange = s.timeRange.Next()
			s.points = nil
			s.sparkline.SetData(nil)
			return s, s.refreshChart()
		}
	}
	return s, nil
}

// SetSize sets the screen dimensions
func (s *OverviewScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.header.SetWidth(width)
	s.helpBar.SetWidth(width)
	if w := width - 12; w > 10 {
		s.sparkline.SetWidth(w)
		s.sparkline.SetPoints(s.points)
	}
}

// View renders the overview screen
func (s *OverviewScreen) View() string {
	if s.loadingStats || s.loadingChart {
		s.header.SetLoading(s.spinner.View())
	} else {
		s.header.SetLoading("")
	}

	sections := []string{
		s.header.View(),
		style.SubHeaderStyle.Render("Market"),
		s.renderStats(),
		style.SubHeaderStyle.Render(fmt.Sprintf("Price · %s", s.timeRange)),
		s.renderChart(),
		s.helpBar.View(),
	}
	return style.ContainerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s *OverviewScreen) renderStats() string {
	st := s.stats
	if st == nil {
		if s.statsErr != nil {
			return style.ErrorStyle.Render("Statistics unavailable: " + s.statsErr.Error())
		}
		return style.NoDataStyle.Render("Loading statistics...")
	}

	lines := []string{
		metric("Price", priceValue(st.Price)),
		metric("24h Change", changeValue(st.PriceChange24h)),
		metric("Market Cap", dollars(st.MarketCap)),
		metric("24h Volume", dollars(st.Volume24h)),
		metric("Holders", holdersValue(st.Holders)),
		metric("Supply", style.ValueStyle.Render(format.Number(st.TotalSupply))),
		metric("SOL", priceValue(st.SolPrice)),
	}
	return style.PanelStyle.Render(strings.Join(lines, "\n"))
}

func (s *OverviewScreen) renderChart() string {
	switch {
	case s.chartErr != nil:
		return style.NoDataStyle.Render(format.NoData)
	case len(s.points) == 0 && s.loadingChart:
		return style.NoDataStyle.Render("Loading chart...")
	case len(s.points) == 0:
		return style.NoDataStyle.Render(format.NoData)
	}

	first, last := s.points[0], s.points[len(s.points)-1]
	caption := fmt.Sprintf("%s  %s → %s  (%s)",
		format.Change(s.sparkline.GetChangePercent()),
		first.Time.Format(timeLayout(s.timeRange)),
		last.Time.Format(timeLayout(s.timeRange)),
		format.Price(last.Price))
	return s.sparkline.View() + "\n" + style.NoDataStyle.Render(caption)
}

func timeLayout(r types.TimeRange) string {
	if r.Duration() <= 24*time.Hour {
		return "15:04"
	}
	return "Jan 02"
}

func metric(label, value string) string {
	return style.LabelStyle.Render(label) + value
}

func noData() string {
	return style.NoDataStyle.Render(format.NoData)
}

func priceValue(v *float64) string {
	if v == nil {
		return noData()
	}
	return style.ValueStyle.Render("$" + format.Price(*v))
}

func dollars(v *float64) string {
	if v == nil {
		return noData()
	}
	return style.ValueStyle.Render("$" + format.Number(*v))
}

func changeValue(v *float64) string {
	if v == nil {
		return noData()
	}
	if *v < 0 {
		return style.DownStyle.Render(format.Change(*v))
	}
	return style.UpStyle.Render(format.Change(*v))
}

func holdersValue(c *types.HolderCount) string {
	if c == nil {
		return noData()
	}
	if c.LowerBound {
		return style.WarningStyle.Render(format.Count(c)) + style.NoDataStyle.Render("  (enumeration stopped early)")
	}
	return style.ValueStyle.Render(format.Count(c))
}
