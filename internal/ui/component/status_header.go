package component

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/tokenstats/internal/format"
	"github.com/rovshanmuradov/tokenstats/internal/ui"
	"github.com/rovshanmuradov/tokenstats/internal/ui/style"
)

// StatusHeader shows the token identity, the open tab and fetch status
type StatusHeader struct {
	symbol     string
	mint       string
	route      ui.Route
	loading    string
	sample     bool
	lastUpdate time.Time
	style      StatusHeaderStyle
	width      int
}

// StatusHeaderStyle contains all styling for the status header
type StatusHeaderStyle struct {
	container lipgloss.Style
	title     lipgloss.Style
	mint      lipgloss.Style
	sample    lipgloss.Style
	muted     lipgloss.Style
}

// NewStatusHeader creates a new status header component
func NewStatusHeader(symbol, mint string) *StatusHeader {
	palette := style.DefaultPalette()

	return &StatusHeader{
		symbol: symbol,
		mint:   mint,
		style: StatusHeaderStyle{
			container: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 1),

			title: lipgloss.NewStyle().
				Foreground(palette.Primary).
				Bold(true),

			mint: lipgloss.NewStyle().
				Foreground(palette.TextSecondary),

			sample: lipgloss.NewStyle().
				Foreground(palette.Background).
				Background(palette.Warning).
				Padding(0, 1),

			muted: lipgloss.NewStyle().
				Foreground(palette.TextMuted),
		},
	}
}

// SetSymbol updates the token symbol once the market feed names it
func (sh *StatusHeader) SetSymbol(symbol string) {
	if symbol != "" {
		sh.symbol = symbol
	}
}

// SetRoute marks the active tab
func (sh *StatusHeader) SetRoute(route ui.Route) {
	sh.route = route
}

// SetLoading shows an activity indicator; empty hides it
func (sh *StatusHeader) SetLoading(indicator string) {
	sh.loading = indicator
}

// SetSample flags statistics produced in offline sample mode
func (sh *StatusHeader) SetSample(sample bool) {
	sh.sample = sample
}

// SetLastUpdate records when data was last fetched
func (sh *StatusHeader) SetLastUpdate(t time.Time) {
	sh.lastUpdate = t
}

// SetWidth sets the component width for responsive layout
func (sh *StatusHeader) SetWidth(width int) {
	sh.width = width
}

// View renders the status header
func (sh *StatusHeader) View() string {
	parts := []string{
		sh.style.title.Render("$" + sh.symbol),
		sh.style.mint.Render(format.Address(sh.mint)),
		sh.renderTabs(),
	}
	if sh.sample {
		parts = append(parts, sh.style.sample.Render("SAMPLE"))
	}
	switch {
	case sh.loading != "":
		parts = append(parts, sh.loading+" fetching")
	case !sh.lastUpdate.IsZero():
		parts = append(parts, sh.style.muted.Render("updated "+sh.lastUpdate.Format("15:04:05")))
	}

	container := sh.style.container
	if sh.width > 4 {
		container = container.Width(sh.width - 2)
	}
	return container.Render(strings.Join(parts, " │ "))
}

func (sh *StatusHeader) renderTabs() string {
	tabs := make([]string, 0, len(ui.Routes))
	for i, route := range ui.Routes {
		label := fmt.Sprintf("%d %s", i+1, route.Title())
		if route == sh.route {
			tabs = append(tabs, style.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, style.TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// GetHeight returns the component height for layout calculations
func (sh *StatusHeader) GetHeight() int {
	return 3
}
