package style

import (
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Margin(1, 0, 0, 0)

	TabStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Bold(true).
			Padding(0, 1)
)

// Layout styles
var (
	ContainerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 2)
)

// Metric styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(palette.TextSecondary).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true)

	NoDataStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true)

	UpStyle = lipgloss.NewStyle().
		Foreground(palette.Up).
		Bold(true)

	DownStyle = lipgloss.NewStyle().
			Foreground(palette.Down).
			Bold(true)

	SpecialStyle = lipgloss.NewStyle().
			Foreground(palette.Special)
)

// Status styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(palette.Info)
)

// AdaptiveJoinHorizontal stacks blocks vertically on narrow screens.
func AdaptiveJoinHorizontal(width int, blocks ...string) string {
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// AdaptiveWidth returns percentage of width, or nearly all of it on narrow screens.
func AdaptiveWidth(width, percentage int) int {
	if width < 80 {
		return width - 4
	}
	return (width * percentage) / 100
}
