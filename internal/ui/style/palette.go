package style

import "github.com/charmbracelet/lipgloss"

// Colours adapt to the terminal background: Light is used on light
// terminals, Dark on dark ones.
var (
	accent  = lipgloss.AdaptiveColor{Light: "#0B7285", Dark: "#22D3EE"}
	tab     = lipgloss.AdaptiveColor{Light: "#A61E4D", Dark: "#F472B6"}
	gain    = lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#4ADE80"}
	loss    = lipgloss.AdaptiveColor{Light: "#C92A2A", Dark: "#F87171"}
	partial = lipgloss.AdaptiveColor{Light: "#B35C00", Dark: "#FBBF24"}
	info    = lipgloss.AdaptiveColor{Light: "#1C7ED6", Dark: "#60A5FA"}
	wallet  = lipgloss.AdaptiveColor{Light: "#6741D9", Dark: "#A78BFA"}

	ink      = lipgloss.AdaptiveColor{Light: "#1A1B1E", Dark: "#E5E7EB"}
	inkSoft  = lipgloss.AdaptiveColor{Light: "#495057", Dark: "#A1A1AA"}
	inkFaint = lipgloss.AdaptiveColor{Light: "#868E96", Dark: "#6B7280"}
	paper    = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#111827"}
	stripe   = lipgloss.AdaptiveColor{Light: "#F1F3F5", Dark: "#1F2937"}
)

// Palette names colours by what they mark on the stats screens.
type Palette struct {
	Primary   lipgloss.TerminalColor // titles, borders, key hints
	Secondary lipgloss.TerminalColor // section headers, table headers
	Success   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor // lower-bound counts, sample badge
	Info      lipgloss.TerminalColor

	Background    lipgloss.TerminalColor
	BackgroundAlt lipgloss.TerminalColor // zebra rows
	Text          lipgloss.TerminalColor
	TextMuted     lipgloss.TerminalColor // "No Data", captions
	TextSecondary lipgloss.TerminalColor // addresses, labels

	Up      lipgloss.TerminalColor
	Down    lipgloss.TerminalColor
	Special lipgloss.TerminalColor // locked and liquidity wallets
}

// DefaultPalette returns the palette used by every screen.
func DefaultPalette() Palette {
	return Palette{
		Primary:   accent,
		Secondary: tab,
		Success:   gain,
		Error:     loss,
		Warning:   partial,
		Info:      info,

		Background:    paper,
		BackgroundAlt: stripe,
		Text:          ink,
		TextMuted:     inkFaint,
		TextSecondary: inkSoft,

		Up:      gain,
		Down:    loss,
		Special: wallet,
	}
}
