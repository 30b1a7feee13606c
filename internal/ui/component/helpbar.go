package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/tokenstats/internal/ui/style"
)

// HelpBar shows keyboard shortcuts and the latest status line
type HelpBar struct {
	keyBindings []key.Binding
	width       int

	status      string
	statusIsErr bool

	// Styling
	keyStyle       lipgloss.Style
	descStyle      lipgloss.Style
	sepStyle       lipgloss.Style
	containerStyle lipgloss.Style
}

// NewHelpBar creates a new help bar component
func NewHelpBar() *HelpBar {
	palette := style.DefaultPalette()

	return &HelpBar{
		width: 80,

		keyStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		descStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		sepStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		containerStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Margin(1, 0, 0, 0),
	}
}

// SetKeyBindings sets the key bindings to display
func (h *HelpBar) SetKeyBindings(bindings []key.Binding) *HelpBar {
	h.keyBindings = bindings
	return h
}

// SetWidth sets the help bar width
func (h *HelpBar) SetWidth(width int) *HelpBar {
	h.width = width
	return h
}

// SetStatus shows a one-line message above the shortcuts; empty clears it
func (h *HelpBar) SetStatus(message string, isErr bool) *HelpBar {
	h.status = message
	h.statusIsErr = isErr
	return h
}

// Status returns the current status line
func (h *HelpBar) Status() string {
	return h.status
}

// View renders the help bar
func (h *HelpBar) View() string {
	availableWidth := h.width - 4 // Account for padding

	items := h.renderItems()
	separator := h.sepStyle.Render(" • ")
	content := strings.Join(items, separator)
	if lipgloss.Width(content) > availableWidth {
		content = h.wrapContent(items, availableWidth, separator)
	}

	if h.status != "" {
		statusStyle := style.SuccessStyle
		if h.statusIsErr {
			statusStyle = style.ErrorStyle
		}
		content = statusStyle.Render(h.status) + "\n" + content
	}
	if content == "" {
		return ""
	}
	return h.containerStyle.Width(h.width).Render(content)
}

// renderItems renders enabled bindings as "key description"
func (h *HelpBar) renderItems() []string {
	items := make([]string, 0, len(h.keyBindings))
	for _, binding := range h.keyBindings {
		if !binding.Enabled() {
			continue
		}
		help := binding.Help()
		if help.Key == "" || help.Desc == "" {
			continue
		}
		items = append(items, h.keyStyle.Render(help.Key)+" "+h.descStyle.Render(help.Desc))
	}
	return items
}

// wrapContent wraps content to fit within the available width
func (h *HelpBar) wrapContent(items []string, maxWidth int, separator string) string {
	var lines []string
	var currentLine []string
	currentWidth := 0
	sepWidth := lipgloss.Width(separator)

	for _, item := range items {
		itemWidth := lipgloss.Width(item) + sepWidth

		if currentWidth+itemWidth > maxWidth && len(currentLine) > 0 {
			lines = append(lines, strings.Join(currentLine, separator))
			currentLine = []string{item}
			currentWidth = itemWidth
		} else {
			currentLine = append(currentLine, item)
			currentWidth += itemWidth
		}
	}
	if len(currentLine) > 0 {
		lines = append(lines, strings.Join(currentLine, separator))
	}

	return strings.Join(lines, "\n")
}
