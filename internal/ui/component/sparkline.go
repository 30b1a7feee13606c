package component

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/ui/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline represents a mini graph of a price series
type Sparkline struct {
	data     []float64
	width    int
	style    lipgloss.Style
	color    lipgloss.TerminalColor
	showText bool
}

// NewSparkline creates a new sparkline component
func NewSparkline(width int) *Sparkline {
	return &Sparkline{
		data:  make([]float64, 0),
		width: width,
		style: lipgloss.NewStyle(),
		color: style.DefaultPalette().Primary,
	}
}

// SetData sets the data points, averaging them down to the width when
// there are more points than columns.
func (s *Sparkline) SetData(data []float64) *Sparkline {
	s.data = Resample(data, s.width)
	return s
}

// SetPoints plots the prices of a chart series.
func (s *Sparkline) SetPoints(points []types.PricePoint) *Sparkline {
	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.Price
	}
	return s.SetData(data)
}

// SetWidth sets the width of the sparkline
func (s *Sparkline) SetWidth(width int) *Sparkline {
	s.width = width
	return s
}

// SetColor sets the color for the sparkline
func (s *Sparkline) SetColor(color lipgloss.TerminalColor) *Sparkline {
	s.color = color
	return s
}

// ShowText enables/disables the trend arrow after the sparkline
func (s *Sparkline) ShowText(show bool) *Sparkline {
	s.showText = show
	return s
}

// View renders the sparkline
func (s *Sparkline) View() string {
	if len(s.data) == 0 {
		return s.style.Foreground(style.DefaultPalette().TextMuted).Render(strings.Repeat("▁", s.width))
	}

	blocks := s.style.Foreground(s.color).Render(s.generateSparkBlocks())
	if !s.showText {
		return blocks
	}

	palette := style.DefaultPalette()
	trendColor := palette.TextMuted
	switch s.GetTrend() {
	case "↗":
		trendColor = palette.Up
	case "↘":
		trendColor = palette.Down
	}
	return blocks + " " + lipgloss.NewStyle().Foreground(trendColor).Render(s.GetTrend())
}

// generateSparkBlocks creates the spark characters based on data
func (s *Sparkline) generateSparkBlocks() string {
	min, max := s.getMinMax()

	var result strings.Builder
	for i, value := range s.data {
		if i >= s.width {
			break
		}
		index := 3
		if max > min {
			index = int((value - min) / (max - min) * float64(len(sparkChars)-1))
		}
		if index < 0 {
			index = 0
		} else if index >= len(sparkChars) {
			index = len(sparkChars) - 1
		}
		result.WriteRune(sparkChars[index])
	}

	out := result.String()
	if n := utf8.RuneCountInString(out); n < s.width {
		out += strings.Repeat(" ", s.width-n)
	}
	return out
}

// getMinMax finds the minimum and maximum values in the data
func (s *Sparkline) getMinMax() (float64, float64) {
	if len(s.data) == 0 {
		return 0, 0
	}
	min, max := s.data[0], s.data[0]
	for _, value := range s.data {
		min = math.Min(min, value)
		max = math.Max(max, value)
	}
	return min, max
}

// GetTrend returns the overall trend of the data
func (s *Sparkline) GetTrend() string {
	change := s.GetChangePercent()
	switch {
	case math.Abs(change) < 0.1:
		return "→"
	case change > 0:
		return "↗"
	default:
		return "↘"
	}
}

// GetChangePercent returns the percentage change from first to last data point
func (s *Sparkline) GetChangePercent() float64 {
	if len(s.data) < 2 || s.data[0] == 0 {
		return 0
	}
	first := s.data[0]
	last := s.data[len(s.data)-1]
	return (last - first) / first * 100
}

// Resample averages data into at most width buckets, keeping order.
func Resample(data []float64, width int) []float64 {
	if width <= 0 || len(data) <= width {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(data) / width
		end := (i + 1) * len(data) / width
		var sum float64
		for _, v := range data[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
