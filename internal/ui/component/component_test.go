package component

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestResample(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, Resample([]float64{1, 2, 3}, 10))
	assert.Equal(t, []float64{1.5, 3.5}, Resample([]float64{1, 2, 3, 4}, 2))
	assert.Len(t, Resample(make([]float64, 1000), 60), 60)
}

func TestSparklineWidth(t *testing.T) {
	s := NewSparkline(20).SetData([]float64{1, 2, 3})
	assert.Equal(t, 20, utf8.RuneCountInString(s.generateSparkBlocks()))

	s.SetData(make([]float64, 500))
	assert.Equal(t, 20, utf8.RuneCountInString(s.generateSparkBlocks()))
}

func TestSparklineTrend(t *testing.T) {
	s := NewSparkline(10)
	assert.Equal(t, "→", s.GetTrend())

	s.SetData([]float64{1, 1.5})
	assert.Equal(t, "↗", s.GetTrend())
	assert.InDelta(t, 50.0, s.GetChangePercent(), 1e-9)

	s.SetData([]float64{2, 1})
	assert.Equal(t, "↘", s.GetTrend())
}

func TestTableTruncatesByRune(t *testing.T) {
	tbl := NewTable().SetColumns([]TableColumn{{Header: "Address", Width: 6}})
	tbl.SetRows([][]string{{"abcdefghij"}})

	lines := strings.Split(tbl.View(), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Addre…")
	assert.Contains(t, lines[2], "abcde…")
	assert.Equal(t, 6, lipgloss.Width(lines[2]))
}

func TestTableAutoWidth(t *testing.T) {
	tbl := NewTable().SetWidth(41).SetColumns([]TableColumn{
		{Header: "#", Width: 5},
		{Header: "A"},
		{Header: "B"},
	})
	cols := tbl.columnWidths()
	assert.Equal(t, 17, cols[1].Width)
	assert.Equal(t, 17, cols[2].Width)
}

func TestHelpBarStatus(t *testing.T) {
	h := NewHelpBar().SetWidth(80)
	assert.Equal(t, "", h.View())

	h.SetStatus("Exported to /tmp/x.csv", false)
	assert.Contains(t, h.View(), "Exported to /tmp/x.csv")
}
