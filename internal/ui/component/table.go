package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/tokenstats/internal/ui/style"
)

// TableColumn represents a column configuration
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// TableRow represents a row of data
type TableRow struct {
	Data  []string
	Style lipgloss.Style
}

// Table represents a data table component
type Table struct {
	columns []TableColumn
	rows    []TableRow
	width   int

	// Styling
	headerStyle lipgloss.Style
	rowStyle    lipgloss.Style
	borderStyle lipgloss.Style

	// Configuration
	showBorder bool
	zebra      bool // Alternating row colors
}

// NewTable creates a new table component
func NewTable() *Table {
	palette := style.DefaultPalette()

	return &Table{
		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true),

		rowStyle: lipgloss.NewStyle().
			Foreground(palette.Text),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),
	}
}

// SetColumns sets the table columns
func (t *Table) SetColumns(columns []TableColumn) *Table {
	t.columns = make([]TableColumn, len(columns))
	copy(t.columns, columns)
	return t
}

// SetRows sets rows with the default row style
func (t *Table) SetRows(rows [][]string) *Table {
	t.rows = make([]TableRow, 0, len(rows))
	for _, data := range rows {
		t.rows = append(t.rows, TableRow{Data: data, Style: t.rowStyle})
	}
	return t
}

// AddRow appends a row; a nil style falls back to the default row style
func (t *Table) AddRow(data []string, rowStyle *lipgloss.Style) *Table {
	s := t.rowStyle
	if rowStyle != nil {
		s = *rowStyle
	}
	t.rows = append(t.rows, TableRow{Data: data, Style: s})
	return t
}

// SetWidth sets the total width used for auto-sized columns
func (t *Table) SetWidth(width int) *Table {
	t.width = width
	return t
}

// SetShowBorder enables/disables table border
func (t *Table) SetShowBorder(show bool) *Table {
	t.showBorder = show
	return t
}

// SetZebra enables/disables alternating row colors
func (t *Table) SetZebra(zebra bool) *Table {
	t.zebra = zebra
	return t
}

// View renders the table
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return "No columns defined"
	}

	columns := t.columnWidths()
	var content strings.Builder

	for i, col := range columns {
		content.WriteString(renderCell(col.Header, col.Width, col.Align, t.headerStyle))
		if i < len(columns)-1 {
			content.WriteString("│")
		}
	}
	content.WriteString("\n")
	for i, col := range columns {
		content.WriteString(strings.Repeat("─", col.Width))
		if i < len(columns)-1 {
			content.WriteString("┼")
		}
	}

	for rowIndex, row := range t.rows {
		content.WriteString("\n")
		rowStyle := row.Style
		if t.zebra && rowIndex%2 == 1 {
			rowStyle = rowStyle.Background(style.DefaultPalette().BackgroundAlt)
		}
		for i, col := range columns {
			cell := ""
			if i < len(row.Data) {
				cell = row.Data[i]
			}
			content.WriteString(renderCell(cell, col.Width, col.Align, rowStyle))
			if i < len(columns)-1 {
				content.WriteString("│")
			}
		}
	}

	if t.showBorder {
		return t.borderStyle.Render(content.String())
	}
	return content.String()
}

// renderCell pads or truncates content to width
func renderCell(content string, width int, align lipgloss.Position, s lipgloss.Style) string {
	if r := []rune(content); len(r) > width {
		if width > 1 {
			content = string(r[:width-1]) + "…"
		} else {
			content = string(r[:width])
		}
	}
	return s.Width(width).Align(align).Render(content)
}

// columnWidths shares the remaining width among columns without one
func (t *Table) columnWidths() []TableColumn {
	columns := make([]TableColumn, len(t.columns))
	copy(columns, t.columns)

	explicit, auto := 0, 0
	for _, col := range columns {
		if col.Width > 0 {
			explicit += col.Width
		} else {
			auto++
		}
	}
	if auto == 0 {
		return columns
	}

	autoWidth := 10
	if available := t.width - explicit - (len(columns) - 1); t.width > 0 && available > auto {
		autoWidth = available / auto
	}
	for i := range columns {
		if columns[i].Width <= 0 {
			columns[i].Width = autoWidth
		}
	}
	return columns
}

// GetRowCount returns the number of rows
func (t *Table) GetRowCount() int {
	return len(t.rows)
}

// Clear removes all rows from the table
func (t *Table) Clear() *Table {
	t.rows = t.rows[:0]
	return t
}
