package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/style"
)

// TableColumn represents a column configuration
type TableColumn struct {
	Header string
	Width  int // 0 shares the remaining width
	Align  lipgloss.Position
}

// TableRow represents a row of data
type TableRow struct {
	Data  []string
	Style lipgloss.Style
}

// Table is a read-only data table
type Table struct {
	columns []TableColumn
	rows    []TableRow
	width   int

	headerStyle lipgloss.Style
	rowStyle    lipgloss.Style
	borderStyle lipgloss.Style

	showBorder  bool
	showHeaders bool
	zebra       bool
}

// NewTable creates a new table component
func NewTable() *Table {
	palette := style.DefaultPalette()

	return &Table{
		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Padding(0, 1),

		rowStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		showBorder:  true,
		showHeaders: true,
	}
}

// AddColumn adds a column to the table
func (t *Table) AddColumn(header string, width int, align lipgloss.Position) *Table {
	t.columns = append(t.columns, TableColumn{
		Header: header,
		Width:  width,
		Align:  align,
	})
	return t
}

// SetRows sets all table rows
func (t *Table) SetRows(rows [][]string) *Table {
	t.rows = make([]TableRow, len(rows))
	for i, rowData := range rows {
		t.rows[i] = TableRow{Data: rowData, Style: t.rowStyle}
	}
	return t
}

// SetRowStyle sets a custom style for a specific row
func (t *Table) SetRowStyle(rowIndex int, style lipgloss.Style) *Table {
	if rowIndex >= 0 && rowIndex < len(t.rows) {
		t.rows[rowIndex].Style = style
	}
	return t
}

// SetWidth sets the total table width
func (t *Table) SetWidth(width int) *Table {
	t.width = width
	return t
}

// SetShowBorder enables/disables table border
func (t *Table) SetShowBorder(show bool) *Table {
	t.showBorder = show
	return t
}

// SetShowHeaders enables/disables column headers
func (t *Table) SetShowHeaders(show bool) *Table {
	t.showHeaders = show
	return t
}

// SetZebra enables/disables alternating row colors
func (t *Table) SetZebra(zebra bool) *Table {
	t.zebra = zebra
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Clear removes all rows from the table
func (t *Table) Clear() *Table {
	t.rows = nil
	return t
}

// View renders the table
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return "No columns defined"
	}

	widths := t.columnWidths()
	var lines []string

	if t.showHeaders {
		cells := make([]string, len(t.columns))
		separators := make([]string, len(t.columns))
		for i, col := range t.columns {
			cells[i] = renderCell(col.Header, widths[i], col.Align, t.headerStyle)
			separators[i] = strings.Repeat("─", widths[i])
		}
		lines = append(lines, strings.Join(cells, "│"), strings.Join(separators, "┼"))
	}

	palette := style.DefaultPalette()
	for rowIndex, row := range t.rows {
		rowStyle := row.Style
		if t.zebra && rowIndex%2 == 1 {
			rowStyle = rowStyle.Background(palette.BackgroundAlt)
		}

		cells := make([]string, len(t.columns))
		for i, col := range t.columns {
			cellData := ""
			if i < len(row.Data) {
				cellData = row.Data[i]
			}
			cells[i] = renderCell(cellData, widths[i], col.Align, rowStyle)
		}
		lines = append(lines, strings.Join(cells, "│"))
	}

	result := strings.Join(lines, "\n")
	if t.showBorder {
		result = t.borderStyle.Render(result)
	}
	return result
}

// renderCell truncates content to width runes and aligns it.
func renderCell(content string, width int, align lipgloss.Position, style lipgloss.Style) string {
	if runes := []rune(content); len(runes) > width {
		if width > 1 {
			content = string(runes[:width-1]) + "…"
		} else {
			content = string(runes[:width])
		}
	}
	return style.Width(width).Align(align).Render(content)
}

// columnWidths fills in auto-width columns from the table width.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.columns))
	fixed, auto := 0, 0
	for i, col := range t.columns {
		widths[i] = col.Width
		if col.Width > 0 {
			fixed += col.Width
		} else {
			auto++
		}
	}
	if auto == 0 {
		return widths
	}

	available := t.width - fixed - (len(t.columns) - 1)
	if t.showBorder {
		available -= 2
	}
	share := max(available/auto, 8)
	for i := range widths {
		if widths[i] <= 0 {
			widths[i] = share
		}
	}
	return widths
}
