package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Color palette shared by the listing tables.
const (
	// ColorPrimary is magenta - used for table headers.
	ColorPrimary = lipgloss.Color("#C026D3")

	// ColorMuted is gray - used for borders and empty values.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorError is red - used for rows that failed to resolve.
	ColorError = lipgloss.Color("#EF4444")

	// ColorHighlight is cyan - used for script and download names.
	ColorHighlight = lipgloss.Color("#06B6D4")
)

var (
	// HeaderStyle is for table header cells.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	// NameStyle is for the first column of a listing.
	NameStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Padding(0, 1)

	// CellStyle is for every other cell.
	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// ErrorCellStyle is for cells describing a failure.
	ErrorCellStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// renderTable lays rows out under headers. failed marks data rows (by index)
// rendered with ErrorCellStyle outside the first column.
func renderTable(headers []string, rows [][]string, failed map[int]bool) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderStyle
			case col == 0:
				return NameStyle
			case failed[row]:
				return ErrorCellStyle
			default:
				return CellStyle
			}
		})
	return t.Render()
}
