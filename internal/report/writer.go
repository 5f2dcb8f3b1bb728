package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/piwi3910/BarCut/internal/model"
)

var (
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")

	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	summaryStyle = lipgloss.NewStyle().Bold(true)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// WriteCSV writes the table header and rows as CSV.
func WriteCSV(w io.Writer, t DisplayTable) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteJSON writes the full comparison report as indented JSON.
func WriteJSON(w io.Writer, report *model.ComparisonReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

// RenderTerminal draws the table with rounded borders. Summary rows are
// bold and the status column is colored.
func RenderTerminal(t DisplayTable) string {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Cells()
	}
	statusCol := len(t.Columns) - 1

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(t.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if row < 0 || row >= len(t.Rows) {
				return cellStyle
			}
			r := t.Rows[row]
			style := cellStyle
			if r.Kind == RowSummary {
				style = style.Inherit(summaryStyle)
			}
			if col == statusCol {
				style = style.Foreground(statusColor(r.Status))
			}
			return style
		})
	return tbl.Render()
}

func statusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusDegraded:
		return colorRed
	case model.StatusUnmetDemand:
		return colorYellow
	default:
		return colorGreen
	}
}
