// Package export provides functionality for exporting cut optimization results
// to various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BarCut/internal/model"
)

// partColor represents an RGB color for a cut piece.
type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	barHeight    = 8.0
	barSpacing   = 16.0
	barLabelW    = 28.0
)

// barsPerPage is how many bar diagrams fit between the header and the footer.
var barsPerPage = int((pageHeight - drawAreaTop - marginBottom) / barSpacing)

// ExportPDF generates a PDF document with one section per method that
// produced placements. Each section draws every opened bar to scale with its
// cuts, followed by a summary page comparing all methods.
func ExportPDF(path string, report *model.ComparisonReport, settings model.Settings) error {
	if report == nil || len(report.Results) == 0 {
		return fmt.Errorf("no results to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	colors := demandColors(report)
	for _, res := range report.Ordered() {
		if len(res.Placements) == 0 {
			continue
		}
		renderMethodPages(pdf, res, res.Method == report.Best, colors)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, report, settings)

	return pdf.OutputFileAndClose(path)
}

// demandColors assigns each demand piece a stable color across methods.
func demandColors(report *model.ComparisonReport) map[string]partColor {
	colors := make(map[string]partColor)
	for _, res := range report.Ordered() {
		for _, p := range res.Placements {
			for _, c := range p.Cuts {
				if _, ok := colors[c.DemandID]; !ok {
					colors[c.DemandID] = partColors[len(colors)%len(partColors)]
				}
			}
		}
	}
	return colors
}

// renderMethodPages draws the bars of one result, paging as needed.
func renderMethodPages(pdf *fpdf.Fpdf, res model.OptimizationResult, best bool, colors map[string]partColor) {
	maxLength := 0.0
	for _, p := range res.Placements {
		maxLength = math.Max(maxLength, p.StockLength)
	}
	drawWidth := pageWidth - marginLeft - marginRight - barLabelW
	scale := drawWidth / maxLength

	pages := (len(res.Placements) + barsPerPage - 1) / barsPerPage
	for page := 0; page < pages; page++ {
		pdf.AddPage()

		// Title
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(marginLeft, marginTop)
		title := fmt.Sprintf("Method: %s", res.Method)
		if best {
			title += " (best)"
		}
		if pages > 1 {
			title += fmt.Sprintf(" - page %d/%d", page+1, pages)
		}
		pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

		// Stats line
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, marginTop+headerHeight)
		stats := fmt.Sprintf("Bars: %d | Cuts: %d | Waste: %.1f mm | Efficiency: %.1f%% | Unmet: %d",
			res.StockUsed(), countCuts(res), res.TotalWaste, res.Efficiency(), res.UnmetCount())
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

		start := page * barsPerPage
		end := min(start+barsPerPage, len(res.Placements))
		for i, p := range res.Placements[start:end] {
			renderBar(pdf, p, scale, drawAreaTop+float64(i)*barSpacing, colors)
		}
	}
}

// renderBar draws one stock instance with trim, cuts and the remaining offcut.
func renderBar(pdf *fpdf.Fpdf, p model.Placement, scale, y float64, colors map[string]partColor) {
	// Stock label
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y+barHeight/2-2)
	pdf.CellFormat(barLabelW-2, 4, p.Name(), "", 0, "L", false, 0, "")

	x0 := marginLeft + barLabelW
	w := p.StockLength * scale

	// Bar background (kerf and offcut show through)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(x0, y, w, barHeight, "FD")

	if p.TrimLoss > 0 {
		tw := p.TrimLoss * scale
		pdf.SetFillColor(255, 200, 200)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x0, y, tw, barHeight, "FD")
		drawHatchPattern(pdf, x0, y, tw, barHeight)
	}

	for _, c := range p.Cuts {
		col := colors[c.DemandID]
		cx := x0 + c.Offset*scale
		cw := c.Length * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(cx, y, cw, barHeight, "FD")

		label := fmt.Sprintf("%s %g", c.Label, c.Length)
		pdf.SetFont("Helvetica", "", labelFontSize(cw))
		if lw := pdf.GetStringWidth(label); lw < cw-1 {
			pdf.SetXY(cx+(cw-lw)/2, y+barHeight/2-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
	}

	// Dimension annotation below the bar
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)
	note := fmt.Sprintf("%.0f mm | used %.1f | kerf %.1f | offcut %.1f | %.1f%%",
		p.StockLength, p.UsedLength(), p.KerfLoss, p.Offcut, p.Utilization())
	pdf.SetXY(x0, y+barHeight+0.5)
	pdf.CellFormat(w, 3.5, note, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark trimmed material.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 2.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// renderSummaryPage draws the final page comparing every method.
func renderSummaryPage(pdf *fpdf.Fpdf, report *model.ComparisonReport, settings model.Settings) {
	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan Summary", "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Method Comparison", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{35, 25, 25, 35, 30, 25, 30, 62}
	headers := []string{"Method", "Bars", "Cuts", "Waste (mm)", "Efficiency", "Unmet", "Status", "Note"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, res := range report.Ordered() {
		note := res.Error
		if res.Method == report.Best {
			note = "best"
		}
		if pdf.GetStringWidth(note) > colWidths[7]-2 {
			for len(note) > 0 && pdf.GetStringWidth(note+"...") > colWidths[7]-2 {
				note = note[:len(note)-1]
			}
			note += "..."
		}
		rowData := []string{
			res.Method,
			fmt.Sprintf("%d", res.StockUsed()),
			fmt.Sprintf("%d", countCuts(res)),
			fmt.Sprintf("%.1f", res.TotalWaste),
			fmt.Sprintf("%.1f%%", res.Efficiency()),
			fmt.Sprintf("%d", res.UnmetCount()),
			string(res.Status()),
			note,
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Unmet demand of the best result
	if best, ok := report.BestResult(); ok && len(best.Unmet) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unmet Demand", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, u := range best.Unmet {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %g mm (qty: %d) %s", u.Label, u.Length, u.Quantity, u.Reason)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	// Cut settings summary
	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Cut Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Kerf Width", fmt.Sprintf("%.1f mm", settings.Kerf)},
		{"Edge Trim", fmt.Sprintf("%.1f mm", settings.EdgeTrim)},
		{"Min Offcut Length", fmt.Sprintf("%.0f mm", settings.MinOffcutLength)},
		{"Exact Search Timeout", settings.ExactTimeout.String()},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BarCut - Cutting Stock Optimizer", "", 0, "C", false, 0, "")
}

// labelFontSize returns a font size that suits the drawn cut width.
func labelFontSize(w float64) float64 {
	switch {
	case w > 40:
		return 7
	case w > 20:
		return 6
	default:
		return 5
	}
}

// countCuts returns the total number of cuts across all placements.
func countCuts(res model.OptimizationResult) int {
	total := 0
	for _, p := range res.Placements {
		total += len(p.Cuts)
	}
	return total
}
