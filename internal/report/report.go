// Package report turns a comparison report into display rows and writes
// them as a terminal table, CSV or JSON.
package report

import (
	"fmt"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
)

// Columns are the headers of the results table.
var Columns = []string{"Método", "Stock ID", "Cuts", "Utilization %", "Waste", "Status"}

// RowKind tells placement rows apart from the per-method rows.
type RowKind int

const (
	RowPlacement RowKind = iota
	RowUnmet
	RowSummary
)

// Row is one line of the results table.
type Row struct {
	Kind        RowKind
	Method      string
	StockID     string
	Cuts        string
	Utilization float64
	Waste       float64
	Status      model.Status
	Best        bool
	Note        string
}

// Cells returns the row formatted for the table columns.
func (r Row) Cells() []string {
	util := fmt.Sprintf("%.1f", r.Utilization)
	waste := fmt.Sprintf("%.1f", r.Waste)
	if r.Kind == RowUnmet {
		util, waste = "-", "-"
	}
	cuts := r.Cuts
	if r.Note != "" {
		cuts += " (" + r.Note + ")"
	}
	return []string{r.Method, r.StockID, cuts, util, waste, string(r.Status)}
}

// DisplayTable is the rendered form of a comparison report.
type DisplayTable struct {
	Columns []string
	Rows    []Row
}

// Records returns the header followed by every row's cells.
func (t DisplayTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Columns)
	for _, r := range t.Rows {
		out = append(out, r.Cells())
	}
	return out
}

// Render builds one row per placement, one per unmet demand piece and one
// summary row per method, in method order.
func Render(report *model.ComparisonReport) DisplayTable {
	t := DisplayTable{Columns: Columns}
	if report == nil {
		return t
	}
	for _, res := range report.Ordered() {
		status := res.Status()
		for _, p := range res.Placements {
			t.Rows = append(t.Rows, Row{
				Kind:        RowPlacement,
				Method:      res.Method,
				StockID:     p.Name(),
				Cuts:        CutSequence(p),
				Utilization: p.Utilization(),
				Waste:       p.Waste(),
				Status:      status,
			})
		}
		for _, u := range res.Unmet {
			if res.Degraded {
				break
			}
			t.Rows = append(t.Rows, Row{
				Kind:    RowUnmet,
				Method:  res.Method,
				StockID: "-",
				Cuts:    fmt.Sprintf("unmet %s %g x%d", u.Label, u.Length, u.Quantity),
				Status:  status,
				Note:    u.Reason,
			})
		}
		t.Rows = append(t.Rows, summaryRow(res, res.Method == report.Best))
	}
	return t
}

func summaryRow(res model.OptimizationResult, best bool) Row {
	cuts := 0
	for _, p := range res.Placements {
		cuts += len(p.Cuts)
	}
	row := Row{
		Kind:        RowSummary,
		Method:      res.Method,
		StockID:     fmt.Sprintf("total %d", res.StockUsed()),
		Cuts:        fmt.Sprintf("%d cuts, %d unmet", cuts, res.UnmetCount()),
		Utilization: res.Efficiency(),
		Waste:       res.TotalWaste,
		Status:      res.Status(),
		Best:        best,
	}
	switch {
	case res.Error != "":
		row.Note = res.Error
	case best:
		row.Note = "best"
	}
	return row
}

// CutSequence lists the cuts of a placement in order, e.g. "D1 60 | D2 50".
func CutSequence(p model.Placement) string {
	parts := make([]string, len(p.Cuts))
	for i, c := range p.Cuts {
		parts[i] = fmt.Sprintf("%s %g", c.Label, c.Length)
	}
	return strings.Join(parts, " | ")
}

// StockBreakdown summarizes a result per stock piece: how many instances
// were opened, how many cuts they hold and their combined utilization.
func StockBreakdown(result model.OptimizationResult) []string {
	if len(result.Placements) == 0 {
		return nil
	}

	type stats struct {
		label   string
		length  float64
		count   int
		cuts    int
		used    float64
		opened  float64
		offcuts int
	}

	// Preserve first-use order
	var order []string
	byStock := make(map[string]*stats)

	for _, p := range result.Placements {
		s, ok := byStock[p.StockID]
		if !ok {
			order = append(order, p.StockID)
			s = &stats{label: p.StockLabel, length: p.StockLength}
			byStock[p.StockID] = s
		}
		s.count++
		s.cuts += len(p.Cuts)
		s.used += p.UsedLength()
		s.opened += p.StockLength
	}
	for _, oc := range result.Offcuts {
		if s, ok := byStock[oc.StockID]; ok {
			s.offcuts++
		}
	}

	lines := make([]string, 0, len(order))
	for _, id := range order {
		s := byStock[id]
		eff := 0.0
		if s.opened > 0 {
			eff = (s.used / s.opened) * 100.0
		}
		line := fmt.Sprintf("%s (%.0f mm): %d piece(s), %d cuts, %.1f%% efficiency", s.label, s.length, s.count, s.cuts, eff)
		if s.offcuts > 0 {
			line += fmt.Sprintf(", %d reusable offcut(s)", s.offcuts)
		}
		lines = append(lines, line)
	}
	return lines
}
