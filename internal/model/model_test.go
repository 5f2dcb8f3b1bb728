package model

import (
	"math"
	"testing"
)

func TestNewStockPieceGeneratesID(t *testing.T) {
	s := NewStockPiece("", 6000, 2)
	if len(s.ID) != 8 {
		t.Errorf("expected 8 character id, got %q", s.ID)
	}
	if s.Label != s.ID {
		t.Errorf("expected label to default to id, got %q", s.Label)
	}
}

func TestAcceptsMaterial(t *testing.T) {
	steel := NewStockPiece("S", 100, 1)
	steel.Material = "steel"
	universal := NewStockPiece("U", 100, 1)

	alu := NewDemandPiece("A", 50, 1)
	alu.Material = "aluminium"
	plain := NewDemandPiece("P", 50, 1)

	if steel.Accepts(alu) {
		t.Error("steel stock must not accept aluminium demand")
	}
	if !steel.Accepts(plain) {
		t.Error("universal demand fits any stock")
	}
	if !universal.Accepts(alu) {
		t.Error("universal stock accepts any demand")
	}
}

func TestAcceptsWidth(t *testing.T) {
	s := NewStockPiece("S", 100, 1)
	s.Width = 40
	d := NewDemandPiece("D", 50, 1)

	d.Width = 40
	if !s.Accepts(d) {
		t.Error("equal width should fit")
	}
	d.Width = 41
	if s.Accepts(d) {
		t.Error("wider demand should not fit")
	}
	s.Width = 0
	if !s.Accepts(d) {
		t.Error("zero stock width is unconstrained")
	}
}

func TestPlacementMetrics(t *testing.T) {
	p := Placement{
		StockID:     "S1",
		Instance:    2,
		StockLength: 1000,
		Cuts:        []Cut{{Length: 400}, {Length: 300}},
		KerfLoss:    6,
		TrimLoss:    10,
		Offcut:      284,
	}

	if p.Name() != "S1#2" {
		t.Errorf("expected S1#2, got %s", p.Name())
	}
	if p.UsedLength() != 700 {
		t.Errorf("expected used 700, got %g", p.UsedLength())
	}
	if p.Waste() != 300 {
		t.Errorf("expected waste 300, got %g", p.Waste())
	}
	if math.Abs(p.Utilization()-70) > 1e-9 {
		t.Errorf("expected 70%% utilization, got %g", p.Utilization())
	}
	if !p.Feasible() {
		t.Error("expected feasible placement")
	}

	p.Cuts = append(p.Cuts, Cut{Length: 300})
	if p.Feasible() {
		t.Error("expected overfull placement to be infeasible")
	}
}

func TestResultStatus(t *testing.T) {
	r := OptimizationResult{}
	if r.Status() != StatusOK {
		t.Errorf("expected ok, got %s", r.Status())
	}
	r.Unmet = []UnmetDemand{{DemandID: "D1", Quantity: 1}}
	if r.Status() != StatusUnmetDemand {
		t.Errorf("expected unmet-demand-present, got %s", r.Status())
	}
	r.Degraded = true
	if r.Status() != StatusDegraded {
		t.Errorf("expected degraded, got %s", r.Status())
	}
}

func TestResultTotals(t *testing.T) {
	r := OptimizationResult{
		Placements: []Placement{
			{StockID: "S1", StockLength: 100, Price: 5, Cuts: []Cut{{DemandID: "D1", Length: 60}}},
			{StockID: "S1", StockLength: 100, Price: 5, Cuts: []Cut{{DemandID: "D2", Length: 50}, {DemandID: "D1", Length: 30}}},
		},
		Unmet: []UnmetDemand{{DemandID: "D2", Quantity: 2}},
	}

	if r.StockUsed() != 2 {
		t.Errorf("expected 2 stock used, got %d", r.StockUsed())
	}
	if r.UsedLength() != 140 {
		t.Errorf("expected 140 used, got %g", r.UsedLength())
	}
	if math.Abs(r.Efficiency()-70) > 1e-9 {
		t.Errorf("expected 70%% efficiency, got %g", r.Efficiency())
	}
	if r.Cost() != 10 {
		t.Errorf("expected cost 10, got %g", r.Cost())
	}
	if r.PlacedCount("D1") != 2 || r.UnmetQuantity("D2") != 2 || r.UnmetCount() != 2 {
		t.Error("unexpected placed/unmet counts")
	}
}

func TestComparisonReportOrdered(t *testing.T) {
	cr := &ComparisonReport{
		Methods: []string{"greedy", "exact"},
		Results: map[string]OptimizationResult{
			"exact":  {Method: "exact"},
			"greedy": {Method: "greedy"},
		},
		Best: "exact",
	}

	ordered := cr.Ordered()
	if len(ordered) != 2 || ordered[0].Method != "greedy" || ordered[1].Method != "exact" {
		t.Errorf("unexpected order: %+v", ordered)
	}
	best, ok := cr.BestResult()
	if !ok || best.Method != "exact" {
		t.Error("expected exact as best result")
	}

	empty := &ComparisonReport{}
	if _, ok := empty.BestResult(); ok {
		t.Error("empty report has no best result")
	}
}

func TestUsableLength(t *testing.T) {
	s := DefaultSettings()
	s.EdgeTrim = 10
	if s.UsableLength(100) != 90 {
		t.Errorf("expected 90, got %g", s.UsableLength(100))
	}
	if s.UsableLength(5) != 0 {
		t.Errorf("expected 0 for bars shorter than the trim, got %g", s.UsableLength(5))
	}
}
