package gcode

import (
	"strings"
	"testing"

	"github.com/piwi3910/BarCut/internal/model"
)

// newTestResult returns a result with one trimmed bar holding two pieces
// and an offcut, and a second bar whose last piece ends flush.
func newTestResult() model.OptimizationResult {
	return model.OptimizationResult{
		Method: "greedy",
		Placements: []model.Placement{
			{
				StockID: "S1", StockLabel: "Tube 6000", Instance: 1, StockLength: 6000, TrimLoss: 10, KerfLoss: 6,
				Cuts: []model.Cut{
					{DemandID: "D1", Label: "Rail", Length: 2400, Offset: 10},
					{DemandID: "D1", Label: "Rail", Length: 2400, Offset: 2413},
				},
			},
			{
				StockID: "S2", StockLabel: "Tube 1000", Instance: 1, StockLength: 1000, KerfLoss: 3,
				Cuts: []model.Cut{
					{DemandID: "D2", Label: "Post", Length: 500, Offset: 0},
					{DemandID: "D3", Label: "Cap", Length: 497, Offset: 503},
				},
			},
		},
	}
}

func newTestSettings() Settings {
	s := DefaultSettings()
	s.Profile = "Generic"
	s.PlungeRate = 300
	s.SafeZ = 10
	s.CutDepth = 50
	return s
}

func TestCutPositions(t *testing.T) {
	res := newTestResult()

	got := CutPositions(res.Placements[0])
	want := []float64{10, 2410, 4813}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %.1f, got %.1f", i, want[i], got[i])
		}
	}

	// The second bar ends flush, so only the cut between the pieces remains.
	got = CutPositions(res.Placements[1])
	if len(got) != 1 || got[0] != 500 {
		t.Errorf("expected [500], got %v", got)
	}
}

func TestCutPositions_FlushWithinTolerance(t *testing.T) {
	// Offsets accumulated in floating point leave the last piece a hair short
	// of the bar end.
	p := model.Placement{
		StockID: "S1", Instance: 1, StockLength: 0.3,
		Cuts: []model.Cut{
			{Label: "A", Length: 0.1, Offset: 0},
			{Label: "B", Length: 0.1, Offset: 0.1},
			{Label: "C", Length: 0.1 - 1e-12, Offset: 0.1 + 0.1},
		},
	}

	got := CutPositions(p)
	if len(got) != 2 {
		t.Fatalf("expected plunges after A and B only, got %v", got)
	}
}

func TestGenerate_LabelsNearlyEqualPositions(t *testing.T) {
	res := model.OptimizationResult{
		Method: "greedy",
		Placements: []model.Placement{{
			StockID: "S1", StockLabel: "Bar", Instance: 1, StockLength: 1000, TrimLoss: 0.1 + 0.2,
			Cuts: []model.Cut{{Label: "Post", Length: 400, Offset: 0.3}},
		}},
	}
	code := New(newTestSettings()).Generate(res)

	if !strings.Contains(code, "; Trim 0.3") {
		t.Errorf("expected trim label:\n%s", code)
	}
	if !strings.Contains(code, "; Post 400.0") {
		t.Errorf("expected cut label:\n%s", code)
	}
	if strings.Contains(code, "; Cut\n") {
		t.Errorf("expected no unlabeled cut:\n%s", code)
	}
}

func TestGenerate_PlungesMatchCutPositions(t *testing.T) {
	res := newTestResult()
	code := New(newTestSettings()).Generate(res)

	var want []float64
	for _, p := range res.Placements {
		want = append(want, CutPositions(p)...)
	}
	got := Plunges(Parse(code))
	if len(got) != len(want) {
		t.Fatalf("expected %d plunges, got %d:\n%s", len(want), len(got), code)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("plunge %d: expected X%.3f, got X%.3f", i, want[i], got[i])
		}
	}
}

func TestGenerate_BladeAlwaysRetracts(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestResult())
	moves := Parse(code)

	for i, m := range moves {
		if m.Type != MoveRapid || m.FromX == m.ToX {
			continue
		}
		if m.FromZ < 0 {
			t.Errorf("move %d: carriage travels X%.1f -> X%.1f with blade at Z%.1f", i, m.FromX, m.ToX, m.FromZ)
		}
	}
}

func TestGenerate_HeaderAndFooter(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestResult())

	for _, want := range []string{
		"; BarCut saw program (greedy)",
		"; Bars: 2, Cuts: 4",
		"G21\nG90\nG17\n",
		"M3 S3000",
		"; --- Bar 1: S1#1 (Tube 6000, 6000.0 mm) ---",
		"; Trim 10.0",
		"; Rail 2400.0",
		"; Post 500.0",
		"M5\nG0 Z10.000\nM30\n",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("expected program to contain %q:\n%s", want, code)
		}
	}
	if strings.Count(code, "\nM0\n") != 2 {
		t.Errorf("expected one pause per bar, got %d", strings.Count(code, "\nM0\n"))
	}
}

func TestGenerate_ProfileDecimalsAndComments(t *testing.T) {
	s := newTestSettings()
	s.Profile = "linuxcnc"
	code := New(s).Generate(newTestResult())

	if !strings.Contains(code, "(BarCut saw program (greedy])") {
		t.Errorf("expected parenthesized header comment:\n%s", code)
	}
	if !strings.Contains(code, "G0 X2410.000") {
		t.Errorf("expected 3 decimal places")
	}
	if !strings.Contains(code, "M1") {
		t.Errorf("expected LinuxCNC optional stop")
	}

	s.Profile = "GRBL"
	code = New(s).Generate(newTestResult())
	if !strings.Contains(code, "G0 X2410.00\n") {
		t.Errorf("expected 2 decimal places for GRBL:\n%s", code)
	}
}

func TestGenerate_EmptyResult(t *testing.T) {
	code := New(newTestSettings()).Generate(model.OptimizationResult{Method: "exact", Degraded: true})
	if len(Plunges(Parse(code))) != 0 {
		t.Error("expected no plunges for a result without placements")
	}
	if !strings.Contains(code, "Job complete") {
		t.Error("expected footer")
	}
}

func TestGetProfile(t *testing.T) {
	if p := GetProfile("grbl"); p.Name != "GRBL" {
		t.Errorf("expected GRBL, got %s", p.Name)
	}
	if p := GetProfile("unknown"); p.Name != "Generic" {
		t.Errorf("expected fallback to Generic, got %s", p.Name)
	}
	if names := ProfileNames(); len(names) != len(Profiles) {
		t.Errorf("expected %d names, got %d", len(Profiles), len(names))
	}
}
