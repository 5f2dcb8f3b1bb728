package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/BarCut/internal/catalog"
	"github.com/piwi3910/BarCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the best result and summary figures of one scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Report       *model.ComparisonReport
	BestMethod   string
	StockUsed    int
	TotalCuts    int
	WastePercent float64
	UnmetCount   int
	Cost         float64
}

// CompareScenarios runs the optimizer once per scenario with the given
// methods and returns the results in scenario order.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, cat *catalog.Catalog, methods []string, opts ...Option) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		report, err := New(scenario.Settings, opts...).Run(ctx, cat, methods)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		cr := ComparisonResult{Scenario: scenario, Report: report, BestMethod: report.Best}
		if best, ok := report.BestResult(); ok {
			for _, p := range best.Placements {
				cr.TotalCuts += len(p.Cuts)
			}
			cr.StockUsed = best.StockUsed()
			cr.WastePercent = 100.0 - best.Efficiency()
			cr.UnmetCount = best.UnmetCount()
			cr.Cost = best.Cost()
		}
		results = append(results, cr)
	}

	return results, nil
}

// BuildDefaultScenarios generates what-if alternatives to the given settings.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	// Thinner blade
	if base.Kerf > 1.0 {
		tight := base
		tight.Kerf = base.Kerf * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %.1fmm (half)", tight.Kerf),
			Settings: tight,
		})
	}

	if base.EdgeTrim > 0 {
		noTrim := base
		noTrim.EdgeTrim = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Edge Trim",
			Settings: noTrim,
		})
	}

	return scenarios
}
