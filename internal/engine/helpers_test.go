package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/catalog"
	"github.com/piwi3910/BarCut/internal/model"
)

func testSettings() model.Settings {
	s := model.DefaultSettings()
	// Simplify for testing: no kerf, no edge trim
	s.Kerf = 0
	s.EdgeTrim = 0
	return s
}

func stock(id string, length float64, qty int) model.StockPiece {
	return model.NewStockPiece(id, length, qty)
}

func demand(id string, length float64, qty int) model.DemandPiece {
	return model.NewDemandPiece(id, length, qty)
}

func mustCatalog(t *testing.T, stocks []model.StockPiece, demands []model.DemandPiece) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(stocks, demands, catalog.Options{})
	require.NoError(t, err)
	return cat
}

func runStrategy(t *testing.T, s Strategy, cat *catalog.Catalog, settings model.Settings) model.OptimizationResult {
	t.Helper()
	res, err := s.Optimize(context.Background(), Input{
		Catalog:  cat,
		Pool:     cat.NewStockPool(),
		Settings: settings,
	})
	require.NoError(t, err)
	return res
}

// conserved asserts placed plus unmet equals the requested quantity per demand piece.
func conserved(t *testing.T, cat *catalog.Catalog, res model.OptimizationResult) {
	t.Helper()
	for _, d := range cat.Demand() {
		require.Equal(t, d.Quantity, res.PlacedCount(d.ID)+res.UnmetQuantity(d.ID),
			"method %s, demand %s", res.Method, d.ID)
	}
}

func feasible(t *testing.T, res model.OptimizationResult) {
	t.Helper()
	for _, p := range res.Placements {
		require.True(t, p.Feasible(), "method %s, placement %s", res.Method, p.Name())
	}
}

// mixedCatalog is a small instance with two materials and partial stock.
func mixedCatalog(t *testing.T) *catalog.Catalog {
	steel := stock("steel-6m", 6000, 3)
	steel.Material = "steel"
	alu := stock("alu-3m", 3000, 2)
	alu.Material = "aluminium"
	loose := stock("offcut", 1200, 1)

	d1 := demand("post", 2400, 3)
	d1.Material = "steel"
	d2 := demand("rail", 1450, 4)
	d2.Material = "aluminium"
	d3 := demand("brace", 800, 5)
	d4 := demand("spacer", 150, 6)
	return mustCatalog(t, []model.StockPiece{steel, alu, loose}, []model.DemandPiece{d1, d2, d3, d4})
}
