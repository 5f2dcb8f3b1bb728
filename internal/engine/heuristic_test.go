package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestFirstFit_TwoPiecesNeedTwoBars(t *testing.T) {
	for _, kerf := range []float64{0, 3} {
		settings := testSettings()
		settings.Kerf = kerf
		cat := mustCatalog(t,
			[]model.StockPiece{stock("S1", 100, 2)},
			[]model.DemandPiece{demand("D1", 60, 1), demand("D2", 50, 1)})

		res := runStrategy(t, StrategyFunc(FirstFitDecreasing), cat, settings)

		assert.Equal(t, 2, res.StockUsed(), "kerf %g", kerf)
		assert.Empty(t, res.Unmet, "kerf %g", kerf)
		assert.Equal(t, "D1", res.Placements[0].Cuts[0].DemandID)
		assert.Equal(t, "D2", res.Placements[1].Cuts[0].DemandID)
	}
}

func TestFirstFit_KerfChargedPerCut(t *testing.T) {
	settings := testSettings()
	settings.Kerf = 3
	cat := mustCatalog(t,
		[]model.StockPiece{stock("S1", 100, 1)},
		[]model.DemandPiece{demand("D1", 40, 2)})

	res := runStrategy(t, StrategyFunc(FirstFitDecreasing), cat, settings)

	require.Len(t, res.Placements, 1)
	p := res.Placements[0]
	assert.Len(t, p.Cuts, 2)
	assert.InDelta(t, 6.0, p.KerfLoss, 1e-9)
	assert.InDelta(t, 14.0, p.Offcut, 1e-9)
	assert.InDelta(t, 0.0, p.Cuts[0].Offset, 1e-9)
	assert.InDelta(t, 43.0, p.Cuts[1].Offset, 1e-9)
}

func TestFirstFit_LastCutUsingRemainderNeedsNoKerf(t *testing.T) {
	settings := testSettings()
	settings.Kerf = 3
	cat := mustCatalog(t,
		[]model.StockPiece{stock("S1", 100, 1)},
		[]model.DemandPiece{demand("D1", 48.5, 2)})

	res := runStrategy(t, StrategyFunc(FirstFitDecreasing), cat, settings)

	require.Len(t, res.Placements, 1)
	assert.Empty(t, res.Unmet)
	assert.InDelta(t, 3.0, res.Placements[0].KerfLoss, 1e-9)
	assert.InDelta(t, 0.0, res.Placements[0].Offcut, 1e-9)
}

func TestFirstFit_KerfPreventsSecondCut(t *testing.T) {
	settings := testSettings()
	settings.Kerf = 3
	cat := mustCatalog(t,
		[]model.StockPiece{stock("S1", 100, 1)},
		[]model.DemandPiece{demand("D1", 50, 2)})

	res := runStrategy(t, StrategyFunc(FirstFitDecreasing), cat, settings)

	require.Len(t, res.Placements, 1)
	assert.Len(t, res.Placements[0].Cuts, 1)
	require.Len(t, res.Unmet, 1)
	assert.Equal(t, 1, res.Unmet[0].Quantity)
	assert.Equal(t, "stock exhausted", res.Unmet[0].Reason)
}

func TestFirstFit_EdgeTrimRemovedOnce(t *testing.T) {
	settings := testSettings()
	settings.Kerf = 3
	settings.EdgeTrim = 10
	cat := mustCatalog(t,
		[]model.StockPiece{stock("S1", 100, 1)},
		[]model.DemandPiece{demand("D1", 90, 1)})

	res := runStrategy(t, StrategyFunc(FirstFitDecreasing), cat, settings)

	require.Len(t, res.Placements, 1)
	p := res.Placements[0]
	assert.InDelta(t, 10.0, p.TrimLoss, 1e-9)
	assert.InDelta(t, 10.0, p.Cuts[0].Offset, 1e-9)
	assert.InDelta(t, 0.0, p.Offcut, 1e-9)
	assert.True(t, p.Feasible())
}

func TestFirstFit_EdgeTrimMakesPieceOversized(t *testing.T) {
	settings := testSettings()
	settings.EdgeTrim = 10
	cat := mustCatalog(t,
		[]model.StockPiece{stock("S1", 100, 1)},
		[]model.DemandPiece{demand("D1", 95, 1)})

	res := runStrategy(t, StrategyFunc(FirstFitDecreasing), cat, settings)

	assert.Empty(t, res.Placements)
	require.Len(t, res.Unmet, 1)
	assert.Equal(t, "longer than any compatible stock piece", res.Unmet[0].Reason)
}

func TestFirstFit_OpensStockInCatalogOrder(t *testing.T) {
	cat := mustCatalog(t,
		[]model.StockPiece{stock("long", 1000, 1), stock("short", 100, 1)},
		[]model.DemandPiece{demand("D1", 80, 1)})

	res := runStrategy(t, StrategyFunc(FirstFitDecreasing), cat, testSettings())

	require.Len(t, res.Placements, 1)
	assert.Equal(t, "long", res.Placements[0].StockID)
}

func TestBestFit_OpensShortestFittingStock(t *testing.T) {
	cat := mustCatalog(t,
		[]model.StockPiece{stock("long", 1000, 1), stock("short", 100, 1)},
		[]model.DemandPiece{demand("D1", 80, 1)})

	res := runStrategy(t, StrategyFunc(BestFitDecreasing), cat, testSettings())

	require.Len(t, res.Placements, 1)
	assert.Equal(t, "short", res.Placements[0].StockID)
}

func TestBestFit_FallsBackToFirstFitLayout(t *testing.T) {
	cat := mustCatalog(t,
		[]model.StockPiece{stock("S0", 74, 1), stock("S1", 52, 2)},
		[]model.DemandPiece{demand("D0", 20, 1), demand("D1", 22, 2), demand("D2", 37, 3)})

	ff := runStrategy(t, StrategyFunc(FirstFitDecreasing), cat, testSettings())
	bf := runStrategy(t, StrategyFunc(BestFitDecreasing), cat, testSettings())

	assert.InDelta(t, 155.0, ff.UsedLength(), 1e-9)
	assert.InDelta(t, ff.UsedLength(), bf.UsedLength(), 1e-9)
	require.Len(t, bf.Placements, 3)
	assert.Equal(t, "S0", bf.Placements[0].StockID)
}

func TestBestFit_ChoosesTightestOpenBar(t *testing.T) {
	cat := mustCatalog(t,
		[]model.StockPiece{stock("A", 200, 1), stock("B", 100, 1)},
		[]model.DemandPiece{demand("D1", 95, 1), demand("D2", 90, 1), demand("D3", 5, 1)})

	res := runStrategy(t, StrategyFunc(BestFitDecreasing), cat, testSettings())

	require.Len(t, res.Placements, 2)
	// D1 opens B, D2 opens A, D3 fills B exactly.
	assert.Equal(t, "B", res.Placements[0].StockID)
	require.Len(t, res.Placements[0].Cuts, 2)
	assert.Equal(t, "D3", res.Placements[0].Cuts[1].DemandID)
	assert.InDelta(t, 0.0, res.Placements[0].Offcut, 1e-9)
}

func TestHeuristics_MaterialCompatibility(t *testing.T) {
	steel := stock("steel", 100, 1)
	steel.Material = "steel"
	alu := stock("alu", 100, 1)
	alu.Material = "aluminium"
	d := demand("D1", 50, 1)
	d.Material = "aluminium"
	cat := mustCatalog(t, []model.StockPiece{steel, alu}, []model.DemandPiece{d})

	for _, s := range []StrategyFunc{FirstFitDecreasing, BestFitDecreasing} {
		res := runStrategy(t, s, cat, testSettings())
		require.Len(t, res.Placements, 1)
		assert.Equal(t, "alu", res.Placements[0].StockID)
	}
}

func TestHeuristics_WidthCompatibility(t *testing.T) {
	narrow := stock("narrow", 1000, 1)
	narrow.Width = 30
	d := demand("wide", 500, 1)
	d.Width = 40
	cat := mustCatalog(t, []model.StockPiece{narrow}, []model.DemandPiece{d})

	res := runStrategy(t, StrategyFunc(FirstFitDecreasing), cat, testSettings())

	assert.Empty(t, res.Placements)
	assert.Equal(t, 1, res.UnmetCount())
}

func TestHeuristics_NeverExceedStockQuantity(t *testing.T) {
	cat := mixedCatalog(t)
	for _, s := range []StrategyFunc{FirstFitDecreasing, BestFitDecreasing} {
		res := runStrategy(t, s, cat, testSettings())
		used := map[string]int{}
		for _, p := range res.Placements {
			used[p.StockID]++
		}
		for _, st := range cat.Stock() {
			assert.LessOrEqual(t, used[st.ID], st.Quantity)
		}
		conserved(t, cat, res)
		feasible(t, res)
	}
}

func TestHeuristics_CancelledContext(t *testing.T) {
	cat := mixedCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FirstFitDecreasing(ctx, Input{Catalog: cat, Pool: cat.NewStockPool(), Settings: testSettings()})
	assert.ErrorIs(t, err, context.Canceled)
}
