package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	base := testSettings()
	base.Kerf = 3
	base.EdgeTrim = 10

	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 3)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, "Kerf 1.5mm (half)", scenarios[1].Name)
	assert.InDelta(t, 1.5, scenarios[1].Settings.Kerf, 1e-9)
	assert.Equal(t, "No Edge Trim", scenarios[2].Name)
	assert.Zero(t, scenarios[2].Settings.EdgeTrim)
}

func TestBuildDefaultScenarios_NothingToVary(t *testing.T) {
	scenarios := BuildDefaultScenarios(testSettings())

	require.Len(t, scenarios, 1)
}

func TestCompareScenarios(t *testing.T) {
	base := testSettings()
	base.Kerf = 4
	cat := mustCatalog(t,
		[]model.StockPiece{stock("S1", 100, 3)},
		[]model.DemandPiece{demand("D1", 48, 2), demand("D2", 30, 1)})

	results, err := CompareScenarios(context.Background(), BuildDefaultScenarios(base), cat, []string{MethodGreedy})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Kerf 4 fits 52+48 on one bar, leaving the 30 for a second.
	assert.Equal(t, 2, results[0].StockUsed)
	assert.Equal(t, 3, results[0].TotalCuts)
	assert.Equal(t, MethodGreedy, results[0].BestMethod)
	assert.Zero(t, results[0].UnmetCount)
	assert.Equal(t, 2, results[1].StockUsed)
}

func TestCompareScenarios_UnknownMethod(t *testing.T) {
	cat := mustCatalog(t, []model.StockPiece{stock("S1", 100, 1)}, []model.DemandPiece{demand("D1", 10, 1)})

	_, err := CompareScenarios(context.Background(), BuildDefaultScenarios(testSettings()), cat, []string{"nonexistent"})

	var unknown *UnknownMethodError
	assert.ErrorAs(t, err, &unknown)
}
