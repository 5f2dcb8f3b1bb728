package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestDefaultRegistry_Order(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{MethodGreedy, MethodBestFit, MethodExact, MethodGenetic}, r.List())
	assert.Equal(t, 0, r.Priority(MethodGreedy))
	assert.Equal(t, 3, r.Priority(MethodGenetic))
	assert.Equal(t, -1, r.Priority("nonexistent"))
}

func TestRegistry_RegisterRejectsEmptyAndDuplicate(t *testing.T) {
	r := NewRegistry()
	noop := StrategyFunc(func(ctx context.Context, in Input) (model.OptimizationResult, error) {
		return model.OptimizationResult{}, nil
	})

	require.NoError(t, r.Register("noop", noop))
	assert.Error(t, r.Register("", noop))
	assert.Error(t, r.Register("noop", noop))
	assert.Error(t, r.Register("nil", nil))
	assert.Equal(t, []string{"noop"}, r.List())
}

func TestRegistry_ListIsCopy(t *testing.T) {
	r := DefaultRegistry()
	names := r.List()
	names[0] = "changed"

	assert.Equal(t, MethodGreedy, r.List()[0])
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	s, ok := r.Lookup(MethodExact)
	require.True(t, ok)
	assert.True(t, isExhaustive(s))

	_, ok = r.Lookup("nonexistent")
	assert.False(t, ok)
}
