package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/BarCut/internal/catalog"
	"github.com/piwi3910/BarCut/internal/model"
)

// Names of the built-in methods.
const (
	MethodGreedy  = "greedy"
	MethodBestFit = "best-fit"
	MethodExact   = "exact"
	MethodGenetic = "genetic"
)

// Input is what a strategy gets for one invocation. Pool is a private
// working copy of the stock counters; Catalog is shared and read-only.
type Input struct {
	Catalog  *catalog.Catalog
	Pool     *catalog.StockPool
	Settings model.Settings
}

// Strategy produces a layout for the catalog. The optimizer fills in the
// method name, waste, offcuts and duration of the returned result.
type Strategy interface {
	Optimize(ctx context.Context, in Input) (model.OptimizationResult, error)
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc func(ctx context.Context, in Input) (model.OptimizationResult, error)

func (f StrategyFunc) Optimize(ctx context.Context, in Input) (model.OptimizationResult, error) {
	return f(ctx, in)
}

// Exhaustive is implemented by strategies that search the solution space
// and therefore run under the per-run deadline.
type Exhaustive interface {
	Exhaustive() bool
}

func isExhaustive(s Strategy) bool {
	e, ok := s.(Exhaustive)
	return ok && e.Exhaustive()
}

// Registry maps method names to strategies and remembers registration
// order, which is also the tie-break priority and the report row order.
type Registry struct {
	names      []string
	strategies map[string]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// DefaultRegistry returns a registry with all built-in methods.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.mustRegister(MethodGreedy, StrategyFunc(FirstFitDecreasing))
	r.mustRegister(MethodBestFit, StrategyFunc(BestFitDecreasing))
	r.mustRegister(MethodExact, BranchAndBound{})
	r.mustRegister(MethodGenetic, Genetic{Config: DefaultGeneticConfig()})
	return r
}

// Register adds a strategy under a unique, non-empty name.
func (r *Registry) Register(name string, s Strategy) error {
	if name == "" {
		return fmt.Errorf("method name must not be empty")
	}
	if s == nil {
		return fmt.Errorf("method %q: nil strategy", name)
	}
	if _, ok := r.strategies[name]; ok {
		return fmt.Errorf("method %q already registered", name)
	}
	r.names = append(r.names, name)
	r.strategies[name] = s
	return nil
}

func (r *Registry) mustRegister(name string, s Strategy) {
	if err := r.Register(name, s); err != nil {
		panic(err)
	}
}

// List returns method names in registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup returns the strategy registered under name.
func (r *Registry) Lookup(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// Priority returns the registration index of name, or -1.
func (r *Registry) Priority(name string) int {
	for i, n := range r.names {
		if n == name {
			return i
		}
	}
	return -1
}
