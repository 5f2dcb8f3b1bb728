package engine

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime/debug"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/BarCut/internal/catalog"
	"github.com/piwi3910/BarCut/internal/model"
)

// Optimizer runs every requested method against one catalog and compares
// the results.
type Optimizer struct {
	Settings model.Settings
	registry *Registry
	logger   *log.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithRegistry replaces the default method registry.
func WithRegistry(r *Registry) Option {
	return func(o *Optimizer) { o.registry = r }
}

// WithLogger sets the logger used for per-method progress.
func WithLogger(l *log.Logger) Option {
	return func(o *Optimizer) { o.logger = l }
}

func New(settings model.Settings, opts ...Option) *Optimizer {
	o := &Optimizer{Settings: settings}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Registry returns the methods this optimizer can run.
func (o *Optimizer) Registry() *Registry {
	return o.registry
}

// Run executes the named methods concurrently, each on its own stock pool.
// An empty list runs every registered method. Unknown names fail before
// anything runs; a failing method only degrades its own result.
func (o *Optimizer) Run(ctx context.Context, cat *catalog.Catalog, methods []string) (*model.ComparisonReport, error) {
	names, err := o.resolve(methods)
	if err != nil {
		return nil, err
	}

	results := make([]model.OptimizationResult, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = o.runMethod(ctx, cat, name)
		}(i, name)
	}
	wg.Wait()

	report := &model.ComparisonReport{
		ID:        model.NewID(),
		CreatedAt: time.Now(),
		Methods:   names,
		Results:   make(map[string]model.OptimizationResult, len(names)),
	}
	for i, name := range names {
		report.Results[name] = results[i]
	}
	report.Best = selectBest(names, results)

	if best, ok := report.BestResult(); ok {
		o.logger.Info("optimization finished",
			"methods", len(names),
			"best", report.Best,
			"stock_used", best.StockUsed(),
			"waste", best.TotalWaste)
	}
	return report, nil
}

// resolve returns the requested names in registry order without duplicates.
func (o *Optimizer) resolve(methods []string) ([]string, error) {
	known := o.registry.List()
	if len(methods) == 0 {
		return known, nil
	}
	want := make(map[string]bool, len(methods))
	for _, m := range methods {
		if _, ok := o.registry.Lookup(m); !ok {
			return nil, &UnknownMethodError{Name: m, Known: known}
		}
		want[m] = true
	}
	names := make([]string, 0, len(want))
	for _, n := range known {
		if want[n] {
			names = append(names, n)
		}
	}
	return names, nil
}

func (o *Optimizer) runMethod(ctx context.Context, cat *catalog.Catalog, name string) model.OptimizationResult {
	strategy, _ := o.registry.Lookup(name)
	logger := o.logger.With("method", name)

	runCtx := ctx
	if isExhaustive(strategy) && o.Settings.ExactTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.Settings.ExactTimeout)
		defer cancel()
	}

	logger.Debug("method started")
	start := time.Now()
	res, err := o.invoke(runCtx, strategy, Input{
		Catalog:  cat,
		Pool:     cat.NewStockPool(),
		Settings: o.Settings,
	})
	elapsed := time.Since(start)

	if err != nil {
		failure := &StrategyFailure{Method: name, Err: err}
		logger.Warn("method degraded", "err", err, "duration", elapsed.Round(time.Millisecond))
		return degraded(cat, name, failure, elapsed)
	}

	res = o.finalize(cat, name, res, elapsed)
	if res.Degraded {
		logger.Warn("method degraded", "err", res.Error)
		return res
	}
	logger.Debug("method finished",
		"stock_used", res.StockUsed(),
		"waste", res.TotalWaste,
		"unmet", res.UnmetCount(),
		"duration", elapsed.Round(time.Millisecond))
	return res
}

// invoke calls the strategy and turns a panic into an error.
func (o *Optimizer) invoke(ctx context.Context, s Strategy, in Input) (res model.OptimizationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Debug("strategy panic", "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Optimize(ctx, in)
}

// finalize fills in the metrics the engine owns and checks the layout.
// A result that breaks conservation or feasibility is degraded.
func (o *Optimizer) finalize(cat *catalog.Catalog, name string, res model.OptimizationResult, elapsed time.Duration) model.OptimizationResult {
	if err := verify(cat, res); err != nil {
		return degraded(cat, name, &StrategyFailure{Method: name, Err: err}, elapsed)
	}
	res.Method = name
	res.TotalCapacity = cat.TotalCapacity()
	res.TotalWaste = res.TotalCapacity - res.UsedLength()
	res.Offcuts = model.DetectAllOffcuts(res, cat.Stock(), o.Settings.MinOffcutLength)
	res.Duration = elapsed
	res.Degraded = false
	res.Error = ""
	return res
}

// verify checks that every placement fits its stock piece, no stock piece is
// used beyond its quantity, and placed plus unmet equals each demand quantity.
func verify(cat *catalog.Catalog, res model.OptimizationResult) error {
	stockIdx := make(map[string]int, cat.StockCount())
	for i, s := range cat.Stock() {
		stockIdx[s.ID] = i
	}
	demandIdx := make(map[string]int, cat.DemandCount())
	for i, d := range cat.Demand() {
		demandIdx[d.ID] = i
	}

	used := make([]int, cat.StockCount())
	for _, p := range res.Placements {
		si, ok := stockIdx[p.StockID]
		if !ok {
			return fmt.Errorf("placement on unknown stock %q", p.StockID)
		}
		stock := cat.StockAt(si)
		used[si]++
		if used[si] > stock.Quantity {
			return fmt.Errorf("stock %q used %d times, only %d available", stock.ID, used[si], stock.Quantity)
		}
		if math.Abs(p.StockLength-stock.Length) > eps {
			return fmt.Errorf("placement %s has length %g, stock is %g", p.Name(), p.StockLength, stock.Length)
		}
		if !p.Feasible() {
			return fmt.Errorf("placement %s exceeds its stock length", p.Name())
		}
		for _, c := range p.Cuts {
			di, ok := demandIdx[c.DemandID]
			if !ok {
				return fmt.Errorf("placement %s holds unknown demand %q", p.Name(), c.DemandID)
			}
			d := cat.DemandAt(di)
			if math.Abs(c.Length-d.Length) > eps || !stock.Accepts(d) {
				return fmt.Errorf("placement %s cannot hold demand %q", p.Name(), d.ID)
			}
		}
	}

	for _, u := range res.Unmet {
		if _, ok := demandIdx[u.DemandID]; !ok {
			return fmt.Errorf("unmet entry for unknown demand %q", u.DemandID)
		}
	}
	for _, d := range cat.Demand() {
		if got := res.PlacedCount(d.ID) + res.UnmetQuantity(d.ID); got != d.Quantity {
			return fmt.Errorf("demand %q accounts for %d of %d pieces", d.ID, got, d.Quantity)
		}
	}
	return nil
}

// degraded returns the result recorded for a failed method: no placements
// and every demand instance unmet.
func degraded(cat *catalog.Catalog, name string, failure *StrategyFailure, elapsed time.Duration) model.OptimizationResult {
	res := model.OptimizationResult{
		Method:        name,
		Placements:    []model.Placement{},
		TotalCapacity: cat.TotalCapacity(),
		Duration:      elapsed,
		Degraded:      true,
		Error:         failure.Error(),
	}
	res.TotalWaste = res.TotalCapacity
	for _, d := range cat.Demand() {
		res.Unmet = append(res.Unmet, model.UnmetDemand{
			DemandID: d.ID,
			Label:    d.Label,
			Length:   d.Length,
			Quantity: d.Quantity,
			Reason:   "method failed",
		})
	}
	return res
}

// selectBest picks the least waste, then fewest stock pieces, then the
// earliest method in registry order. Degraded results count only when no
// other result exists.
func selectBest(names []string, results []model.OptimizationResult) string {
	pick := func(allowDegraded bool) string {
		best := -1
		for i, r := range results {
			if r.Degraded && !allowDegraded {
				continue
			}
			if best < 0 || better(r, results[best]) {
				best = i
			}
		}
		if best < 0 {
			return ""
		}
		return names[best]
	}
	if name := pick(false); name != "" {
		return name
	}
	return pick(true)
}

func better(a, b model.OptimizationResult) bool {
	if a.TotalWaste < b.TotalWaste-eps {
		return true
	}
	if a.TotalWaste > b.TotalWaste+eps {
		return false
	}
	return a.StockUsed() < b.StockUsed()
}
