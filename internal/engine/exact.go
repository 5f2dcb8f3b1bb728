package engine

import (
	"context"
	"math"

	"github.com/piwi3910/BarCut/internal/catalog"
	"github.com/piwi3910/BarCut/internal/model"
)

// checkEvery is how many search nodes pass between context checks.
const checkEvery = 1024

const unplacedChoice = math.MaxInt

// BranchAndBound searches all assignments of demand pieces to stock
// instances. Among complete searches it returns the layout with the largest
// placed length and, on a tie, the fewest stock pieces. The heuristics seed
// the incumbent, so a finished search is never worse than either.
type BranchAndBound struct{}

func (BranchAndBound) Exhaustive() bool { return true }

func (BranchAndBound) Optimize(ctx context.Context, in Input) (model.OptimizationResult, error) {
	items := in.Catalog.ExpandDecreasing()
	if limit := in.Settings.ExactMaxPieces; limit > 0 && len(items) > limit {
		return model.OptimizationResult{}, &SearchLimitError{Pieces: len(items), Limit: limit}
	}

	s := newSearch(ctx, in, items)
	if err := s.seed(); err != nil {
		return model.OptimizationResult{}, err
	}
	if !s.optimal() {
		s.branch(0)
	}
	if s.err != nil {
		return model.OptimizationResult{}, s.err
	}
	return s.best, nil
}

type search struct {
	ctx    context.Context
	in     Input
	items  []catalog.Item
	suffix []float64 // suffix[i] is the summed length of items[i:]

	bars   []*bar
	unmet  []catalog.Item
	placed float64
	choice []int

	best       model.OptimizationResult
	bestPlaced float64
	bestBars   int
	lowerBound int

	nodes int
	err   error
}

func newSearch(ctx context.Context, in Input, items []catalog.Item) *search {
	s := &search{
		ctx:    ctx,
		in:     in,
		items:  items,
		suffix: make([]float64, len(items)+1),
		choice: make([]int, len(items)),
	}
	for i := len(items) - 1; i >= 0; i-- {
		s.suffix[i] = s.suffix[i+1] + items[i].Length
	}

	maxUsable := 0.0
	for _, st := range in.Catalog.Stock() {
		if u := in.Settings.UsableLength(st.Length); u > maxUsable {
			maxUsable = u
		}
	}
	est := model.CalculatePurchaseEstimate(in.Catalog.Demand(), maxUsable, in.Settings.Kerf, 0, 0)
	s.lowerBound = est.PiecesNeededMin
	return s
}

// seed takes the better heuristic layout as the starting incumbent.
func (s *search) seed() error {
	first := true
	for _, h := range []StrategyFunc{FirstFitDecreasing, BestFitDecreasing} {
		in := s.in
		in.Pool = s.in.Pool.Clone()
		res, err := h(s.ctx, in)
		if err != nil {
			return err
		}
		placed, bars := res.UsedLength(), res.StockUsed()
		if first || placed > s.bestPlaced+eps || (placed >= s.bestPlaced-eps && bars < s.bestBars) {
			s.best, s.bestPlaced, s.bestBars = res, placed, bars
			first = false
		}
	}
	return nil
}

// optimal reports whether the incumbent places everything on the fewest
// bars any layout could use.
func (s *search) optimal() bool {
	return s.bestPlaced >= s.suffix[0]-eps && s.bestBars <= s.lowerBound
}

// branch explores item depth onwards and returns true when the search must stop.
func (s *search) branch(depth int) bool {
	s.nodes++
	if s.nodes%checkEvery == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return true
		}
	}

	ub := s.placed + s.suffix[depth]
	if ub < s.bestPlaced-eps || (ub <= s.bestPlaced+eps && len(s.bars) >= s.bestBars) {
		return false
	}
	if depth == len(s.items) {
		s.record()
		return s.optimal()
	}

	it := s.items[depth]
	kerf := s.in.Settings.Kerf

	// Copies of the same demand piece go into bars in non-decreasing order.
	from := 0
	if depth > 0 && s.items[depth-1].Demand == it.Demand {
		from = s.choice[depth-1]
	}

	if from < unplacedChoice {
		type barKey struct {
			stock     int
			remaining int64
		}
		tried := make(map[barKey]bool)
		for bi := from; bi < len(s.bars); bi++ {
			b := s.bars[bi]
			if !s.in.Catalog.StockAt(b.stock).Accepts(s.in.Catalog.DemandAt(it.Demand)) || !b.canTake(it.Length, kerf) {
				continue
			}
			k := barKey{stock: b.stock, remaining: int64(math.Round(b.remaining / eps))}
			if tried[k] {
				continue
			}
			tried[k] = true

			rem, loss, n := b.remaining, b.kerfLoss, len(b.items)
			b.take(it, kerf)
			s.placed += it.Length
			s.choice[depth] = bi
			stop := s.branch(depth + 1)
			s.placed -= it.Length
			b.remaining, b.kerfLoss = rem, loss
			b.items, b.offsets = b.items[:n], b.offsets[:n]
			if stop {
				return true
			}
		}

		for _, si := range s.newBarCandidates(it) {
			instance, ok := s.in.Pool.Take(si)
			if !ok {
				continue
			}
			b := newBar(s.in.Catalog, s.in.Settings, si, instance)
			b.take(it, kerf)
			s.bars = append(s.bars, b)
			s.placed += it.Length
			s.choice[depth] = len(s.bars) - 1
			stop := s.branch(depth + 1)
			s.placed -= it.Length
			s.bars = s.bars[:len(s.bars)-1]
			s.in.Pool.Release(si)
			if stop {
				return true
			}
		}
	}

	s.unmet = append(s.unmet, it)
	s.choice[depth] = unplacedChoice
	stop := s.branch(depth + 1)
	s.unmet = s.unmet[:len(s.unmet)-1]
	return stop
}

// newBarCandidates returns one stock index per distinct length, width and
// material that has quantity left and takes the item on a fresh bar.
func (s *search) newBarCandidates(it catalog.Item) []int {
	type stockKey struct {
		length   float64
		width    float64
		material string
	}
	seen := make(map[stockKey]bool)
	var out []int
	for _, si := range s.in.Catalog.Candidates(it.Demand) {
		if s.in.Pool.Available(si) <= 0 {
			continue
		}
		st := s.in.Catalog.StockAt(si)
		if !fits(s.in.Settings.UsableLength(st.Length), it.Length, s.in.Settings.Kerf) {
			continue
		}
		k := stockKey{st.Length, st.Width, st.Material}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, si)
	}
	return out
}

func (s *search) record() {
	s.best = buildResult(s.in.Catalog, s.in.Settings, s.bars, s.unmet)
	s.bestPlaced = s.placed
	s.bestBars = len(s.bars)
}
