package engine

import (
	"github.com/piwi3910/BarCut/internal/catalog"
	"github.com/piwi3910/BarCut/internal/model"
)

const eps = 0.001

// bar is one opened stock instance being filled from the start.
type bar struct {
	stock     int // catalog index
	instance  int
	length    float64
	remaining float64
	trim      float64
	kerfLoss  float64
	items     []catalog.Item
	offsets   []float64
}

// consumption returns how much of the remaining length a cut of the given
// length takes, or false if it does not fit. A cut that uses exactly the
// remaining length needs no kerf; every other cut loses one kerf width.
func consumption(remaining, length, kerf float64) (float64, bool) {
	if remaining <= eps {
		return 0, false
	}
	diff := remaining - length
	if diff < -eps {
		return 0, false
	}
	if diff <= eps {
		return remaining, true
	}
	if length+kerf <= remaining+eps {
		return length + kerf, true
	}
	return 0, false
}

// fits reports whether a fresh bar with the given usable length can take the cut.
func fits(usable, length, kerf float64) bool {
	_, ok := consumption(usable, length, kerf)
	return ok
}

func (b *bar) canTake(length, kerf float64) bool {
	_, ok := consumption(b.remaining, length, kerf)
	return ok
}

// leftover returns the remaining length after taking the cut.
func (b *bar) leftover(length, kerf float64) float64 {
	used, _ := consumption(b.remaining, length, kerf)
	r := b.remaining - used
	if r < 0 {
		return 0
	}
	return r
}

func (b *bar) take(it catalog.Item, kerf float64) {
	used, _ := consumption(b.remaining, it.Length, kerf)
	b.offsets = append(b.offsets, b.length-b.remaining)
	b.items = append(b.items, it)
	if used > it.Length+eps {
		b.kerfLoss += used - it.Length
	}
	b.remaining -= used
	if b.remaining < eps {
		b.remaining = 0
	}
}

// packer holds the per-run working state shared by the heuristic strategies.
type packer struct {
	cat      *catalog.Catalog
	pool     *catalog.StockPool
	settings model.Settings
	bars     []*bar
	unmet    []catalog.Item
}

func newPacker(in Input) *packer {
	return &packer{cat: in.Catalog, pool: in.Pool, settings: in.Settings}
}

// open takes a new instance of stock i from the pool.
func (p *packer) open(i int) (*bar, bool) {
	instance, ok := p.pool.Take(i)
	if !ok {
		return nil, false
	}
	b := newBar(p.cat, p.settings, i, instance)
	p.bars = append(p.bars, b)
	return b, true
}

func newBar(cat *catalog.Catalog, settings model.Settings, stock, instance int) *bar {
	length := cat.StockAt(stock).Length
	usable := settings.UsableLength(length)
	return &bar{
		stock:     stock,
		instance:  instance,
		length:    length,
		remaining: usable,
		trim:      length - usable,
	}
}

// accepts reports whether the bar's stock type is compatible with the item.
func (p *packer) accepts(b *bar, it catalog.Item) bool {
	return p.cat.StockAt(b.stock).Accepts(p.cat.DemandAt(it.Demand))
}

// openable returns candidate stock indices with quantity left whose fresh
// bar can take the item, in catalog order.
func (p *packer) openable(it catalog.Item) []int {
	var out []int
	for _, si := range p.cat.Candidates(it.Demand) {
		if p.pool.Available(si) <= 0 {
			continue
		}
		if fits(p.settings.UsableLength(p.cat.StockAt(si).Length), it.Length, p.settings.Kerf) {
			out = append(out, si)
		}
	}
	return out
}

// firstFit places the item into the first open bar that takes it.
func (p *packer) firstFit(it catalog.Item) bool {
	for _, b := range p.bars {
		if p.accepts(b, it) && b.canTake(it.Length, p.settings.Kerf) {
			b.take(it, p.settings.Kerf)
			return true
		}
	}
	return false
}

// bestFit places the item into the open bar left with the least remaining length.
func (p *packer) bestFit(it catalog.Item) bool {
	var best *bar
	bestLeft := 0.0
	for _, b := range p.bars {
		if !p.accepts(b, it) || !b.canTake(it.Length, p.settings.Kerf) {
			continue
		}
		left := b.leftover(it.Length, p.settings.Kerf)
		if best == nil || left < bestLeft-eps {
			best = b
			bestLeft = left
		}
	}
	if best == nil {
		return false
	}
	best.take(it, p.settings.Kerf)
	return true
}

// openFirst opens the first compatible stock in catalog order for the item.
func (p *packer) openFirst(it catalog.Item) bool {
	for _, si := range p.openable(it) {
		if b, ok := p.open(si); ok {
			b.take(it, p.settings.Kerf)
			return true
		}
	}
	return false
}

// openShortest opens the shortest compatible stock that takes the item.
func (p *packer) openShortest(it catalog.Item) bool {
	best := -1
	for _, si := range p.openable(it) {
		if best < 0 || p.cat.StockAt(si).Length < p.cat.StockAt(best).Length-eps {
			best = si
		}
	}
	if best < 0 {
		return false
	}
	b, ok := p.open(best)
	if !ok {
		return false
	}
	b.take(it, p.settings.Kerf)
	return true
}

// placedLength returns the summed length of all placed items.
func (p *packer) placedLength() float64 {
	var total float64
	for _, b := range p.bars {
		for _, it := range b.items {
			total += it.Length
		}
	}
	return total
}

// result converts the working state into an OptimizationResult. Metrics
// that depend on the whole catalog are filled in by the optimizer.
func (p *packer) result() model.OptimizationResult {
	return buildResult(p.cat, p.settings, p.bars, p.unmet)
}

func buildResult(cat *catalog.Catalog, settings model.Settings, bars []*bar, unmet []catalog.Item) model.OptimizationResult {
	res := model.OptimizationResult{
		Placements: make([]model.Placement, 0, len(bars)),
	}
	for _, b := range bars {
		s := cat.StockAt(b.stock)
		pl := model.Placement{
			StockID:     s.ID,
			StockLabel:  s.Label,
			Instance:    b.instance,
			StockLength: b.length,
			Price:       s.Price,
			KerfLoss:    b.kerfLoss,
			TrimLoss:    b.trim,
			Offcut:      b.remaining,
			Cuts:        make([]model.Cut, 0, len(b.items)),
		}
		for k, it := range b.items {
			d := cat.DemandAt(it.Demand)
			pl.Cuts = append(pl.Cuts, model.Cut{
				DemandID: d.ID,
				Label:    d.Label,
				Length:   it.Length,
				Offset:   b.offsets[k],
			})
		}
		res.Placements = append(res.Placements, pl)
	}
	res.Unmet = aggregateUnmet(cat, settings, unmet)
	return res
}

// aggregateUnmet groups unplaced items per demand piece in catalog order.
func aggregateUnmet(cat *catalog.Catalog, settings model.Settings, items []catalog.Item) []model.UnmetDemand {
	if len(items) == 0 {
		return nil
	}
	counts := make([]int, cat.DemandCount())
	for _, it := range items {
		counts[it.Demand]++
	}
	var out []model.UnmetDemand
	for i, n := range counts {
		if n == 0 {
			continue
		}
		d := cat.DemandAt(i)
		reason := "stock exhausted"
		if !placeable(cat, settings, i) {
			reason = "longer than any compatible stock piece"
		}
		out = append(out, model.UnmetDemand{
			DemandID: d.ID,
			Label:    d.Label,
			Length:   d.Length,
			Quantity: n,
			Reason:   reason,
		})
	}
	return out
}

// placeable reports whether demand i fits a fresh bar of any compatible
// stock piece once edge trim is removed.
func placeable(cat *catalog.Catalog, settings model.Settings, demandIdx int) bool {
	d := cat.DemandAt(demandIdx)
	for _, si := range cat.Candidates(demandIdx) {
		if fits(settings.UsableLength(cat.StockAt(si).Length), d.Length, settings.Kerf) {
			return true
		}
	}
	return false
}
