// Package catalog normalizes stock and demand input into an immutable
// snapshot that optimization methods read from. Mutable stock counters live
// in StockPool values handed out per method run.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
)

// ValidationError reports every problem found in the input lists.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid input: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid input (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Options controls catalog validation.
type Options struct {
	// RejectOversized fails the load when a demand piece is longer than every
	// compatible stock piece. When false such demand is kept and reported as
	// unmet by every method.
	RejectOversized bool
}

// Catalog is the read-only input snapshot of one optimization request.
type Catalog struct {
	stock  []model.StockPiece
	demand []model.DemandPiece
	// fits[i] lists stock indices that can hold demand i (material, width, length)
	fits [][]int
}

// Load validates and copies the input lists. Labels default to IDs and
// missing IDs are generated.
func Load(stock []model.StockPiece, demand []model.DemandPiece, opts Options) (*Catalog, error) {
	verr := &ValidationError{}

	if len(stock) == 0 {
		verr.add("no stock pieces given")
	}

	c := &Catalog{
		stock:  make([]model.StockPiece, len(stock)),
		demand: make([]model.DemandPiece, len(demand)),
	}
	copy(c.stock, stock)
	copy(c.demand, demand)

	seen := make(map[string]bool, len(c.stock))
	for i := range c.stock {
		s := &c.stock[i]
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			s.ID = model.NewID()
		}
		if s.Label == "" {
			s.Label = s.ID
		}
		if seen[s.ID] {
			verr.add("duplicate stock id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Quantity <= 0 {
			verr.add("stock %q: quantity must be positive, got %d", s.ID, s.Quantity)
		}
		if s.Length <= 0 {
			verr.add("stock %q: length must be positive, got %g", s.ID, s.Length)
		}
		if s.Width < 0 {
			verr.add("stock %q: width must not be negative, got %g", s.ID, s.Width)
		}
		if s.Price < 0 {
			verr.add("stock %q: price must not be negative, got %g", s.ID, s.Price)
		}
	}

	seen = make(map[string]bool, len(c.demand))
	for i := range c.demand {
		d := &c.demand[i]
		d.ID = strings.TrimSpace(d.ID)
		if d.ID == "" {
			d.ID = model.NewID()
		}
		if d.Label == "" {
			d.Label = d.ID
		}
		if seen[d.ID] {
			verr.add("duplicate demand id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Quantity <= 0 {
			verr.add("demand %q: quantity must be positive, got %d", d.ID, d.Quantity)
		}
		if d.Length <= 0 {
			verr.add("demand %q: length must be positive, got %g", d.ID, d.Length)
		}
		if d.Width < 0 {
			verr.add("demand %q: width must not be negative, got %g", d.ID, d.Width)
		}
	}

	if len(verr.Problems) > 0 {
		return nil, verr
	}

	c.fits = make([][]int, len(c.demand))
	for i, d := range c.demand {
		for j, s := range c.stock {
			if s.Accepts(d) && d.Length <= s.Length {
				c.fits[i] = append(c.fits[i], j)
			}
		}
		if len(c.fits[i]) == 0 && opts.RejectOversized {
			verr.add("demand %q (%g mm) does not fit any compatible stock piece", d.ID, d.Length)
		}
	}
	if len(verr.Problems) > 0 {
		return nil, verr
	}

	return c, nil
}

// Stock returns a copy of the stock list.
func (c *Catalog) Stock() []model.StockPiece {
	out := make([]model.StockPiece, len(c.stock))
	copy(out, c.stock)
	return out
}

// Demand returns a copy of the demand list.
func (c *Catalog) Demand() []model.DemandPiece {
	out := make([]model.DemandPiece, len(c.demand))
	copy(out, c.demand)
	return out
}

// StockAt returns the stock piece at catalog index i.
func (c *Catalog) StockAt(i int) model.StockPiece {
	return c.stock[i]
}

// DemandAt returns the demand piece at catalog index i.
func (c *Catalog) DemandAt(i int) model.DemandPiece {
	return c.demand[i]
}

// StockCount returns the number of stock entries.
func (c *Catalog) StockCount() int {
	return len(c.stock)
}

// DemandCount returns the number of demand entries.
func (c *Catalog) DemandCount() int {
	return len(c.demand)
}

// Candidates returns the stock indices that can hold demand i, in catalog order.
func (c *Catalog) Candidates(demandIdx int) []int {
	out := make([]int, len(c.fits[demandIdx]))
	copy(out, c.fits[demandIdx])
	return out
}

// Oversized reports whether demand i fits no compatible stock piece at all.
func (c *Catalog) Oversized(demandIdx int) bool {
	return len(c.fits[demandIdx]) == 0
}

// TotalCapacity returns the summed length of every available stock instance.
func (c *Catalog) TotalCapacity() float64 {
	var total float64
	for _, s := range c.stock {
		total += s.Length * float64(s.Quantity)
	}
	return total
}

// Item is one demand instance after quantity expansion.
type Item struct {
	Demand int // catalog index of the demand piece
	Length float64
}

// Expand returns one Item per demand instance in catalog order.
func (c *Catalog) Expand() []Item {
	var items []Item
	for i, d := range c.demand {
		for k := 0; k < d.Quantity; k++ {
			items = append(items, Item{Demand: i, Length: d.Length})
		}
	}
	return items
}

// ExpandDecreasing returns the expanded items sorted by length descending,
// then priority descending, then catalog order.
func (c *Catalog) ExpandDecreasing() []Item {
	items := c.Expand()
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Length != items[j].Length {
			return items[i].Length > items[j].Length
		}
		return c.demand[items[i].Demand].Priority > c.demand[items[j].Demand].Priority
	})
	return items
}

// NewStockPool returns a fresh, independent copy of the available stock counters.
func (c *Catalog) NewStockPool() *StockPool {
	p := &StockPool{
		available: make([]int, len(c.stock)),
		taken:     make([]int, len(c.stock)),
	}
	for i, s := range c.stock {
		p.available[i] = s.Quantity
	}
	return p
}

// StockPool tracks how many instances of each stock piece a single method
// run has left. It is not safe for concurrent use; each run owns its pool.
type StockPool struct {
	available []int
	taken     []int
}

// Available returns the remaining quantity of stock i.
func (p *StockPool) Available(i int) int {
	return p.available[i]
}

// Take consumes one instance of stock i and returns its 1-based instance
// number, or false when none is left.
func (p *StockPool) Take(i int) (int, bool) {
	if p.available[i] <= 0 {
		return 0, false
	}
	p.available[i]--
	p.taken[i]++
	return p.taken[i], true
}

// Release returns the most recently taken instance of stock i.
func (p *StockPool) Release(i int) {
	if p.taken[i] == 0 {
		return
	}
	p.available[i]++
	p.taken[i]--
}

// Clone returns an independent copy of the pool.
func (p *StockPool) Clone() *StockPool {
	cp := &StockPool{
		available: make([]int, len(p.available)),
		taken:     make([]int, len(p.taken)),
	}
	copy(cp.available, p.available)
	copy(cp.taken, p.taken)
	return cp
}
