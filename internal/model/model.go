package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// lengthEpsilon absorbs floating point noise when comparing lengths in mm.
const lengthEpsilon = 0.001

// NewID returns a short random identifier for pieces, offcuts and reports.
func NewID() string {
	return uuid.New().String()[:8]
}

// StockPiece represents an available raw bar (or board cut along one axis).
type StockPiece struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label,omitempty" yaml:"label,omitempty"`
	Length   float64 `json:"length" yaml:"length"`                         // mm
	Width    float64 `json:"width,omitempty" yaml:"width,omitempty"`       // mm, 0 = unconstrained
	Quantity int     `json:"quantity" yaml:"quantity"`                     // pieces available
	Material string  `json:"material,omitempty" yaml:"material,omitempty"` // empty = universal
	Price    float64 `json:"price,omitempty" yaml:"price,omitempty"`       // per piece, 0 = unknown
}

func NewStockPiece(id string, length float64, qty int) StockPiece {
	if id == "" {
		id = NewID()
	}
	return StockPiece{
		ID:       id,
		Label:    id,
		Length:   length,
		Quantity: qty,
	}
}

// DemandPiece represents a required cut length.
type DemandPiece struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label,omitempty" yaml:"label,omitempty"`
	Length   float64 `json:"length" yaml:"length"`                         // mm
	Width    float64 `json:"width,omitempty" yaml:"width,omitempty"`       // mm, 0 = unconstrained
	Quantity int     `json:"quantity" yaml:"quantity"`                     // pieces required
	Priority int     `json:"priority,omitempty" yaml:"priority,omitempty"` // higher is placed first on equal length
	Material string  `json:"material,omitempty" yaml:"material,omitempty"` // empty = universal
}

func NewDemandPiece(id string, length float64, qty int) DemandPiece {
	if id == "" {
		id = NewID()
	}
	return DemandPiece{
		ID:       id,
		Label:    id,
		Length:   length,
		Quantity: qty,
	}
}

// Accepts reports whether a demand piece may be cut from this stock piece,
// ignoring length. Materials must match unless either side is universal, and
// the demand width must not exceed the stock width when both are set.
func (s StockPiece) Accepts(d DemandPiece) bool {
	if s.Material != "" && d.Material != "" && s.Material != d.Material {
		return false
	}
	if s.Width > 0 && d.Width > 0 && d.Width > s.Width+lengthEpsilon {
		return false
	}
	return true
}

// Cut is one demand instance assigned to a stock instance.
type Cut struct {
	DemandID string  `json:"demand_id"`
	Label    string  `json:"label"`
	Length   float64 `json:"length"`
	Offset   float64 `json:"offset"` // distance from the bar start (mm)
}

// Placement represents one opened stock instance with its cuts in order.
type Placement struct {
	StockID     string  `json:"stock_id"`
	StockLabel  string  `json:"stock_label"`
	Instance    int     `json:"instance"` // 1-based instance of the stock piece
	StockLength float64 `json:"stock_length"`
	Price       float64 `json:"price,omitempty"`
	Cuts        []Cut   `json:"cuts"`
	KerfLoss    float64 `json:"kerf_loss"`
	TrimLoss    float64 `json:"trim_loss"`
	Offcut      float64 `json:"offcut"` // remaining length at the end of the bar
}

// Name returns the display identifier of the stock instance, e.g. "S1#2".
func (p Placement) Name() string {
	return fmt.Sprintf("%s#%d", p.StockID, p.Instance)
}

// UsedLength returns the total length of cut pieces.
func (p Placement) UsedLength() float64 {
	var total float64
	for _, c := range p.Cuts {
		total += c.Length
	}
	return total
}

// Waste returns everything on the bar that is not a cut piece.
func (p Placement) Waste() float64 {
	return p.StockLength - p.UsedLength()
}

// Utilization returns the used percentage of the bar.
func (p Placement) Utilization() float64 {
	if p.StockLength == 0 {
		return 0
	}
	return (p.UsedLength() / p.StockLength) * 100.0
}

// Feasible reports whether cuts, kerf and trim fit within the stock length.
func (p Placement) Feasible() bool {
	return p.UsedLength()+p.KerfLoss+p.TrimLoss <= p.StockLength+lengthEpsilon
}

// UnmetDemand lists demand that a method could not place.
type UnmetDemand struct {
	DemandID string  `json:"demand_id"`
	Label    string  `json:"label"`
	Length   float64 `json:"length"`
	Quantity int     `json:"quantity"`
	Reason   string  `json:"reason,omitempty"`
}

// Status is the per-method row status shown in the results table.
type Status string

const (
	StatusOK          Status = "ok"
	StatusDegraded    Status = "degraded"
	StatusUnmetDemand Status = "unmet-demand-present"
)

// OptimizationResult holds the full solution produced by one method.
type OptimizationResult struct {
	Method        string        `json:"method"`
	Placements    []Placement   `json:"placements"`
	Unmet         []UnmetDemand `json:"unmet"`
	Offcuts       []Offcut      `json:"offcuts,omitempty"`
	TotalCapacity float64       `json:"total_capacity"` // all available stock length
	TotalWaste    float64       `json:"total_waste"`    // capacity minus placed cut length
	Duration      time.Duration `json:"duration"`
	Degraded      bool          `json:"degraded"`
	Error         string        `json:"error,omitempty"`
}

// Status derives the row status from the result.
func (r OptimizationResult) Status() Status {
	if r.Degraded {
		return StatusDegraded
	}
	if len(r.Unmet) > 0 {
		return StatusUnmetDemand
	}
	return StatusOK
}

// StockUsed returns the number of stock instances opened.
func (r OptimizationResult) StockUsed() int {
	return len(r.Placements)
}

// UsedLength returns the total length of placed cuts.
func (r OptimizationResult) UsedLength() float64 {
	var total float64
	for _, p := range r.Placements {
		total += p.UsedLength()
	}
	return total
}

// OpenedLength returns the total length of all opened stock instances.
func (r OptimizationResult) OpenedLength() float64 {
	var total float64
	for _, p := range r.Placements {
		total += p.StockLength
	}
	return total
}

// Efficiency returns overall material usage percentage of opened stock.
func (r OptimizationResult) Efficiency() float64 {
	opened := r.OpenedLength()
	if opened == 0 {
		return 0
	}
	return (r.UsedLength() / opened) * 100.0
}

// Cost returns the summed price of opened stock instances.
func (r OptimizationResult) Cost() float64 {
	var total float64
	for _, p := range r.Placements {
		total += p.Price
	}
	return total
}

// UnmetCount returns the number of demand instances not placed.
func (r OptimizationResult) UnmetCount() int {
	n := 0
	for _, u := range r.Unmet {
		n += u.Quantity
	}
	return n
}

// PlacedCount returns how many instances of the demand piece were placed.
func (r OptimizationResult) PlacedCount(demandID string) int {
	n := 0
	for _, p := range r.Placements {
		for _, c := range p.Cuts {
			if c.DemandID == demandID {
				n++
			}
		}
	}
	return n
}

// UnmetQuantity returns how many instances of the demand piece are unmet.
func (r OptimizationResult) UnmetQuantity(demandID string) int {
	n := 0
	for _, u := range r.Unmet {
		if u.DemandID == demandID {
			n += u.Quantity
		}
	}
	return n
}

// ComparisonReport holds every method's result for one request.
type ComparisonReport struct {
	ID        string                        `json:"id"`
	CreatedAt time.Time                     `json:"created_at"`
	Methods   []string                      `json:"methods"` // registry order
	Results   map[string]OptimizationResult `json:"results"`
	Best      string                        `json:"best"`
}

// BestResult returns the selected result, or false if nothing was run.
func (cr *ComparisonReport) BestResult() (OptimizationResult, bool) {
	r, ok := cr.Results[cr.Best]
	return r, ok
}

// Ordered returns results in method order.
func (cr *ComparisonReport) Ordered() []OptimizationResult {
	out := make([]OptimizationResult, 0, len(cr.Methods))
	for _, m := range cr.Methods {
		if r, ok := cr.Results[m]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Settings holds optimizer configuration for a run.
type Settings struct {
	Kerf            float64       `json:"kerf" yaml:"kerf"`                           // blade width consumed per cut (mm)
	EdgeTrim        float64       `json:"edge_trim" yaml:"edge_trim"`                 // squared off the start of each bar (mm)
	MinOffcutLength float64       `json:"min_offcut_length" yaml:"min_offcut_length"` // remnants at least this long are reusable
	ExactTimeout    time.Duration `json:"exact_timeout" yaml:"exact_timeout"`         // deadline for exhaustive strategies
	ExactMaxPieces  int           `json:"exact_max_pieces" yaml:"exact_max_pieces"`   // exhaustive search size limit
	Seed            int64         `json:"seed" yaml:"seed"`                           // seed for randomized strategies
}

func DefaultSettings() Settings {
	return Settings{
		Kerf:            3.0,
		EdgeTrim:        0,
		MinOffcutLength: MinOffcutLength,
		ExactTimeout:    2 * time.Second,
		ExactMaxPieces:  20,
		Seed:            42,
	}
}

// UsableLength returns the bar length left after edge trim.
func (s Settings) UsableLength(stockLength float64) float64 {
	l := stockLength - s.EdgeTrim
	if l < 0 {
		return 0
	}
	return l
}
