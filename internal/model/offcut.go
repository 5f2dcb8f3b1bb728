package model

import "sort"

// Offcut represents a usable remnant left at the end of a bar after cutting.
type Offcut struct {
	ID         string  `json:"id"`
	StockID    string  `json:"stock_id"`    // Which stock piece it came from
	StockLabel string  `json:"stock_label"` // Label of the source stock piece
	Instance   int     `json:"instance"`    // Instance of the source stock piece
	Offset     float64 `json:"offset"`      // Start of the remnant on the bar (mm)
	Length     float64 `json:"length"`      // Usable length (mm)
	Width      float64 `json:"width,omitempty"`
	Material   string  `json:"material,omitempty"`
	Price      float64 `json:"price,omitempty"` // Inherited price proportional to length (0 if not set)
}

// ToStockPiece converts an offcut into a stock piece for reuse in future runs.
// The offcut ID becomes the stock ID.
func (o Offcut) ToStockPiece() StockPiece {
	sp := NewStockPiece(o.ID, o.Length, 1)
	sp.Label = "Offcut " + o.StockLabel
	sp.Width = o.Width
	sp.Material = o.Material
	sp.Price = o.Price
	return sp
}

// MinOffcutLength is the default minimum length (in mm) for a remnant
// to be considered a usable offcut. Shorter remnants are scrap.
const MinOffcutLength = 300.0

// DetectOffcut returns the reusable remnant of a placement, if any. Its ID
// is derived from the stock instance, e.g. "S1#2/offcut".
// The stock piece supplies width, material and price for the remnant.
func DetectOffcut(p Placement, stock StockPiece, minLength float64) (Offcut, bool) {
	if p.Offcut < minLength || p.Offcut <= lengthEpsilon {
		return Offcut{}, false
	}
	oc := Offcut{
		ID:         p.Name() + "/offcut",
		StockID:    p.StockID,
		StockLabel: p.StockLabel,
		Instance:   p.Instance,
		Offset:     p.StockLength - p.Offcut,
		Length:     p.Offcut,
		Width:      stock.Width,
		Material:   stock.Material,
	}
	// Assign proportional pricing to the remnant
	if stock.Price > 0 && p.StockLength > 0 {
		oc.Price = (oc.Length / p.StockLength) * stock.Price
	}
	return oc, true
}

// DetectAllOffcuts finds reusable remnants across all placements of a result,
// longest first. Stock pieces are looked up by ID.
func DetectAllOffcuts(result OptimizationResult, stocks []StockPiece, minLength float64) []Offcut {
	byID := make(map[string]StockPiece, len(stocks))
	for _, s := range stocks {
		byID[s.ID] = s
	}
	var all []Offcut
	for _, p := range result.Placements {
		if oc, ok := DetectOffcut(p, byID[p.StockID], minLength); ok {
			all = append(all, oc)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Length > all[j].Length
	})
	return all
}

// TotalOffcutLength returns the total length of all offcuts in mm.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
