package model

import "math"

// PurchaseEstimate holds the results of a stock purchasing calculation.
type PurchaseEstimate struct {
	TotalDemandLength float64 `json:"total_demand_length"` // Total length of all demand incl. kerf (mm)
	TotalMeters       float64 `json:"total_meters"`        // Same in meters
	StockLength       float64 `json:"stock_length"`        // Length of one stock piece (mm)
	PiecesNeededExact float64 `json:"pieces_needed_exact"` // Exact fractional number of stock pieces
	PiecesNeededMin   int     `json:"pieces_needed_min"`   // Minimum pieces (ceiling of exact)
	PiecesWithWaste   int     `json:"pieces_with_waste"`   // Recommended pieces including waste factor
	WastePercent      float64 `json:"waste_percent"`       // Waste factor applied (e.g., 10 for 10%)
	EstimatedCost     float64 `json:"estimated_cost"`      // Total cost if pricing available
	PricePerPiece     float64 `json:"price_per_piece"`     // Price used for estimation
	Kerf              float64 `json:"kerf"`                // Kerf used in calculation
}

// CalculatePurchaseEstimate computes how many stock pieces to buy for a cut list.
// It accounts for kerf per cut and an additional waste percentage factor.
// PiecesNeededMin is a valid lower bound on the number of bars of this
// length any layout needs.
func CalculatePurchaseEstimate(demand []DemandPiece, stockLength, kerf, wastePercent, pricePerPiece float64) PurchaseEstimate {
	var total float64
	for _, d := range demand {
		total += d.Length * float64(d.Quantity)
	}

	if stockLength <= 0 {
		return PurchaseEstimate{
			TotalDemandLength: total,
			TotalMeters:       total / 1000.0,
			WastePercent:      wastePercent,
		}
	}

	// A bar holding n cuts loses at most n kerfs; counting one kerf per piece
	// and granting one back per bar keeps the bound conservative.
	exact := total / stockLength
	if kerf > 0 {
		var count float64
		for _, d := range demand {
			count += float64(d.Quantity)
		}
		exact = (total + count*kerf) / (stockLength + kerf)
	}
	minPieces := int(math.Ceil(exact - 1e-9))

	// Apply waste factor
	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact*wasteFactor - 1e-9))
	if withWaste < minPieces {
		withWaste = minPieces
	}

	return PurchaseEstimate{
		TotalDemandLength: total,
		TotalMeters:       total / 1000.0,
		StockLength:       stockLength,
		PiecesNeededExact: exact,
		PiecesNeededMin:   minPieces,
		PiecesWithWaste:   withWaste,
		WastePercent:      wastePercent,
		EstimatedCost:     float64(withWaste) * pricePerPiece,
		PricePerPiece:     pricePerPiece,
		Kerf:              kerf,
	}
}
