package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/BarCut/internal/model"
)

// dxfLengthStep is the rounding applied before equal lengths are merged.
const dxfLengthStep = 0.1

// ImportDXF reads a cut list drawn as a DXF file. Every LINE, ARC and
// LWPOLYLINE is one bar whose length is its path length; equal lengths are
// merged into one demand piece with a quantity. Other entities are skipped.
func ImportDXF(path string, material string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	counts := make(map[float64]int)
	skipped := 0
	for _, ent := range entities {
		var length float64
		switch e := ent.(type) {
		case *entity.Line:
			length = math.Hypot(e.End[0]-e.Start[0], e.End[1]-e.Start[1])
		case *entity.LwPolyline:
			length = polylineLength(e)
		case *entity.Arc:
			length = arcLength(e)
		default:
			skipped++
			continue
		}
		if length < dxfLengthStep {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped degenerate entity (%.3f mm)", length))
			continue
		}
		counts[math.Round(length/dxfLengthStep)*dxfLengthStep]++
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	if len(counts) == 0 {
		result.Errors = append(result.Errors, "No lines, arcs or polylines found in DXF file")
		return result
	}

	// Longest first, like a cut list
	lengths := make([]float64, 0, len(counts))
	for l := range counts {
		lengths = append(lengths, l)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(lengths)))

	for i, l := range lengths {
		d := model.NewDemandPiece(fmt.Sprintf("DXF-%d", i+1), l, counts[l])
		d.Label = fmt.Sprintf("DXF %g", l)
		d.Material = material
		result.Demand = append(result.Demand, d)
	}
	return result
}

// polylineLength sums the straight segments of an open polyline.
func polylineLength(lw *entity.LwPolyline) float64 {
	var total float64
	for i := 1; i < len(lw.Vertices); i++ {
		a, b := lw.Vertices[i-1], lw.Vertices[i]
		total += math.Hypot(b[0]-a[0], b[1]-a[1])
	}
	return total
}

// arcLength returns the length along an ARC entity.
func arcLength(a *entity.Arc) float64 {
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}
	return a.Circle.Radius * (endRad - startRad)
}
