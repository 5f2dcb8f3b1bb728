package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/BarCut/internal/model"
)

// DXF layer names.
const (
	LayerBars   = "BARS"
	LayerCuts   = "CUTS"
	LayerTrim   = "TRIM"
	LayerLabels = "LABELS"
)

const (
	dxfBarHeight  = 40.0
	dxfBarGap     = 60.0
	dxfTextHeight = 12.0
)

// ExportDXF writes the bars of a result to a DXF drawing at 1:1 scale in mm.
// Every bar is an outline on the BARS layer with one line per saw cut on CUTS,
// the trimmed start on TRIM and the cut labels on LABELS. Bars are stacked
// downward in placement order.
func ExportDXF(path string, result model.OptimizationResult) error {
	if len(result.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerBars, color.White},
		{LayerCuts, color.Cyan},
		{LayerTrim, color.Red},
		{LayerLabels, color.Yellow},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("adding layer %s: %w", l.name, err)
		}
	}

	y := 0.0
	for _, p := range result.Placements {
		if err := drawBar(d, p, y, dxfBarHeight); err != nil {
			return fmt.Errorf("drawing %s: %w", p.Name(), err)
		}
		y -= dxfBarHeight + dxfBarGap
	}

	return d.SaveAs(path)
}

func drawBar(d *drawing.Drawing, p model.Placement, y, h float64) error {
	if err := d.ChangeLayer(LayerBars); err != nil {
		return err
	}
	if err := rect(d, 0, y, p.StockLength, h); err != nil {
		return err
	}
	if _, err := d.Text(p.Name(), 0, y+h+dxfTextHeight/2, 0, dxfTextHeight); err != nil {
		return err
	}

	if p.TrimLoss > 0 {
		if err := d.ChangeLayer(LayerTrim); err != nil {
			return err
		}
		if _, err := d.Line(p.TrimLoss, y, 0, p.TrimLoss, y+h, 0); err != nil {
			return err
		}
	}

	for _, c := range p.Cuts {
		end := c.Offset + c.Length
		if err := d.ChangeLayer(LayerCuts); err != nil {
			return err
		}
		// A saw line at the end of each piece unless it ends flush with the bar
		if end < p.StockLength {
			if _, err := d.Line(end, y, 0, end, y+h, 0); err != nil {
				return err
			}
		}
		if err := d.ChangeLayer(LayerLabels); err != nil {
			return err
		}
		label := fmt.Sprintf("%s %g", c.Label, c.Length)
		if _, err := d.Text(label, c.Offset+dxfTextHeight/2, y+h/2-dxfTextHeight/2, 0, dxfTextHeight); err != nil {
			return err
		}
	}
	return nil
}

// rect draws an axis-aligned rectangle as four lines.
func rect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
