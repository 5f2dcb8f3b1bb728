// Package gcode writes saw programs for a CNC bar saw. The saw carriage
// travels along X from the start of the bar and the blade plunges on Z.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
)

// eps is the tolerance for comparing carriage positions.
const eps = 0.001

// Settings configures the generated program.
type Settings struct {
	Profile    string  `json:"profile"`
	BladeSpeed int     `json:"blade_speed"` // rpm
	PlungeRate float64 `json:"plunge_rate"` // mm/min
	SafeZ      float64 `json:"safe_z"`      // blade height above the bar
	CutDepth   float64 `json:"cut_depth"`   // plunge below the top of the bar
}

// DefaultSettings returns settings for a typical aluminium and steel saw.
func DefaultSettings() Settings {
	return Settings{
		Profile:    "Generic",
		BladeSpeed: 3000,
		PlungeRate: 300,
		SafeZ:      10,
		CutDepth:   50,
	}
}

// Generator produces saw programs from an optimization result.
type Generator struct {
	Settings Settings
	profile  Profile
}

func New(settings Settings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  GetProfile(settings.Profile),
	}
}

// Generate produces one program for the whole result. Bars are cut in
// placement order and the program pauses before each bar so the operator
// can load it.
func (g *Generator) Generate(result model.OptimizationResult) string {
	var b strings.Builder

	g.writeHeader(&b, result)
	for i, p := range result.Placements {
		g.writeBar(&b, p, i+1)
	}
	g.writeFooter(&b)
	return b.String()
}

// CutPositions returns the carriage positions the blade plunges at on a
// bar: the end of the edge trim and the end of every piece that does not
// end flush with the bar.
func CutPositions(p model.Placement) []float64 {
	var xs []float64
	if p.TrimLoss > 0 {
		xs = append(xs, p.TrimLoss)
	}
	for _, c := range p.Cuts {
		if end := c.Offset + c.Length; end < p.StockLength-eps {
			xs = append(xs, end)
		}
	}
	return xs
}

func (g *Generator) writeHeader(b *strings.Builder, result model.OptimizationResult) {
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("BarCut saw program (%s)", result.Method)))
	b.WriteString(g.comment(fmt.Sprintf("Bars: %d, Cuts: %d, Efficiency: %.1f%%", result.StockUsed(), countCuts(result), result.Efficiency())))
	b.WriteString(g.comment(fmt.Sprintf("Blade: %d rpm, Plunge: %.0f mm/min", g.Settings.BladeSpeed, g.Settings.PlungeRate)))
	b.WriteString(g.comment("Profile: " + p.Name))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart+"\n", g.Settings.BladeSpeed))
	}
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString(fmt.Sprintf("%s X%s\n", p.RapidMove, g.format(0)))
	b.WriteString("\n")
}

func (g *Generator) writeBar(b *strings.Builder, p model.Placement, barNum int) {
	b.WriteString(g.comment(fmt.Sprintf("--- Bar %d: %s (%s, %.1f mm) ---", barNum, p.Name(), p.StockLabel, p.StockLength)))
	b.WriteString(fmt.Sprintf("%s X%s\n", g.profile.RapidMove, g.format(0)))
	if g.profile.Pause != "" {
		b.WriteString(g.profile.Pause + "\n")
	}

	depth := g.Settings.CutDepth
	positions := CutPositions(p)
	for i, x := range positions {
		b.WriteString(g.comment(g.cutLabel(p, x, i)))
		b.WriteString(fmt.Sprintf("%s X%s\n", g.profile.RapidMove, g.format(x)))
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove, g.format(-depth), g.format(g.Settings.PlungeRate)))
		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ)))
	}
	b.WriteString("\n")
}

// cutLabel names the piece a saw position releases.
func (g *Generator) cutLabel(p model.Placement, x float64, idx int) string {
	if idx == 0 && p.TrimLoss > 0 && sameX(x, p.TrimLoss) {
		return fmt.Sprintf("Trim %.1f", p.TrimLoss)
	}
	for _, c := range p.Cuts {
		if sameX(c.Offset+c.Length, x) {
			return fmt.Sprintf("%s %.1f", c.Label, c.Length)
		}
	}
	return "Cut"
}

func sameX(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString(g.comment("=== Job complete ==="))
	if p.SpindleStop != "" {
		b.WriteString(p.SpindleStop + "\n")
	}
	for _, code := range p.EndCode {
		b.WriteString(strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ)) + "\n")
	}
}

func (g *Generator) comment(text string) string {
	if g.profile.CommentPrefix == "(" {
		return "(" + strings.ReplaceAll(text, ")", "]") + ")\n"
	}
	return g.profile.CommentPrefix + " " + text + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
}

func countCuts(result model.OptimizationResult) int {
	n := 0
	for _, p := range result.Placements {
		n += len(p.Cuts)
	}
	return n
}
