package model

import (
	"fmt"
	"time"
)

// StockInput is a stock entry of a request payload. Preset references a
// stock preset from the inventory; explicit fields override the preset.
type StockInput struct {
	StockPiece `yaml:",inline"`
	Preset     string `json:"preset,omitempty" yaml:"preset,omitempty"`
}

// SettingsOverride carries optional per-request settings. Nil fields keep
// the configured defaults.
type SettingsOverride struct {
	Kerf            *float64 `json:"kerf,omitempty" yaml:"kerf,omitempty"`
	EdgeTrim        *float64 `json:"edgeTrim,omitempty" yaml:"edgeTrim,omitempty"`
	MinOffcutLength *float64 `json:"minOffcutLength,omitempty" yaml:"minOffcutLength,omitempty"`
	ExactTimeoutMS  *int     `json:"exactTimeoutMs,omitempty" yaml:"exactTimeoutMs,omitempty"`
	ExactMaxPieces  *int     `json:"exactMaxPieces,omitempty" yaml:"exactMaxPieces,omitempty"`
	Seed            *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Apply writes the non-nil overrides into s.
func (o *SettingsOverride) Apply(s *Settings) {
	if o == nil {
		return
	}
	if o.Kerf != nil {
		s.Kerf = *o.Kerf
	}
	if o.EdgeTrim != nil {
		s.EdgeTrim = *o.EdgeTrim
	}
	if o.MinOffcutLength != nil {
		s.MinOffcutLength = *o.MinOffcutLength
	}
	if o.ExactTimeoutMS != nil {
		s.ExactTimeout = time.Duration(*o.ExactTimeoutMS) * time.Millisecond
	}
	if o.ExactMaxPieces != nil {
		s.ExactMaxPieces = *o.ExactMaxPieces
	}
	if o.Seed != nil {
		s.Seed = *o.Seed
	}
}

// Request is the boundary payload accepted from the presentation layer.
type Request struct {
	StockPieces  []StockInput      `json:"stockPieces" yaml:"stockPieces"`
	DemandPieces []DemandPiece     `json:"demandPieces" yaml:"demandPieces"`
	Methods      []string          `json:"methods,omitempty" yaml:"methods,omitempty"`
	Settings     *SettingsOverride `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// ResolveStock expands preset references against the inventory. Explicit
// length, width, material, price and label take precedence over the preset.
// A nil inventory only accepts entries without presets.
func (r Request) ResolveStock(inv *Inventory) ([]StockPiece, error) {
	out := make([]StockPiece, 0, len(r.StockPieces))
	for i, in := range r.StockPieces {
		s := in.StockPiece
		if in.Preset != "" {
			var sp *StockPreset
			if inv != nil {
				sp = inv.Resolve(in.Preset)
			}
			if sp == nil {
				return nil, fmt.Errorf("stock entry %d: unknown preset %q", i+1, in.Preset)
			}
			base := sp.ToStockPiece(s.ID, s.Quantity)
			if s.Length > 0 {
				base.Length = s.Length
			}
			if s.Width > 0 {
				base.Width = s.Width
			}
			if s.Material != "" {
				base.Material = s.Material
			}
			if s.Price > 0 {
				base.Price = s.Price
			}
			if s.Label != "" {
				base.Label = s.Label
			}
			s = base
		}
		out = append(out, s)
	}
	return out, nil
}
