package model

import "time"

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default optimizer settings applied to new requests
	DefaultKerf            float64  `json:"default_kerf" toml:"default_kerf"`
	DefaultEdgeTrim        float64  `json:"default_edge_trim" toml:"default_edge_trim"`
	DefaultMinOffcutLength float64  `json:"default_min_offcut_length" toml:"default_min_offcut_length"`
	ExactTimeoutMillis     int      `json:"exact_timeout_ms" toml:"exact_timeout_ms"`
	ExactMaxPieces         int      `json:"exact_max_pieces" toml:"exact_max_pieces"`
	Seed                   int64    `json:"seed" toml:"seed"`
	DefaultMethods         []string `json:"default_methods" toml:"default_methods"` // empty = all registered

	// Application preferences
	OutputFormat   string `json:"output_format" toml:"output_format"` // "table", "csv", "json"
	HistoryEnabled bool   `json:"history_enabled" toml:"history_enabled"`
	HistoryLimit   int    `json:"history_limit" toml:"history_limit"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultKerf:            defaults.Kerf,
		DefaultEdgeTrim:        defaults.EdgeTrim,
		DefaultMinOffcutLength: defaults.MinOffcutLength,
		ExactTimeoutMillis:     int(defaults.ExactTimeout / time.Millisecond),
		ExactMaxPieces:         defaults.ExactMaxPieces,
		Seed:                   defaults.Seed,
		DefaultMethods:         []string{},
		OutputFormat:           "table",
		HistoryEnabled:         false,
		HistoryLimit:           50,
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
// This is used when building a run so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.Kerf = c.DefaultKerf
	s.EdgeTrim = c.DefaultEdgeTrim
	s.MinOffcutLength = c.DefaultMinOffcutLength
	if c.ExactTimeoutMillis > 0 {
		s.ExactTimeout = time.Duration(c.ExactTimeoutMillis) * time.Millisecond
	}
	if c.ExactMaxPieces > 0 {
		s.ExactMaxPieces = c.ExactMaxPieces
	}
	s.Seed = c.Seed
}
