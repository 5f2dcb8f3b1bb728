package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/BarCut/internal/model"
)

const defaultHistoryLimit = 50

// HistoryEntry summarizes one optimization run.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Methods    []string  `json:"methods"`
	Best       string    `json:"best"`
	StockUsed  int       `json:"stock_used"`
	TotalWaste float64   `json:"total_waste"`
	Efficiency float64   `json:"efficiency"`
	Unmet      int       `json:"unmet"`
	Degraded   []string  `json:"degraded,omitempty"`
}

// EntryFromReport builds a history entry from the best result of a report.
func EntryFromReport(rep *model.ComparisonReport) HistoryEntry {
	e := HistoryEntry{
		ID:        rep.ID,
		Timestamp: rep.CreatedAt,
		Methods:   append([]string(nil), rep.Methods...),
		Best:      rep.Best,
	}
	if e.ID == "" {
		e.ID = model.NewID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if best, ok := rep.BestResult(); ok {
		e.StockUsed = best.StockUsed()
		e.TotalWaste = best.TotalWaste
		e.Efficiency = best.Efficiency()
		e.Unmet = best.UnmetCount()
	}
	for _, res := range rep.Ordered() {
		if res.Degraded {
			e.Degraded = append(e.Degraded, res.Method)
		}
	}
	return e
}

// History is a capped log of optimization runs, oldest first.
type History struct {
	Entries []HistoryEntry `json:"entries"`
	limit   int
}

// NewHistory creates a History keeping at most limit entries. A limit of
// zero or less uses the default of 50.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &History{limit: limit}
}

// Add appends an entry and drops the oldest entries beyond the limit.
func (h *History) Add(e HistoryEntry) {
	h.Entries = append(h.Entries, e)
	if len(h.Entries) > h.limit {
		h.Entries = h.Entries[len(h.Entries)-h.limit:]
	}
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(n int) []HistoryEntry {
	if n <= 0 || n > len(h.Entries) {
		n = len(h.Entries)
	}
	out := make([]HistoryEntry, 0, n)
	for i := len(h.Entries) - 1; i >= len(h.Entries)-n; i-- {
		out = append(out, h.Entries[i])
	}
	return out
}

// Clear removes all entries.
func (h *History) Clear() {
	h.Entries = nil
}

// DefaultHistoryPath returns ~/.barcut/history.json.
func DefaultHistoryPath() string {
	return filepath.Join(DefaultConfigDir(), "history.json")
}

// SaveHistory writes the history to the specified JSON file.
func SaveHistory(path string, h *History) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadHistory reads the history file. A missing file yields an empty history.
// Entries beyond limit are dropped, oldest first.
func LoadHistory(path string, limit int) (*History, error) {
	h := NewHistory(limit)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, err
	}
	var stored History
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	for _, e := range stored.Entries {
		h.Add(e)
	}
	return h, nil
}
