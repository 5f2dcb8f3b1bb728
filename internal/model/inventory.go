package model

// StockPreset represents a reusable stock piece definition, e.g. a standard
// 6 m steel tube. Requests can reference presets by ID or name.
type StockPreset struct {
	ID       string  `json:"id" toml:"id"`
	Name     string  `json:"name" toml:"name"`
	Length   float64 `json:"length" toml:"length"`
	Width    float64 `json:"width,omitempty" toml:"width,omitempty"`
	Material string  `json:"material,omitempty" toml:"material,omitempty"`
	Price    float64 `json:"price,omitempty" toml:"price,omitempty"`
}

// NewStockPreset creates a new StockPreset with a generated ID.
func NewStockPreset(name string, length, width float64, material string) StockPreset {
	return StockPreset{
		ID:       NewID(),
		Name:     name,
		Length:   length,
		Width:    width,
		Material: material,
	}
}

// ToStockPiece converts a StockPreset into a StockPiece with the given quantity.
// An empty id falls back to the preset ID.
func (sp StockPreset) ToStockPiece(id string, qty int) StockPiece {
	if id == "" {
		id = sp.ID
	}
	s := NewStockPiece(id, sp.Length, qty)
	s.Label = sp.Name
	s.Width = sp.Width
	s.Material = sp.Material
	s.Price = sp.Price
	return s
}

// Inventory holds the user's saved stock presets.
type Inventory struct {
	Stocks []StockPreset `json:"stocks"`
}

// DefaultInventory returns an inventory populated with common bar stock.
func DefaultInventory() Inventory {
	return Inventory{
		Stocks: []StockPreset{
			NewStockPreset("Steel tube 40x40 6000", 6000, 40, "Steel"),
			NewStockPreset("Steel flat 30x5 6000", 6000, 30, "Steel"),
			NewStockPreset("Aluminium profile 30x30 6000", 6000, 30, "Aluminium"),
			NewStockPreset("Aluminium profile 30x30 3000", 3000, 30, "Aluminium"),
			NewStockPreset("Timber 45x95 4800", 4800, 95, "Timber"),
			NewStockPreset("Timber 45x95 2400", 2400, 95, "Timber"),
		},
	}
}

// Add appends a preset to the inventory.
func (inv *Inventory) Add(sp StockPreset) {
	inv.Stocks = append(inv.Stocks, sp)
}

// Remove removes a preset by ID or name. Returns true if found and removed.
func (inv *Inventory) Remove(key string) bool {
	for i, s := range inv.Stocks {
		if s.ID == key || s.Name == key {
			inv.Stocks = append(inv.Stocks[:i], inv.Stocks[i+1:]...)
			return true
		}
	}
	return false
}

// FindStockByID returns a pointer to the stock preset with the given ID, or nil.
func (inv *Inventory) FindStockByID(id string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// FindStockByName returns a pointer to the first stock preset with the given name, or nil.
func (inv *Inventory) FindStockByName(name string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].Name == name {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// Resolve looks a preset up by ID first, then by name.
func (inv *Inventory) Resolve(key string) *StockPreset {
	if sp := inv.FindStockByID(key); sp != nil {
		return sp
	}
	return inv.FindStockByName(key)
}

// StockNames returns a list of stock preset names.
func (inv *Inventory) StockNames() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}
