package model

import "testing"

func TestNewStockPresetDefaultZeroPrice(t *testing.T) {
	sp := NewStockPreset("Tube", 6000, 40, "Steel")
	if sp.Price != 0 {
		t.Errorf("expected zero price, got %g", sp.Price)
	}
	if sp.ID == "" {
		t.Error("expected generated id")
	}
}

func TestToStockPieceCarriesPresetFields(t *testing.T) {
	sp := NewStockPreset("Tube", 6000, 40, "Steel")
	sp.Price = 42.5

	s := sp.ToStockPiece("", 3)
	if s.ID != sp.ID || s.Label != "Tube" || s.Quantity != 3 {
		t.Errorf("unexpected stock piece %+v", s)
	}
	if s.Price != 42.5 || s.Width != 40 || s.Material != "Steel" {
		t.Errorf("preset fields not carried: %+v", s)
	}

	if got := sp.ToStockPiece("T1", 1); got.ID != "T1" {
		t.Errorf("expected explicit id T1, got %s", got.ID)
	}
}

func TestInventoryAddRemoveResolve(t *testing.T) {
	inv := DefaultInventory()
	n := len(inv.Stocks)

	sp := NewStockPreset("Custom 2500", 2500, 0, "")
	inv.Add(sp)
	if len(inv.Stocks) != n+1 {
		t.Fatalf("expected %d presets, got %d", n+1, len(inv.Stocks))
	}
	if got := inv.Resolve(sp.ID); got == nil || got.Name != "Custom 2500" {
		t.Error("expected lookup by id")
	}
	if got := inv.Resolve("Custom 2500"); got == nil || got.ID != sp.ID {
		t.Error("expected lookup by name")
	}
	if !inv.Remove("Custom 2500") {
		t.Error("expected removal by name")
	}
	if inv.Remove("Custom 2500") {
		t.Error("second removal should fail")
	}
	if inv.Resolve("missing") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestStockNames(t *testing.T) {
	inv := Inventory{Stocks: []StockPreset{{Name: "A"}, {Name: "B"}}}
	names := inv.StockNames()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("unexpected names %v", names)
	}
}
