package view

import (
	"testing"

	"github.com/ymatsuda/card-inventory/internal/models"
)

func floatPtr(v float64) *float64 {
	return &v
}

func item(name, setName string, quantity int, purchase, market *float64) models.InventoryItem {
	return models.InventoryItem{
		Card:          models.Card{Name: name, SetName: setName},
		Quantity:      quantity,
		PurchasePrice: purchase,
		MarketPrice:   market,
	}
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name string
		item models.InventoryItem
		want float64
	}{
		{
			name: "market price wins over purchase price",
			item: item("ピカチュウ", "基本セット", 1, floatPtr(500), floatPtr(1800)),
			want: 1800,
		},
		{
			name: "purchase price when no market price",
			item: item("ピカチュウ", "基本セット", 1, floatPtr(500), nil),
			want: 500,
		},
		{
			name: "zero market price is still a price",
			item: item("ピカチュウ", "基本セット", 1, floatPtr(500), floatPtr(0)),
			want: 0,
		},
		{
			name: "no prices at all",
			item: item("ピカチュウ", "基本セット", 1, nil, nil),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnitPrice(tt.item); got != tt.want {
				t.Errorf("UnitPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItemValue(t *testing.T) {
	tests := []struct {
		name string
		item models.InventoryItem
		want float64
	}{
		{
			name: "market price times quantity",
			item: item("リザードン", "基本セット", 2, nil, floatPtr(1800)),
			want: 3600,
		},
		{
			name: "purchase fallback times quantity",
			item: item("フシギダネ", "基本セット", 2, floatPtr(500), nil),
			want: 1000,
		},
		{
			name: "no price means zero regardless of quantity",
			item: item("コイキング", "基本セット", 10, nil, nil),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ItemValue(tt.item); got != tt.want {
				t.Errorf("ItemValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	items := []models.InventoryItem{
		item("Pikachu", "Base Set", 1, nil, nil),
		item("Charizard", "Base Set", 1, nil, nil),
		item("ピカチュウ", "拡張パック", 1, nil, nil),
	}

	t.Run("empty search returns all items in order", func(t *testing.T) {
		got := Filter(items, "")
		if len(got) != len(items) {
			t.Fatalf("Filter() returned %d items, want %d", len(got), len(items))
		}
		for i := range items {
			if got[i].Card.Name != items[i].Card.Name {
				t.Errorf("Filter() reordered items: position %d is %q, want %q", i, got[i].Card.Name, items[i].Card.Name)
			}
		}
	})

	t.Run("matches card name case-insensitively", func(t *testing.T) {
		got := Filter(items, "PIKA")
		if len(got) != 1 || got[0].Card.Name != "Pikachu" {
			t.Errorf("Filter(PIKA) = %v items, want just Pikachu", len(got))
		}
	})

	t.Run("matches set name", func(t *testing.T) {
		got := Filter(items, "base set")
		if len(got) != 2 {
			t.Errorf("Filter(base set) = %d items, want 2", len(got))
		}
	})

	t.Run("japanese name", func(t *testing.T) {
		got := Filter(items, "ピカチュウ")
		if len(got) != 1 || got[0].Card.SetName != "拡張パック" {
			t.Errorf("Filter(ピカチュウ) did not match the japanese entry")
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := Filter(items, "mewtwo"); len(got) != 0 {
			t.Errorf("Filter(mewtwo) = %d items, want 0", len(got))
		}
	})
}

func TestSort(t *testing.T) {
	items := []models.InventoryItem{
		item("Charizard", "Base Set", 1, nil, floatPtr(5000)),
		item("Abra", "Base Set", 3, nil, floatPtr(100)),
		item("Pikachu", "Base Set", 2, nil, floatPtr(800)),
	}

	t.Run("by name ascending", func(t *testing.T) {
		got := Sort(items, SortByName, Ascending)
		names := []string{got[0].Card.Name, got[1].Card.Name, got[2].Card.Name}
		want := []string{"Abra", "Charizard", "Pikachu"}
		for i := range want {
			if names[i] != want[i] {
				t.Fatalf("Sort by name asc = %v, want %v", names, want)
			}
		}
	})

	t.Run("descending reverses ascending", func(t *testing.T) {
		asc := Sort(items, SortByQuantity, Ascending)
		desc := Sort(items, SortByQuantity, Descending)
		for i := range asc {
			if asc[i].Card.Name != desc[len(desc)-1-i].Card.Name {
				t.Fatalf("descending is not the reverse of ascending: %v vs %v", asc, desc)
			}
		}
	})

	t.Run("by value", func(t *testing.T) {
		got := Sort(items, SortByValue, Descending)
		// Values: Charizard 5000, Pikachu 1600, Abra 300.
		want := []string{"Charizard", "Pikachu", "Abra"}
		for i := range want {
			if got[i].Card.Name != want[i] {
				t.Fatalf("Sort by value desc position %d = %q, want %q", i, got[i].Card.Name, want[i])
			}
		}
	})

	t.Run("stable for equal keys", func(t *testing.T) {
		equal := []models.InventoryItem{
			item("First", "A", 1, nil, nil),
			item("Second", "B", 1, nil, nil),
			item("Third", "C", 1, nil, nil),
		}
		got := Sort(equal, SortByQuantity, Ascending)
		for i, name := range []string{"First", "Second", "Third"} {
			if got[i].Card.Name != name {
				t.Fatalf("stable sort broke input order: position %d is %q", i, got[i].Card.Name)
			}
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		Sort(items, SortByName, Ascending)
		if items[0].Card.Name != "Charizard" {
			t.Error("Sort mutated its input slice")
		}
	})
}

func TestDeriveTotalsIgnoreFilter(t *testing.T) {
	items := []models.InventoryItem{
		item("Pikachu", "Base Set", 2, nil, floatPtr(100)),
		item("Charizard", "Base Set", 1, nil, floatPtr(5000)),
		item("Mewtwo", "Expansion", 4, floatPtr(250), nil),
	}

	v := Derive(items, "pikachu", SortByName, Ascending)

	if len(v.Items) != 1 {
		t.Fatalf("Derive filtered to %d items, want 1", len(v.Items))
	}
	// Totals cover the whole collection, not the filtered rows.
	if v.TotalQuantity != 7 {
		t.Errorf("TotalQuantity = %d, want 7", v.TotalQuantity)
	}
	if v.TotalValue != 200+5000+1000 {
		t.Errorf("TotalValue = %v, want %v", v.TotalValue, 200+5000+1000.0)
	}
}
