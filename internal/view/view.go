// Package view contains the pure projection logic shared by every surface
// that renders inventory: search filtering, sorting, header totals, CSV
// export, and price chart aggregation. Handlers and clients must not
// reimplement any of these, in particular the unit price fallback.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ymatsuda/card-inventory/internal/models"
)

type SortKey string

const (
	SortByName     SortKey = "name"
	SortByQuantity SortKey = "quantity"
	SortByValue    SortKey = "value"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// View is the filtered/sorted projection of an inventory collection plus the
// header totals. Totals always cover the full input collection, not the
// filtered rows.
type View struct {
	Items         []models.InventoryItem
	TotalQuantity int
	TotalValue    float64
}

// UnitPrice returns the price used to value one copy of an item:
// market price if recorded, else purchase price, else zero. Every total in
// the system (row totals, header totals, CSV export, snapshots) goes through
// this fallback.
func UnitPrice(item models.InventoryItem) float64 {
	if item.MarketPrice != nil {
		return *item.MarketPrice
	}
	if item.PurchasePrice != nil {
		return *item.PurchasePrice
	}
	return 0
}

// ItemValue is the unit price times owned quantity.
func ItemValue(item models.InventoryItem) float64 {
	return UnitPrice(item) * float64(item.Quantity)
}

// Filter returns the items whose card name or set name contains search,
// case-insensitively. An empty search matches everything and preserves the
// input order.
func Filter(items []models.InventoryItem, search string) []models.InventoryItem {
	if search == "" {
		return items
	}

	needle := strings.ToLower(search)
	matched := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Card.Name), needle) ||
			strings.Contains(strings.ToLower(item.Card.SetName), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Sort orders items by the given key and direction. The sort is stable, so
// items with equal keys keep their relative input order. Name comparison is
// collation-based so Japanese card names order sensibly.
func Sort(items []models.InventoryItem, key SortKey, order SortOrder) []models.InventoryItem {
	sorted := make([]models.InventoryItem, len(items))
	copy(sorted, items)

	var less func(a, b models.InventoryItem) bool
	switch key {
	case SortByName:
		c := collate.New(language.Japanese)
		less = func(a, b models.InventoryItem) bool {
			return c.CompareString(a.Card.Name, b.Card.Name) < 0
		}
	case SortByQuantity:
		less = func(a, b models.InventoryItem) bool {
			return a.Quantity < b.Quantity
		}
	case SortByValue:
		less = func(a, b models.InventoryItem) bool {
			return ItemValue(a) < ItemValue(b)
		}
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == Descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// Totals sums quantity and value over the whole collection.
func Totals(items []models.InventoryItem) (quantity int, value float64) {
	for _, item := range items {
		quantity += item.Quantity
		value += ItemValue(item)
	}
	return quantity, value
}

// Derive builds the rendered view: filter, then sort, with totals computed
// over the unfiltered input.
func Derive(items []models.InventoryItem, search string, key SortKey, order SortOrder) View {
	quantity, value := Totals(items)
	return View{
		Items:         Sort(Filter(items, search), key, order),
		TotalQuantity: quantity,
		TotalValue:    value,
	}
}
