package view

import (
	"sort"

	"github.com/ymatsuda/card-inventory/internal/models"
)

// PriceStats summarizes a card's price history for the chart header.
// Count 0 means the chart renders its empty state; HasPrevious false means
// the change indicator is hidden (a single observation has nothing to
// compare against).
type PriceStats struct {
	Count         int     `json:"count"`
	Latest        float64 `json:"latest"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Mean          float64 `json:"mean"`
	HasPrevious   bool    `json:"has_previous"`
}

// SortByDate returns the entries ordered by recorded date ascending. The
// input order is preserved for equal dates.
func SortByDate(entries []models.PriceHistoryEntry) []models.PriceHistoryEntry {
	sorted := make([]models.PriceHistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateRecorded.Before(sorted[j].DateRecorded)
	})
	return sorted
}

// ComputePriceStats derives the chart summary from a card's history.
func ComputePriceStats(entries []models.PriceHistoryEntry) PriceStats {
	if len(entries) == 0 {
		return PriceStats{}
	}

	sorted := SortByDate(entries)

	stats := PriceStats{
		Count:  len(sorted),
		Latest: sorted[len(sorted)-1].Price,
		Min:    sorted[0].Price,
		Max:    sorted[0].Price,
	}

	var sum float64
	for _, e := range sorted {
		sum += e.Price
		if e.Price < stats.Min {
			stats.Min = e.Price
		}
		if e.Price > stats.Max {
			stats.Max = e.Price
		}
	}
	stats.Mean = sum / float64(len(sorted))

	if len(sorted) >= 2 {
		stats.HasPrevious = true
		stats.Previous = sorted[len(sorted)-2].Price
		stats.Change = stats.Latest - stats.Previous
		// A prior price of zero is a legitimate input (promo giveaways);
		// report no relative change instead of dividing by it.
		if stats.Previous != 0 {
			stats.ChangePercent = (stats.Latest - stats.Previous) / stats.Previous * 100
		}
	}

	return stats
}
