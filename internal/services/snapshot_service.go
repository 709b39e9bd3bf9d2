package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ymatsuda/card-inventory/internal/database"
	"github.com/ymatsuda/card-inventory/internal/metrics"
	"github.com/ymatsuda/card-inventory/internal/models"
)

// SnapshotService records one inventory value snapshot per day for the value
// history chart.
type SnapshotService struct {
	mu            sync.RWMutex
	lastSnapshot  time.Time
	snapshotHour  int // Hour of day to take snapshot (0-23)
	checkInterval time.Duration
}

func NewSnapshotService() *SnapshotService {
	return &SnapshotService{
		snapshotHour:  23, // Default: 11 PM
		checkInterval: 15 * time.Minute,
	}
}

// Start begins the background snapshot worker.
func (s *SnapshotService) Start(ctx context.Context) {
	log.Println("Snapshot service started: will record daily inventory value")

	// Check if we need to take a snapshot for today on startup
	s.checkAndSnapshot()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot service stopping...")
			return
		case <-ticker.C:
			s.checkAndSnapshot()
		}
	}
}

func (s *SnapshotService) checkAndSnapshot() {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if s.hasSnapshotForDate(today) {
		return
	}

	// Only take automatic snapshots at or after the configured hour
	if now.Hour() >= s.snapshotHour {
		if err := s.TakeSnapshot(); err != nil {
			log.Printf("Snapshot service: failed to take snapshot: %v", err)
		}
	}
}

func (s *SnapshotService) hasSnapshotForDate(date time.Time) bool {
	db := database.GetDB()

	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var count int64
	db.Model(&models.InventoryValueSnapshot{}).
		Where("snapshot_date >= ? AND snapshot_date < ?", startOfDay, endOfDay).
		Count(&count)

	return count > 0
}

// TakeSnapshot records the current inventory totals.
func (s *SnapshotService) TakeSnapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := database.GetDB()
	now := time.Now()
	snapshotDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := CalculateInventoryStats()

	snapshot := models.InventoryValueSnapshot{
		SnapshotDate:  snapshotDate,
		TotalQuantity: stats.TotalQuantity,
		UniqueCards:   stats.UniqueCards,
		TotalValue:    stats.TotalValue,
		CreatedAt:     now,
	}

	// Use upsert to handle duplicate dates
	result := db.Where("DATE(snapshot_date) = DATE(?)", snapshotDate).
		Assign(models.InventoryValueSnapshot{
			TotalQuantity: snapshot.TotalQuantity,
			UniqueCards:   snapshot.UniqueCards,
			TotalValue:    snapshot.TotalValue,
		}).
		FirstOrCreate(&snapshot)

	if result.Error != nil {
		return result.Error
	}

	s.lastSnapshot = now
	metrics.SnapshotsTotal.Inc()
	log.Printf("Snapshot service: recorded value snapshot for %s (total: ¥%.0f, cards: %d)",
		snapshotDate.Format("2006-01-02"), stats.TotalValue, stats.TotalQuantity)

	return nil
}

// CalculateInventoryStats computes the header totals over the full inventory
// table. The COALESCE mirrors view.UnitPrice: market price first, then
// purchase price, then zero.
func CalculateInventoryStats() models.InventoryStats {
	db := database.GetDB()
	var stats models.InventoryStats

	db.Model(&models.InventoryItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&stats.TotalQuantity)

	var uniqueCount int64
	db.Model(&models.InventoryItem{}).Distinct("card_id").Count(&uniqueCount)
	stats.UniqueCards = int(uniqueCount)

	db.Model(&models.InventoryItem{}).
		Select("COALESCE(SUM(COALESCE(market_price, purchase_price, 0) * quantity), 0)").
		Scan(&stats.TotalValue)

	var cardCount int64
	db.Model(&models.Card{}).Count(&cardCount)

	metrics.InventoryQuantityTotal.Set(float64(stats.TotalQuantity))
	metrics.InventoryValueJPY.Set(stats.TotalValue)
	metrics.CardsTotal.Set(float64(cardCount))

	return stats
}

// GetHistory retrieves value snapshots for a given period.
func (s *SnapshotService) GetHistory(period string) ([]models.InventoryValueSnapshot, error) {
	db := database.GetDB()
	var snapshots []models.InventoryValueSnapshot

	now := time.Now()
	var startDate time.Time

	switch period {
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "3month":
		startDate = now.AddDate(0, -3, 0)
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "all":
		startDate = time.Time{} // No filter
	default:
		startDate = now.AddDate(0, -1, 0) // Default to 1 month
	}

	query := db.Order("snapshot_date ASC")
	if !startDate.IsZero() {
		query = query.Where("snapshot_date >= ?", startDate)
	}

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

// ForceTakeSnapshot takes a snapshot regardless of timing (for manual triggers).
func (s *SnapshotService) ForceTakeSnapshot() error {
	return s.TakeSnapshot()
}
