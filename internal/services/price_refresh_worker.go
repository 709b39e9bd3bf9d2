package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ymatsuda/card-inventory/internal/database"
	"github.com/ymatsuda/card-inventory/internal/metrics"
	"github.com/ymatsuda/card-inventory/internal/models"
)

const (
	// refreshBatchSize is the number of cards refreshed per cycle. Kept
	// small because each card costs one external search request.
	refreshBatchSize = 20

	// priceHistorySource tags history entries written by this worker.
	priceHistorySource = "pokemon_tcg_api"
)

// PriceRefreshWorker periodically re-resolves market prices for cards held
// in inventory against the external catalog, updates the inventory rows, and
// appends price history entries so the chart keeps moving without manual
// input.
type PriceRefreshWorker struct {
	tcg            *PokemonTCGService
	updateInterval time.Duration
	batchSize      int
	mu             sync.RWMutex

	// Priority queue for user-requested refreshes
	urgentQueue []uint
	urgentMu    sync.Mutex

	// Stats (reset at midnight)
	cardsUpdatedToday int
	lastUpdateTime    time.Time
	lastStatsDay      time.Time
}

func NewPriceRefreshWorker(tcg *PokemonTCGService) *PriceRefreshWorker {
	return &PriceRefreshWorker{
		tcg:            tcg,
		batchSize:      refreshBatchSize,
		updateInterval: 12 * time.Hour,
	}
}

// QueueRefresh adds a card to the high-priority refresh queue and returns
// its 1-indexed position.
func (w *PriceRefreshWorker) QueueRefresh(cardID uint) int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()

	for i, id := range w.urgentQueue {
		if id == cardID {
			return i + 1
		}
	}
	w.urgentQueue = append(w.urgentQueue, cardID)
	log.Printf("Price worker: queued refresh for card %d (queue size: %d)", cardID, len(w.urgentQueue))
	return len(w.urgentQueue)
}

func (w *PriceRefreshWorker) drainUrgent(max int) []uint {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()

	if len(w.urgentQueue) == 0 {
		return nil
	}
	if max > len(w.urgentQueue) {
		max = len(w.urgentQueue)
	}
	batch := make([]uint, max)
	copy(batch, w.urgentQueue[:max])
	w.urgentQueue = w.urgentQueue[max:]
	return batch
}

func (w *PriceRefreshWorker) queueSize() int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()
	return len(w.urgentQueue)
}

// resetDailyStatsIfNeeded resets cardsUpdatedToday at midnight.
func (w *PriceRefreshWorker) resetDailyStatsIfNeeded() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if w.lastStatsDay.Before(today) {
		if !w.lastStatsDay.IsZero() {
			log.Printf("Price worker: daily stats reset (previous day: %d cards updated)", w.cardsUpdatedToday)
		}
		w.cardsUpdatedToday = 0
		w.lastStatsDay = today
	}
}

// Start runs the refresh loop until the context is cancelled. The urgent
// queue is checked frequently; the full batch runs on the update interval.
func (w *PriceRefreshWorker) Start(ctx context.Context) {
	log.Printf("Price worker started: refreshing up to %d cards every %s", w.batchSize, w.updateInterval)

	batchTicker := time.NewTicker(w.updateInterval)
	defer batchTicker.Stop()
	urgentTicker := time.NewTicker(30 * time.Second)
	defer urgentTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Price worker stopping...")
			return
		case <-urgentTicker.C:
			w.processUrgent(ctx)
		case <-batchTicker.C:
			w.processBatch(ctx)
		}
	}
}

func (w *PriceRefreshWorker) processUrgent(ctx context.Context) {
	for _, cardID := range w.drainUrgent(w.batchSize) {
		if _, err := w.RefreshCard(ctx, cardID); err != nil {
			log.Printf("Price worker: urgent refresh of card %d failed: %v", cardID, err)
		}
	}
}

func (w *PriceRefreshWorker) processBatch(ctx context.Context) {
	w.resetDailyStatsIfNeeded()

	db := database.GetDB()

	// Stalest cards first, limited to cards actually held in inventory.
	var cards []models.Card
	err := db.
		Joins("JOIN inventory_items ON inventory_items.card_id = cards.id").
		Where("inventory_items.quantity > 0").
		Order("cards.updated_at ASC").
		Distinct().
		Limit(w.batchSize).
		Find(&cards).Error
	if err != nil {
		log.Printf("Price worker: failed to select batch: %v", err)
		return
	}

	updated := 0
	for _, card := range cards {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.RefreshCard(ctx, card.ID); err != nil {
			log.Printf("Price worker: refresh of %q failed: %v", card.Name, err)
			continue
		}
		updated++
	}

	if updated > 0 {
		log.Printf("Price worker: batch complete, %d/%d cards refreshed", updated, len(cards))
	}
}

// RefreshCard resolves the current market price of one card via the external
// catalog, updates every inventory row holding it, and appends a price
// history entry. Returns (nil, nil) when the catalog has no match.
func (w *PriceRefreshWorker) RefreshCard(ctx context.Context, cardID uint) (*models.Card, error) {
	db := database.GetDB()

	var card models.Card
	if err := db.First(&card, cardID).Error; err != nil {
		return nil, fmt.Errorf("card %d not found: %w", cardID, err)
	}

	matches, err := w.tcg.SearchCards(ctx, card.Name, card.SetName)
	if err != nil {
		return nil, err
	}

	var price *float64
	for _, m := range matches {
		if m.MarketPrice != nil {
			price = m.MarketPrice
			break
		}
	}
	if price == nil {
		return nil, nil
	}

	if err := db.Model(&models.InventoryItem{}).
		Where("card_id = ?", card.ID).
		Update("market_price", *price).Error; err != nil {
		return nil, err
	}

	entry := models.PriceHistoryEntry{
		CardID:       card.ID,
		Price:        *price,
		Source:       priceHistorySource,
		Condition:    card.Condition,
		DateRecorded: time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, err
	}

	// Touch the card so the stalest-first batch query rotates.
	db.Model(&card).Update("updated_at", time.Now())

	w.mu.Lock()
	w.cardsUpdatedToday++
	w.lastUpdateTime = time.Now()
	w.mu.Unlock()
	metrics.PriceRefreshTotal.Inc()

	return &card, nil
}

// GetStatus reports worker progress for the status endpoint.
func (w *PriceRefreshWorker) GetStatus() models.PriceRefreshStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	next := w.lastUpdateTime.Add(w.updateInterval)
	if w.lastUpdateTime.IsZero() {
		next = time.Now().Add(w.updateInterval)
	}

	return models.PriceRefreshStatus{
		LastUpdateTime:    w.lastUpdateTime,
		NextUpdateTime:    next,
		CardsUpdatedToday: w.cardsUpdatedToday,
		BatchSize:         w.batchSize,
		QueueSize:         w.queueSize(),
	}
}
