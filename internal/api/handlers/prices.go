package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ymatsuda/card-inventory/internal/database"
	"github.com/ymatsuda/card-inventory/internal/models"
	"github.com/ymatsuda/card-inventory/internal/services"
	"github.com/ymatsuda/card-inventory/internal/view"
)

// priceHistoryLimit caps how many entries one card's history returns.
const priceHistoryLimit = 50

type PriceHandler struct {
	priceWorker *services.PriceRefreshWorker
}

func NewPriceHandler(priceWorker *services.PriceRefreshWorker) *PriceHandler {
	return &PriceHandler{
		priceWorker: priceWorker,
	}
}

// GetPriceHistory returns the most recent entries for a card, newest first.
func (h *PriceHandler) GetPriceHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var entries []models.PriceHistoryEntry
	err := db.Preload("Card").
		Where("card_id = ?", id).
		Order("date_recorded DESC").
		Limit(priceHistoryLimit).
		Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetPriceStats returns the chart summary (latest, change, min/max/mean)
// for a card's full history.
func (h *PriceHandler) GetPriceStats(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var entries []models.PriceHistoryEntry
	if err := db.Where("card_id = ?", id).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view.ComputePriceStats(entries))
}

func (h *PriceHandler) CreatePriceHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.CreatePriceHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var card models.Card
	if err := db.First(&card, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	entry := models.PriceHistoryEntry{
		CardID:       id,
		Price:        req.Price,
		Source:       req.Source,
		Condition:    req.Condition,
		Notes:        req.Notes,
		DateRecorded: time.Now(),
	}

	if err := db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db.Preload("Card").First(&entry, entry.ID)
	c.JSON(http.StatusCreated, entry)
}

// GetPriceStatus returns the refresh worker's progress.
func (h *PriceHandler) GetPriceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.priceWorker.GetStatus())
}

// RefreshCardPrice puts a card at the front of the refresh schedule. The
// worker's urgent pass picks it up within seconds; the response carries the
// card's position in that queue.
func (h *PriceHandler) RefreshCardPrice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var card models.Card
	if err := db.First(&card, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	position := h.priceWorker.QueueRefresh(id)
	c.JSON(http.StatusAccepted, gin.H{"queued": true, "position": position})
}
