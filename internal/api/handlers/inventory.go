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

type InventoryHandler struct {
	snapshotService *services.SnapshotService
}

func NewInventoryHandler(snapshot *services.SnapshotService) *InventoryHandler {
	return &InventoryHandler{
		snapshotService: snapshot,
	}
}

// ListInventory returns inventory rows with their cards preloaded, in
// insertion order.
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	skip, limit := pagination(c)

	db := database.GetDB()

	var items []models.InventoryItem
	err := db.Preload("Card").
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) CreateInventory(c *gin.Context) {
	var req models.CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var card models.Card
	if err := db.First(&card, req.CardID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card not found"})
		return
	}

	item := models.InventoryItem{
		CardID:        req.CardID,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		MarketPrice:   req.MarketPrice,
		PurchaseDate:  req.PurchaseDate,
		Location:      req.Location,
		Notes:         req.Notes,
	}

	if err := db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db.Preload("Card").First(&item, item.ID)
	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var item models.InventoryItem
	if err := db.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
		return
	}

	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = req.PurchasePrice
	}
	if req.MarketPrice != nil {
		item.MarketPrice = req.MarketPrice
	}
	if req.PurchaseDate != nil {
		item.PurchaseDate = req.PurchaseDate
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db.Preload("Card").First(&item, item.ID)
	c.JSON(http.StatusOK, item)
}

// GetStats returns totals over the full inventory table, independent of any
// paging or search the client applies to the rows themselves.
func (h *InventoryHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, services.CalculateInventoryStats())
}

// GetValueHistory returns inventory value snapshots for charting.
func (h *InventoryHandler) GetValueHistory(c *gin.Context) {
	if h.snapshotService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot service not available"})
		return
	}

	period := c.DefaultQuery("period", "month")

	snapshots, err := h.snapshotService.GetHistory(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ValueHistoryResponse{
		Snapshots: snapshots,
		Period:    period,
	})
}

// ExportInventory streams the current view as CSV, applying the same
// search/sort parameters the inventory page uses.
func (h *InventoryHandler) ExportInventory(c *gin.Context) {
	db := database.GetDB()

	var items []models.InventoryItem
	if err := db.Preload("Card").Order("id ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	derived := view.Derive(
		items,
		c.Query("search"),
		view.SortKey(c.DefaultQuery("sort_by", string(view.SortByName))),
		view.SortOrder(c.DefaultQuery("order", string(view.Ascending))),
	)

	c.Header("Content-Disposition", `attachment; filename="`+view.ExportFilename(time.Now())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(view.ExportCSV(derived.Items)))
}
