package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ymatsuda/card-inventory/internal/database"
	"github.com/ymatsuda/card-inventory/internal/metrics"
	"github.com/ymatsuda/card-inventory/internal/models"
	"github.com/ymatsuda/card-inventory/internal/services"
	"github.com/ymatsuda/card-inventory/internal/view"
)

// Default and maximum page sizes for list endpoints
const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type CardHandler struct {
	archiveService *services.UploadArchiveService
}

func NewCardHandler(archive *services.UploadArchiveService) *CardHandler {
	return &CardHandler{
		archiveService: archive,
	}
}

func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *CardHandler) ListCards(c *gin.Context) {
	skip, limit := pagination(c)

	db := database.GetDB()
	query := db.Model(&models.Card{}).Order("id ASC")

	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var cards []models.Card
	if err := query.Offset(skip).Limit(limit).Find(&cards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cards)
}

func (h *CardHandler) GetCard(c *gin.Context) {
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

	c.JSON(http.StatusOK, card)
}

func (h *CardHandler) CreateCard(c *gin.Context) {
	var req models.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	card := req.ToCard()
	if err := db.Create(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, card)
}

func (h *CardHandler) UpdateCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCardRequest
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

	if req.Name != nil {
		card.Name = *req.Name
	}
	if req.CardNumber != nil {
		card.CardNumber = *req.CardNumber
	}
	if req.SetName != nil {
		card.SetName = *req.SetName
	}
	if req.Rarity != nil {
		card.Rarity = *req.Rarity
	}
	if req.Condition != nil {
		card.Condition = *req.Condition
	}
	if req.Language != nil {
		card.Language = *req.Language
	}
	if req.ImageURL != nil {
		card.ImageURL = *req.ImageURL
	}
	if req.Description != nil {
		card.Description = *req.Description
	}

	if err := db.Save(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *CardHandler) DeleteCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	result := db.Delete(&models.Card{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "card deleted successfully"})
}

// DownloadTemplate serves the CSV import template.
func (h *CardHandler) DownloadTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="card_template.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(view.CSVTemplate))
}

// BulkUpload ingests a CSV of cards. Rows are validated independently: bad
// rows produce an error string, good rows are created, and the response
// always carries the full created/error breakdown.
func (h *CardHandler) BulkUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a CSV"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	if h.archiveService != nil {
		if _, err := h.archiveService.Save(data); err != nil {
			log.Printf("Warning: failed to archive upload %q: %v", fileHeader.Filename, err)
		}
	}

	result := importCSV(data)
	c.JSON(http.StatusOK, result)
}

// importCSV parses and inserts card rows. The first record is the header;
// data rows are numbered from 2 to match what users see in a spreadsheet.
func importCSV(data []byte) models.BulkUploadResult {
	result := models.BulkUploadResult{
		Errors: []string{},
		Cards:  []models.Card{},
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid CSV: %v", err))
		return result
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	db := database.GetDB()

	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			metrics.BulkUploadRowsTotal.WithLabelValues("error").Inc()
			continue
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		name := field("name")
		setName := field("set_name")
		if name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: name is required", rowNum))
			metrics.BulkUploadRowsTotal.WithLabelValues("error").Inc()
			continue
		}
		if setName == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: set_name is required", rowNum))
			metrics.BulkUploadRowsTotal.WithLabelValues("error").Inc()
			continue
		}

		card := models.CreateCardRequest{
			Name:        name,
			CardNumber:  field("card_number"),
			SetName:     setName,
			Rarity:      field("rarity"),
			Condition:   field("condition"),
			Language:    field("language"),
			Description: field("description"),
		}.ToCard()

		if err := db.Create(&card).Error; err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			metrics.BulkUploadRowsTotal.WithLabelValues("error").Inc()
			continue
		}

		result.Cards = append(result.Cards, card)
		result.CreatedCount++
		metrics.BulkUploadRowsTotal.WithLabelValues("created").Inc()
	}

	return result
}
