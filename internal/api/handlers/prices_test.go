package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ymatsuda/card-inventory/internal/database"
	"github.com/ymatsuda/card-inventory/internal/models"
	"github.com/ymatsuda/card-inventory/internal/services"
)

func TestRefreshCardPriceQueues(t *testing.T) {
	setupTestDB(t)
	gin.SetMode(gin.TestMode)

	card := models.Card{Name: "ピカチュウ", SetName: "基本セット"}
	if err := database.GetDB().Create(&card).Error; err != nil {
		t.Fatal(err)
	}

	worker := services.NewPriceRefreshWorker(nil)
	handler := NewPriceHandler(worker)

	router := gin.New()
	router.POST("/api/cards/:id/refresh-price", handler.RefreshCardPrice)
	router.GET("/api/prices/status", handler.GetPriceStatus)

	refresh := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		return rec
	}

	t.Run("queues an existing card", func(t *testing.T) {
		rec := refresh("/api/cards/1/refresh-price")
		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Queued   bool `json:"queued"`
			Position int  `json:"position"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if !resp.Queued || resp.Position != 1 {
			t.Errorf("response = %+v, want queued at position 1", resp)
		}
	})

	t.Run("re-queueing keeps the existing position", func(t *testing.T) {
		rec := refresh("/api/cards/1/refresh-price")
		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d", rec.Code)
		}

		var resp struct {
			Position int `json:"position"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Position != 1 {
			t.Errorf("position = %d, want 1", resp.Position)
		}
	})

	t.Run("status endpoint reflects the queue", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/prices/status", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}

		var status models.PriceRefreshStatus
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			t.Fatal(err)
		}
		if status.QueueSize != 1 {
			t.Errorf("QueueSize = %d, want 1", status.QueueSize)
		}
	})

	t.Run("missing card is not queued", func(t *testing.T) {
		rec := refresh("/api/cards/999/refresh-price")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if worker.GetStatus().QueueSize != 1 {
			t.Error("missing card was added to the queue")
		}
	})
}
