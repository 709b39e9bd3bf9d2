package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ymatsuda/card-inventory/internal/database"
	"github.com/ymatsuda/card-inventory/internal/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	if err := database.Initialize(":memory:"); err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}
}

func TestImportCSV(t *testing.T) {
	setupTestDB(t)

	csvData := strings.Join([]string{
		"name,card_number,set_name,rarity,condition,language,description",
		"ピカチュウ,025,基本セット,Common,NM,JP,でんきタイプ",
		",006,基本セット,Rare,,,",
		"リザードン,006,,Rare,,,",
		"フシギダネ,001,基本セット,,,,",
	}, "\n")

	result := importCSV([]byte(csvData))

	if result.CreatedCount != 2 {
		t.Errorf("CreatedCount = %d, want 2", result.CreatedCount)
	}
	if len(result.Cards) != 2 {
		t.Fatalf("Cards = %d entries, want 2", len(result.Cards))
	}
	if len(result.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2 entries", result.Errors)
	}

	// Data rows are numbered from 2, matching spreadsheet view.
	if result.Errors[0] != "Row 3: name is required" {
		t.Errorf("Errors[0] = %q", result.Errors[0])
	}
	if result.Errors[1] != "Row 4: set_name is required" {
		t.Errorf("Errors[1] = %q", result.Errors[1])
	}

	// Unspecified condition and language fall back to defaults.
	bulbasaur := result.Cards[1]
	if bulbasaur.Condition != models.DefaultCondition {
		t.Errorf("Condition = %q, want %q", bulbasaur.Condition, models.DefaultCondition)
	}
	if bulbasaur.Language != models.DefaultLanguage {
		t.Errorf("Language = %q, want %q", bulbasaur.Language, models.DefaultLanguage)
	}
}

func TestImportCSVHeaderOnly(t *testing.T) {
	setupTestDB(t)

	result := importCSV([]byte("name,set_name"))
	if result.CreatedCount != 0 || len(result.Errors) != 0 {
		t.Errorf("header-only import = %+v, want empty result", result)
	}
	if result.Errors == nil || result.Cards == nil {
		t.Error("result slices must be initialized, not nil")
	}
}

func TestImportCSVInvalid(t *testing.T) {
	setupTestDB(t)

	result := importCSV([]byte(""))
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want a single invalid-CSV error", result.Errors)
	}
	if result.CreatedCount != 0 {
		t.Errorf("CreatedCount = %d, want 0", result.CreatedCount)
	}
}

func bulkUploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/cards/bulk-upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestBulkUploadEndpoint(t *testing.T) {
	setupTestDB(t)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewCardHandler(nil)
	router.POST("/api/cards/bulk-upload", handler.BulkUpload)

	t.Run("accepts a csv and reports the breakdown", func(t *testing.T) {
		req := bulkUploadRequest(t, "cards.csv", "name,set_name\nピカチュウ,基本セット\n,基本セット\n")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var result models.BulkUploadResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatal(err)
		}
		if result.CreatedCount != 1 {
			t.Errorf("CreatedCount = %d, want 1", result.CreatedCount)
		}
		if len(result.Errors) != 1 {
			t.Errorf("Errors = %v, want one row error", result.Errors)
		}
	})

	t.Run("rejects non-csv filenames", func(t *testing.T) {
		req := bulkUploadRequest(t, "cards.xlsx", "name,set_name\n")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects missing file field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cards/bulk-upload", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestCardCRUDEndpoints(t *testing.T) {
	setupTestDB(t)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewCardHandler(nil)
	router.POST("/api/cards/", handler.CreateCard)
	router.GET("/api/cards/:id", handler.GetCard)
	router.DELETE("/api/cards/:id", handler.DeleteCard)

	body := `{"name":"ピカチュウ","set_name":"基本セット"}`
	req := httptest.NewRequest(http.MethodPost, "/api/cards/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var card models.Card
	if err := json.Unmarshal(rec.Body.Bytes(), &card); err != nil {
		t.Fatal(err)
	}
	if card.Condition != "NM" || card.Language != "JP" {
		t.Errorf("defaults not applied: condition=%q language=%q", card.Condition, card.Language)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cards/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get missing card status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cards/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing card status = %d, want 404", rec.Code)
	}
}
