// Package client is a typed HTTP client for the card inventory API. The
// frontend and CLI tooling talk to the server through it instead of building
// requests by hand.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ymatsuda/card-inventory/internal/models"
	"github.com/ymatsuda/card-inventory/internal/view"
)

// bulkUploadFailedMessage is shown verbatim in the upload dialog when the
// request itself fails, so it reads like the server's own row errors.
const bulkUploadFailedMessage = "アップロードに失敗しました"

// Config carries the connection settings. Every field has a usable zero
// default so client.New(client.Config{}) talks to a local server.
type Config struct {
	// BaseURL is the server root, without the /api prefix.
	BaseURL string

	// Timeout bounds each individual HTTP attempt.
	Timeout time.Duration

	// RetryCount is how many extra attempts idempotent GETs make after a
	// transport failure. Zero means the default of one retry; a negative
	// value disables retries. Writes are never retried.
	RetryCount int
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCount int
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryCount == 0 {
		cfg.RetryCount = 1
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retryCount: cfg.RetryCount,
	}
}

// APIError is a non-2xx response. Message carries the server's "error" field
// when the body was parseable JSON.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// --- Cards ---

func (c *Client) ListCards(ctx context.Context, search string, skip, limit int) ([]models.Card, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var cards []models.Card
	if err := c.get(ctx, "/api/cards/", q, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, id uint) (*models.Card, error) {
	var card models.Card
	if err := c.get(ctx, fmt.Sprintf("/api/cards/%d", id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) CreateCard(ctx context.Context, req models.CreateCardRequest) (*models.Card, error) {
	var card models.Card
	if err := c.write(ctx, http.MethodPost, "/api/cards/", req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) UpdateCard(ctx context.Context, id uint, req models.UpdateCardRequest) (*models.Card, error) {
	var card models.Card
	if err := c.write(ctx, http.MethodPut, fmt.Sprintf("/api/cards/%d", id), req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) DeleteCard(ctx context.Context, id uint) error {
	return c.write(ctx, http.MethodDelete, fmt.Sprintf("/api/cards/%d", id), nil, nil)
}

// DownloadTemplate fetches the CSV import template as raw bytes.
func (c *Client) DownloadTemplate(ctx context.Context) ([]byte, error) {
	return c.getRaw(ctx, "/api/cards/template", nil)
}

// BulkUpload sends a CSV file and always returns a usable result: when the
// request itself fails, the result reports zero created rows and a single
// generic error so callers render the same shape either way.
func (c *Client) BulkUpload(ctx context.Context, filename string, file io.Reader) (*models.BulkUploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return bulkUploadFailure(), err
	}
	if _, err := io.Copy(part, file); err != nil {
		return bulkUploadFailure(), err
	}
	if err := mw.Close(); err != nil {
		return bulkUploadFailure(), err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/cards/bulk-upload", &body)
	if err != nil {
		return bulkUploadFailure(), err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return bulkUploadFailure(), err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return bulkUploadFailure(), responseError(resp)
	}

	var result models.BulkUploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return bulkUploadFailure(), err
	}
	return &result, nil
}

func bulkUploadFailure() *models.BulkUploadResult {
	return &models.BulkUploadResult{
		CreatedCount: 0,
		Errors:       []string{bulkUploadFailedMessage},
		Cards:        []models.Card{},
	}
}

// --- Inventory ---

func (c *Client) ListInventory(ctx context.Context, skip, limit int) ([]models.InventoryItem, error) {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var items []models.InventoryItem
	if err := c.get(ctx, "/api/cards/inventory/", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateInventory(ctx context.Context, req models.CreateInventoryRequest) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.write(ctx, http.MethodPost, "/api/cards/inventory/", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateInventory(ctx context.Context, id uint, req models.UpdateInventoryRequest) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.write(ctx, http.MethodPut, fmt.Sprintf("/api/cards/inventory/%d", id), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) GetInventoryStats(ctx context.Context) (*models.InventoryStats, error) {
	var stats models.InventoryStats
	if err := c.get(ctx, "/api/cards/inventory/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) GetValueHistory(ctx context.Context, period string) (*models.ValueHistoryResponse, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}

	var resp models.ValueHistoryResponse
	if err := c.get(ctx, "/api/cards/inventory/value-history", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportInventory downloads the inventory CSV with the given view parameters.
func (c *Client) ExportInventory(ctx context.Context, search string, sortBy view.SortKey, order view.SortOrder) ([]byte, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if sortBy != "" {
		q.Set("sort_by", string(sortBy))
	}
	if order != "" {
		q.Set("order", string(order))
	}
	return c.getRaw(ctx, "/api/cards/inventory/export", q)
}

// --- Prices ---

func (c *Client) GetPriceHistory(ctx context.Context, cardID uint) ([]models.PriceHistoryEntry, error) {
	var entries []models.PriceHistoryEntry
	if err := c.get(ctx, fmt.Sprintf("/api/cards/%d/price-history", cardID), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CreatePriceHistory(ctx context.Context, cardID uint, req models.CreatePriceHistoryRequest) (*models.PriceHistoryEntry, error) {
	var entry models.PriceHistoryEntry
	if err := c.write(ctx, http.MethodPost, fmt.Sprintf("/api/cards/%d/price-history", cardID), req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) GetPriceStats(ctx context.Context, cardID uint) (*view.PriceStats, error) {
	var stats view.PriceStats
	if err := c.get(ctx, fmt.Sprintf("/api/cards/%d/price-stats", cardID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RefreshCardPrice asks the server to prioritize the card in its refresh
// schedule. The refresh itself happens asynchronously.
func (c *Client) RefreshCardPrice(ctx context.Context, cardID uint) error {
	return c.write(ctx, http.MethodPost, fmt.Sprintf("/api/cards/%d/refresh-price", cardID), nil, nil)
}

func (c *Client) GetPriceStatus(ctx context.Context) (*models.PriceRefreshStatus, error) {
	var status models.PriceRefreshStatus
	if err := c.get(ctx, "/api/prices/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// --- External catalog ---

func (c *Client) SearchPokemonTCG(ctx context.Context, name, setName string) ([]models.PokemonTCGCard, error) {
	q := url.Values{}
	q.Set("name", name)
	if setName != "" {
		q.Set("set_name", setName)
	}

	var cards []models.PokemonTCGCard
	if err := c.get(ctx, "/api/pokemon-tcg/search", q, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) GetPokemonTCGCard(ctx context.Context, tcgID string) (*models.PokemonTCGCard, error) {
	var card models.PokemonTCGCard
	if err := c.get(ctx, "/api/pokemon-tcg/card/"+url.PathEscape(tcgID), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) GetPokemonTCGSets(ctx context.Context) ([]models.PokemonTCGSet, error) {
	var sets []models.PokemonTCGSet
	if err := c.get(ctx, "/api/pokemon-tcg/sets", nil, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// --- Transport ---

// get performs an idempotent request, retrying transport failures up to the
// configured count. Non-2xx responses are not retried.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, err := c.getRaw(ctx, path, query)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) getRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, statusError(resp.StatusCode, body)
		}
		return body, nil
	}
	return nil, lastErr
}

// write performs a mutating request exactly once.
func (c *Client) write(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return statusError(resp.StatusCode, body)
}

func statusError(code int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	return &APIError{StatusCode: code, Message: payload.Error}
}
