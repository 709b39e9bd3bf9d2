// Package metrics provides Prometheus metrics for the card inventory server.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeca_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokeca_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Inventory Metrics
	InventoryQuantityTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokeca_inventory_quantity_total",
			Help: "Total number of cards held in inventory",
		},
	)

	InventoryValueJPY = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokeca_inventory_value_jpy",
			Help: "Total estimated inventory value in JPY",
		},
	)

	CardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokeca_cards_total",
			Help: "Number of cards in the catalog",
		},
	)

	// Bulk Upload Metrics
	BulkUploadRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeca_bulk_upload_rows_total",
			Help: "CSV bulk upload rows by outcome",
		},
		[]string{"result"}, // "created" or "error"
	)

	// External API Metrics
	PokemonTCGRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeca_pokemontcg_requests_total",
			Help: "Pokemon TCG API requests by outcome",
		},
		[]string{"result"}, // "success", "error", "cache"
	)

	// Worker Metrics
	PriceRefreshTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeca_price_refresh_total",
			Help: "Total number of market prices refreshed",
		},
	)

	SnapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeca_value_snapshots_total",
			Help: "Total number of inventory value snapshots recorded",
		},
	)
)
