package api

import (
	"mime"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ymatsuda/card-inventory/internal/api/handlers"
	"github.com/ymatsuda/card-inventory/internal/metrics"
	"github.com/ymatsuda/card-inventory/internal/services"
	"github.com/ymatsuda/card-inventory/internal/webcache"
)

func SetupRouter(tcgService *services.PokemonTCGService, priceWorker *services.PriceRefreshWorker, snapshotService *services.SnapshotService, archiveService *services.UploadArchiveService) *gin.Engine {
	router := gin.Default()
	router.Use(metricsMiddleware())

	// Get frontend dist path from env
	frontendPath := os.Getenv("FRONTEND_DIST_PATH")
	serveFrontend := frontendPath != "" && dirExists(frontendPath)

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false // Explicitly set
	router.Use(cors.New(config))

	// Initialize handlers
	cardHandler := handlers.NewCardHandler(archiveService)
	inventoryHandler := handlers.NewInventoryHandler(snapshotService)
	priceHandler := handlers.NewPriceHandler(priceWorker)
	tcgHandler := handlers.NewPokemonTCGHandler(tcgService)

	// API routes
	api := router.Group("/api")
	{
		// Card routes
		cards := api.Group("/cards")
		{
			cards.GET("/", cardHandler.ListCards)
			cards.POST("/", cardHandler.CreateCard)
			cards.GET("/template", cardHandler.DownloadTemplate)
			cards.POST("/bulk-upload", cardHandler.BulkUpload)

			// Inventory routes (nested under /cards for wire compatibility
			// with the original client)
			cards.GET("/inventory/", inventoryHandler.ListInventory)
			cards.POST("/inventory/", inventoryHandler.CreateInventory)
			cards.PUT("/inventory/:id", inventoryHandler.UpdateInventory)
			cards.GET("/inventory/stats", inventoryHandler.GetStats)
			cards.GET("/inventory/value-history", inventoryHandler.GetValueHistory)
			cards.GET("/inventory/export", inventoryHandler.ExportInventory)

			cards.GET("/:id", cardHandler.GetCard)
			cards.PUT("/:id", cardHandler.UpdateCard)
			cards.DELETE("/:id", cardHandler.DeleteCard)
			cards.GET("/:id/price-history", priceHandler.GetPriceHistory)
			cards.POST("/:id/price-history", priceHandler.CreatePriceHistory)
			cards.GET("/:id/price-stats", priceHandler.GetPriceStats)
			cards.POST("/:id/refresh-price", priceHandler.RefreshCardPrice)
		}

		// Price routes
		prices := api.Group("/prices")
		{
			prices.GET("/status", priceHandler.GetPriceStatus)
		}

		// External catalog routes
		tcg := api.Group("/pokemon-tcg")
		{
			tcg.GET("/search", tcgHandler.SearchCards)
			tcg.GET("/card/:id", tcgHandler.GetCard)
			tcg.GET("/sets", tcgHandler.GetSets)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve frontend shell through the versioned asset cache
	if serveFrontend {
		cacheVersion := os.Getenv("ASSET_CACHE_VERSION")
		if cacheVersion == "" {
			cacheVersion = "pokemon-inventory-v1"
		}

		registry := webcache.NewRegistry()
		cache := registry.Open(cacheVersion, frontendPath)
		if err := cache.Install(); err != nil {
			// Serve from disk until the dist directory is complete
			gin.DefaultErrorWriter.Write([]byte("asset cache install failed: " + err.Error() + "\n"))
		} else {
			cache.Activate()
		}

		for _, urlPath := range webcache.PrecachePaths {
			router.GET(urlPath, assetHandler(cache, urlPath))
		}

		// SPA fallback - serve the document root for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			assetHandler(cache, "/")(c)
		})
	}

	return router
}

func assetHandler(cache *webcache.Cache, urlPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := cache.Serve(urlPath)
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, contentTypeFor(urlPath), data)
	}
}

func contentTypeFor(urlPath string) string {
	if urlPath == "/" {
		return "text/html; charset=utf-8"
	}
	if ct := mime.TypeByExtension(path.Ext(urlPath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// metricsMiddleware records request counts and latency per route template.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		routePath := c.FullPath()
		if routePath == "" {
			routePath = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, routePath, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, routePath).Observe(time.Since(start).Seconds())
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
