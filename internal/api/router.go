// Package api wires the choreosync ops HTTP surface: health probes, the
// Prometheus metrics endpoint, and read-only catalog/status routes.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rashadism/choreosync/internal/api/handlers"
	"github.com/rashadism/choreosync/internal/api/middleware"
	"github.com/rashadism/choreosync/internal/metrics"
)

// RouterConfig holds configuration for setting up the HTTP router.
type RouterConfig struct {
	// Logger is the Zap logger for request logging.
	Logger *zap.Logger

	// Store is the catalog read surface (also pinged by readiness checks).
	Store CatalogStore

	// Tracker exposes the latest reconciliation run result.
	Tracker handlers.RunStatusSource
}

// CatalogStore is the catalog surface the router needs: entity reads plus
// connectivity checks.
type CatalogStore interface {
	handlers.EntityReader
	handlers.Pinger
}

// SetupRouter creates and configures the Gin HTTP router with all routes and
// middleware.
func SetupRouter(config *RouterConfig) *gin.Engine {
	router := gin.New()

	// Recovery first, metrics early so every request is counted.
	router.Use(gin.Recovery())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(config.Logger))

	healthHandler := handlers.NewHealthHandler(config.Store)
	entityHandler := handlers.NewEntityHandler(config.Store)
	statusHandler := handlers.NewStatusHandler(config.Tracker)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		metrics.Registry,
		promhttp.HandlerOpts{},
	)))

	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Liveness)
		health.GET("/ready", healthHandler.Readiness)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitByIP(50.0, 100))
	{
		v1.GET("/entities", entityHandler.List)
		v1.GET("/entities/counts", entityHandler.Counts)
		v1.GET("/entities/by-ref", entityHandler.GetByRef)
		v1.GET("/entities/:kind/:namespace/:name", entityHandler.Get)
		v1.GET("/status", statusHandler.Status)
	}

	return router
}
