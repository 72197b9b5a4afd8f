// Package http assembles the gin route tree and the HTTP server lifecycle
// around the handler and middleware packages.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SeaGuard-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/SeaGuard-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies needed
// to build the complete route tree.
type RouterConfig struct {
	ExtractHandler *handlers.ExtractHandler
	AssessHandler  *handlers.AssessHandler
	WarningHandler *handlers.WarningHandler
	HealthHandler  *handlers.HealthHandler

	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector prometheus.MetricsCollector

	// Mode is the gin mode: debug, release, or test. Empty means release.
	Mode string
}

// NewRouter builds the full route tree: probe endpoints, the metrics
// endpoint, and the versioned API group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	mode := cfg.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	r.Use(middleware.Metrics(cfg.Metrics))

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	api := r.Group("/api/v1")
	{
		if cfg.ExtractHandler != nil {
			api.POST("/coordinates/extract", cfg.ExtractHandler.Extract)
		}
		if cfg.AssessHandler != nil {
			api.POST("/assess/vessel", cfg.AssessHandler.AssessVessel)
			api.POST("/assess/fleet", cfg.AssessHandler.AssessFleet)
			api.GET("/hazard-zones", cfg.AssessHandler.ListHazardZones)
		}
		if cfg.WarningHandler != nil {
			api.GET("/warnings", cfg.WarningHandler.List)
			api.GET("/warnings/stats", cfg.WarningHandler.Stats)
			api.GET("/warnings/:id", cfg.WarningHandler.Get)
			api.POST("/notifications/dispatch", cfg.WarningHandler.Dispatch)
		}
	}

	return r
}
