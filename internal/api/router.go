package api

import (
	"github.com/Conceptual-Machines/tuning-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/tuning-api/internal/api/middleware"
	"github.com/Conceptual-Machines/tuning-api/internal/config"
	"github.com/Conceptual-Machines/tuning-api/internal/metrics"
	"github.com/Conceptual-Machines/tuning-api/internal/presets"
	"github.com/Conceptual-Machines/tuning-api/internal/services"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(cw))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	router.MaxMultipartMemory = cfg.MaxUploadBytes

	loader := presets.NewLoader()
	converter := services.NewConverter(cfg.BatchWorkers)
	counters := metrics.NewCounters()

	// Health check
	healthHandler := handlers.NewHealthHandler(loader)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(counters, version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	v1.Use(apimiddleware.MaxBodySize(cfg.MaxUploadBytes))
	if cfg.IsGatewayMode() {
		v1.Use(apimiddleware.GatewayAuth())
	} else {
		v1.Use(apimiddleware.NoAuth())
	}
	{
		tuningHandler := handlers.NewTuningHandler()
		v1.POST("/intervals/parse", tuningHandler.ParseIntervals)
		v1.POST("/scales/parse", tuningHandler.ParseScale)
		v1.POST("/scales/format", tuningHandler.FormatScale)
		v1.POST("/keymaps/parse", tuningHandler.ParseKeymap)
		v1.GET("/keymaps/default", tuningHandler.DefaultKeymap)

		curveHandler := handlers.NewCurveHandler(converter, loader, cw, counters)
		v1.POST("/curves", curveHandler.Generate)

		presetHandler := handlers.NewPresetHandler(loader)
		v1.GET("/presets", presetHandler.List)
		v1.GET("/presets/:name", presetHandler.Get)
	}

	return router
}
