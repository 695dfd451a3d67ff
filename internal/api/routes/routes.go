package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobscout/internal/api/handlers"
	"jobscout/internal/api/middleware"
	"jobscout/internal/cache"
	"jobscout/internal/config"
	"jobscout/internal/extractor"
	"jobscout/internal/providers"
	"jobscout/internal/search"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, registry *providers.Registry, orch *search.Orchestrator, store *cache.Store, docs *extractor.DocumentExtractor, profiles *extractor.ProfileExtractor) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// The search stream owns its deadline; the generic timeout only covers
	// the plain request/response routes.
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, "/api/v1/search"))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(cfg, store, registry))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(cfg, registry))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.POST("/search", handlers.SearchHandler(cfg, registry, orch))
		v1.GET("/providers", handlers.ProvidersHandler(registry))

		profile := v1.Group("/profile")
		{
			profile.POST("/extract", handlers.ExtractProfileHandler(cfg, docs, profiles))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "jobscout",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
