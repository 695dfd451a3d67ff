package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobscout/internal/cache"
	"jobscout/internal/config"
	"jobscout/internal/logging"
	"jobscout/internal/providers"
	"jobscout/pkg/models"
)

var startTime = time.Now()

const serviceVersion = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logger := logging.GetGlobalLogger()
	logger.Debug("Health check requested", map[string]interface{}{"request_id": requestID(c)})

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// ReadinessHandler handles readiness probe requests. Redis being down does
// not fail readiness; the cache degrades to always-miss.
func ReadinessHandler(cfg *config.Config, store *cache.Store, registry *providers.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "ok"}

		if err := store.Ping(c.Request().Context()); err != nil {
			checks["redis"] = "unavailable"
		} else {
			checks["redis"] = "ok"
		}

		if cfg.LLM.APIKey != "" {
			checks["llm"] = "configured"
		} else {
			checks["llm"] = "not_configured"
		}

		status := "ready"
		httpStatus := http.StatusOK
		if len(registry.Configured()) == 0 {
			checks["providers"] = "none_configured"
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["providers"] = "ok"
		}

		return c.JSON(httpStatus, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status
func StatusHandler(cfg *config.Config, registry *providers.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "operational"}

		for _, p := range registry.All() {
			if p.Configured() {
				checks["provider_"+p.Name()] = "configured"
			} else {
				checks["provider_"+p.Name()] = "not_configured"
			}
		}

		if cfg.LLM.APIKey != "" {
			checks["scoring"] = "llm"
		} else {
			checks["scoring"] = "keyword"
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}
