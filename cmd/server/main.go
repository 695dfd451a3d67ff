package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobscout/internal/api/routes"
	"jobscout/internal/cache"
	"jobscout/internal/config"
	"jobscout/internal/extractor"
	"jobscout/internal/logging"
	"jobscout/internal/providers"
	"jobscout/internal/providers/adzuna"
	"jobscout/internal/providers/jooble"
	"jobscout/internal/providers/remotive"
	"jobscout/internal/scoring"
	"jobscout/internal/search"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting jobscout", map[string]interface{}{
		"port": cfg.Server.Port,
	})

	// Result cache; degrades to always-miss when Redis is unreachable
	store := cache.NewStore(cfg)
	defer store.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn("Redis unreachable, result caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	pingCancel()

	// Provider registry with shared rate limiting
	limiter := providers.NewLimiter(cfg.Search.RateLimit)
	registry := providers.NewRegistry(limiter, store, cfg.Search.CacheTTL,
		adzuna.New(cfg),
		jooble.New(cfg),
		remotive.New(cfg),
	)
	logger.Info("Provider registry initialized", map[string]interface{}{
		"total":      len(registry.All()),
		"configured": len(registry.Configured()),
	})

	// Scoring and extraction
	scorer := scoring.NewManager(cfg)
	orch := search.NewOrchestrator(registry, scorer, cfg)
	docs := extractor.NewDocumentExtractor()
	profiles := extractor.NewProfileExtractor(cfg)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	routes.SetupRoutes(e, cfg, registry, orch, store, docs, profiles)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete", nil)
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed to start", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
