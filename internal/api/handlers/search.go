package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"jobscout/internal/config"
	"jobscout/internal/logging"
	"jobscout/internal/providers"
	"jobscout/internal/search"
	"jobscout/internal/stream"
	"jobscout/pkg/models"
	"jobscout/pkg/utils"
)

var validate = validator.New()

// requestID returns the ID set by the validation middleware, minting one
// when the handler is called outside the middleware chain
func requestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}

// SearchHandler runs one streamed search session. Validation failures are
// rejected with a plain JSON error before the stream opens; once the first
// frame is written the session always ends with a terminal frame instead.
func SearchHandler(cfg *config.Config, registry *providers.Registry, orch *search.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		var req models.SearchRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind search request", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.Error("Search request validation failed", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		if !req.Profile.HasSignal() {
			validationErr := utils.NewValidationError("profile has no searchable fields")
			return c.JSON(validationErr.Code, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   validationErr.Error(),
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		if len(registry.Configured()) == 0 {
			configErr := utils.NewConfigurationError("no search providers are configured")
			return c.JSON(configErr.Code, models.ErrorResponse{
				Error:     "no_providers_available",
				Message:   configErr.Error(),
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Opening search stream", map[string]interface{}{
			"providers": len(registry.Configured()),
		})

		resp := c.Response()
		resp.Header().Set(echo.HeaderContentType, "application/x-ndjson")
		resp.Header().Set("Cache-Control", "no-cache")
		resp.WriteHeader(http.StatusOK)

		em := stream.NewEmitter(resp, resp)
		orch.Run(c.Request().Context(), em, req, reqID)
		return nil
	}
}
