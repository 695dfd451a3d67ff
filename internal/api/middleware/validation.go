package middleware

import (
	"net/http"
	"time"

	"jobscout/pkg/models"
	"jobscout/pkg/utils"

	"github.com/labstack/echo/v4"
)

// maxUploadBytes bounds resume uploads; anything larger than this is not a
// resume.
const maxUploadBytes = 5 * 1024 * 1024

// RequestValidation middleware validates incoming requests
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Add request ID to context
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			if c.Request().Method == http.MethodPost {
				if c.Request().ContentLength > maxUploadBytes {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
			}

			return next(c)
		}
	}
}
