package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobscout/internal/config"
	"jobscout/internal/extractor"
	"jobscout/internal/logging"
	"jobscout/pkg/models"
)

// ExtractProfileHandler turns an uploaded resume document into a structured
// candidate profile
func ExtractProfileHandler(cfg *config.Config, docs *extractor.DocumentExtractor, profiles *extractor.ProfileExtractor) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "missing_file",
				Message:   "Upload the resume as multipart field 'file'",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "unreadable_file",
				Message:   "Could not open uploaded file",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "unreadable_file",
				Message:   "Could not read uploaded file",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), cfg.LLM.Timeout)
		defer cancel()

		text, err := docs.ExtractText(ctx, fileHeader.Filename, data)
		if err != nil {
			logger.Warn("Document extraction failed", map[string]interface{}{
				"filename": fileHeader.Filename,
				"error":    err.Error(),
			})
			return c.JSON(documentErrorStatus(err), models.ErrorResponse{
				Error:     documentErrorCode(err),
				Message:   err.Error(),
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		profile, err := profiles.ExtractProfile(ctx, text)
		if err != nil {
			logger.Warn("Profile extraction failed", map[string]interface{}{"error": err.Error()})
			return c.JSON(profileErrorStatus(err), models.ErrorResponse{
				Error:     profileErrorCode(err),
				Message:   err.Error(),
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		if profile.IsEmpty() {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:     "empty_profile",
				Message:   "No candidate information could be extracted from the document",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Profile extraction completed", map[string]interface{}{
			"filename":        fileHeader.Filename,
			"skills":          len(profile.TechnicalSkills),
			"processing_time": time.Since(startTime).String(),
		})

		return c.JSON(http.StatusOK, models.ExtractProfileResponse{
			Success:        true,
			Profile:        profile,
			ProcessingTime: time.Since(startTime),
			RequestID:      reqID,
		})
	}
}

func documentErrorCode(err error) string {
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, extractor.ErrNoExtractableText):
		return "no_extractable_text"
	case errors.Is(err, extractor.ErrCorrupted):
		return "corrupted"
	case errors.Is(err, extractor.ErrTimeout):
		return "timeout"
	default:
		return "extraction_failed"
	}
}

func documentErrorStatus(err error) int {
	if errors.Is(err, extractor.ErrTimeout) {
		return http.StatusGatewayTimeout
	}
	return http.StatusUnprocessableEntity
}

func profileErrorCode(err error) string {
	switch {
	case errors.Is(err, extractor.ErrTextTooShort):
		return "too_short"
	case errors.Is(err, extractor.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, extractor.ErrServiceUnavailable):
		return "service_unavailable"
	default:
		return "extraction_failed"
	}
}

func profileErrorStatus(err error) int {
	switch {
	case errors.Is(err, extractor.ErrTextTooShort):
		return http.StatusUnprocessableEntity
	case errors.Is(err, extractor.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusServiceUnavailable
	}
}
