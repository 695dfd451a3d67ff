package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/config"
)

func TestExtractProfileRejectsShortText(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.LLM.APIKey = "test-key"

	pe := NewProfileExtractor(cfg)
	_, err = pe.ExtractProfile(context.Background(), "too short")
	require.ErrorIs(t, err, ErrTextTooShort)
}

func TestExtractProfileWithoutAPIKey(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.LLM.APIKey = ""

	pe := NewProfileExtractor(cfg)
	_, err = pe.ExtractProfile(context.Background(), strings.Repeat("experienced engineer ", 20))
	require.ErrorIs(t, err, ErrServiceUnavailable)
}

func apiError(t *testing.T, status int) *anthropic.Error {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil)
	require.NoError(t, err)
	return &anthropic.Error{
		StatusCode: status,
		Request:    req,
		Response:   &http.Response{StatusCode: status},
	}
}

func TestClassifyAPIErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"rate limited", apiError(t, http.StatusTooManyRequests), ErrRateLimited},
		{"rate limited wrapped", fmt.Errorf("request failed: %w", apiError(t, http.StatusTooManyRequests)), ErrRateLimited},
		{"overloaded", apiError(t, 529), ErrServiceUnavailable},
		{"service down", apiError(t, http.StatusServiceUnavailable), ErrServiceUnavailable},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyAPIError(tt.err), tt.want)
		})
	}
}
