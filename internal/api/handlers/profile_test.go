package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/config"
	"jobscout/internal/extractor"
	"jobscout/internal/providers"
	"jobscout/pkg/models"
)

func postUpload(t *testing.T, handler echo.HandlerFunc, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/extract", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	return rec
}

func newExtractHandler(t *testing.T) echo.HandlerFunc {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.LLM.APIKey = ""
	return ExtractProfileHandler(cfg, extractor.NewDocumentExtractor(), extractor.NewProfileExtractor(cfg))
}

func TestExtractProfileRejectsMissingFile(t *testing.T) {
	handler := newExtractHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/extract", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "missing_file", resp.Error)
}

func TestExtractProfileRejectsUnsupportedFormat(t *testing.T) {
	handler := newExtractHandler(t)

	rec := postUpload(t, handler, "resume.pdf", "%PDF-1.4 irrelevant")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unsupported_format", resp.Error)
}

func TestExtractProfileRejectsEmptyDocument(t *testing.T) {
	handler := newExtractHandler(t)

	rec := postUpload(t, handler, "resume.txt", "   \n ")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no_extractable_text", resp.Error)
}

func TestExtractProfileWithoutLLMKeyIsUnavailable(t *testing.T) {
	handler := newExtractHandler(t)

	rec := postUpload(t, handler, "resume.txt", strings.Repeat("Backend engineer at Acme. ", 10))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "service_unavailable", resp.Error)
}

func TestProvidersHandlerReportsConfiguration(t *testing.T) {
	registry := providers.NewRegistry(providers.NewLimiter(60), nil, 0,
		&stubProvider{name: "alpha", configured: true},
		&stubProvider{name: "beta", configured: false},
	)
	handler := ProvidersHandler(registry)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProvidersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Available)
	require.Len(t, resp.Providers, 2)
	assert.Equal(t, "alpha", resp.Providers[0].Name)
	assert.True(t, resp.Providers[0].Configured)
}
