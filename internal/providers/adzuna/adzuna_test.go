package adzuna

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/config"
	"jobscout/internal/providers"
	"jobscout/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Providers.Adzuna.AppID = "id"
	cfg.Providers.Adzuna.AppKey = "key"

	client := New(cfg)
	client.SetBaseURL(server.URL)
	return client
}

const sampleResponse = `{
  "count": 2,
  "results": [
    {
      "id": "1",
      "title": "Senior Go  Engineer",
      "description": "<p>Build distributed systems in Go.</p>",
      "company": {"display_name": "Acme"},
      "location": {"display_name": "Berlin, Germany"},
      "salary_min": 80000,
      "salary_max": 100000,
      "redirect_url": "https://example.com/1",
      "created": "2024-03-01T12:00:00Z",
      "contract_time": "full_time"
    },
    {
      "id": "2",
      "title": "",
      "description": "malformed record without a title",
      "company": {"display_name": "Globex"}
    },
    {
      "id": "3",
      "title": "Backend Developer",
      "description": "APIs",
      "company": {"display_name": "Globex"},
      "location": {"display_name": "Remote"},
      "redirect_url": "https://example.com/3",
      "created": "2024-03-02"
    }
  ]
}`

func TestSearch_NormalizesListings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "go engineer", r.URL.Query().Get("what"))
		assert.Equal(t, "id", r.URL.Query().Get("app_id"))
		w.Write([]byte(sampleResponse))
	})

	listings, err := client.Search(context.Background(), "go engineer", models.SearchFilters{})
	require.NoError(t, err)

	// Malformed record is skipped, not fatal
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "Senior Go Engineer", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "adzuna", first.Source)
	assert.Equal(t, "$80k - $100k", first.Salary)
	assert.Equal(t, "Full-time", first.EmploymentType)
	assert.Equal(t, "Build distributed systems in Go.", first.Description)
	assert.Equal(t, 2024, first.DatePosted.Year())

	second := listings[1]
	assert.Equal(t, "Salary not specified", second.Salary)
	assert.Empty(t, second.EmploymentType)
}

func TestSearch_FiltersForwarded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "London", r.URL.Query().Get("where"))
		assert.Equal(t, "60000", r.URL.Query().Get("salary_min"))
		w.Write([]byte(`{"count":0,"results":[]}`))
	})

	listings, err := client.Search(context.Background(), "go", models.SearchFilters{
		Region:    "London",
		MinSalary: 60000,
	})
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestSearch_UnauthorizedMapsToProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Search(context.Background(), "go", models.SearchFilters{})
	require.Error(t, err)

	var pe *providers.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, providers.ErrKindUnauthorized, pe.Kind)
	assert.Equal(t, "adzuna", pe.Provider)
}

func TestSearch_BadJSONMapsToParseError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})

	_, err := client.Search(context.Background(), "go", models.SearchFilters{})

	var pe *providers.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, providers.ErrKindParse, pe.Kind)
}

func TestSearch_TimeoutMapsToTimeoutError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"count":0,"results":[]}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "go", models.SearchFilters{})

	var pe *providers.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, providers.ErrKindTimeout, pe.Kind)
}

func TestConfigured(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.False(t, New(cfg).Configured())

	cfg.Providers.Adzuna.AppID = "id"
	cfg.Providers.Adzuna.AppKey = "key"
	assert.True(t, New(cfg).Configured())
}
