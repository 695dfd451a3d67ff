package remotive

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

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Providers.Remotive.Enabled = true
	cfg.Search.MaxPerProvider = 10
	c := New(cfg)
	c.SetBaseURL(serverURL)
	return c
}

func TestSearchNormalizesListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "go developer", r.URL.Query().Get("search"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"jobs": [
				{
					"url": "https://remotive.com/jobs/1",
					"title": "  Go  Developer ",
					"company_name": "Acme",
					"job_type": "full_time",
					"publication_date": "2024-05-01T10:00:00",
					"candidate_required_location": "Worldwide",
					"salary": "",
					"description": "<p>Build services in Go.</p>"
				},
				{
					"url": "https://remotive.com/jobs/2",
					"title": "",
					"company_name": "NoTitle Inc"
				}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	listings, err := client.Search(context.Background(), "go developer", models.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, listings, 1)

	got := listings[0]
	assert.Equal(t, "Go Developer", got.Title)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "Worldwide", got.Location)
	assert.Equal(t, "remotive", got.Source)
	assert.Equal(t, "Salary not specified", got.Salary)
	assert.Equal(t, "Build services in Go.", got.Description)
}

func TestSearchDefaultsLocationToRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs":[{"url":"u","title":"Engineer","company_name":"Acme"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	listings, err := client.Search(context.Background(), "engineer", models.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Remote", listings[0].Location)
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Search(context.Background(), "engineer", models.SearchFilters{})
	require.Error(t, err)

	var pe *providers.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, providers.ErrKindHTTP, pe.Kind)
}

func TestSearchParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs": not-json`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Search(context.Background(), "engineer", models.SearchFilters{})
	require.Error(t, err)

	var pe *providers.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, providers.ErrKindParse, pe.Kind)
}

func TestSearchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"jobs":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "engineer", models.SearchFilters{})
	require.Error(t, err)

	var pe *providers.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, providers.ErrKindTimeout, pe.Kind)
}

func TestConfigured(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	cfg.Providers.Remotive.Enabled = true
	assert.True(t, New(cfg).Configured())

	cfg.Providers.Remotive.Enabled = false
	assert.False(t, New(cfg).Configured())
}
