package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/config"
	"jobscout/internal/providers"
	"jobscout/internal/scoring"
	"jobscout/internal/stream"
	"jobscout/pkg/models"
)

type stubProvider struct {
	name     string
	listings []models.Listing
	err      error
	delay    time.Duration
}

func (s *stubProvider) Name() string     { return s.name }
func (s *stubProvider) Configured() bool { return true }

func (s *stubProvider) Search(ctx context.Context, query string, filters models.SearchFilters) ([]models.Listing, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.listings, s.err
}

func listingsFor(source string, titles ...string) []models.Listing {
	out := make([]models.Listing, 0, len(titles))
	for _, title := range titles {
		out = append(out, models.Listing{
			Title:       title,
			Company:     "Acme",
			Source:      source,
			Description: "Backend work in Go.",
		})
	}
	return out
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Search.SessionTimeout = 2 * time.Second
	cfg.Search.ProviderTimeout = 500 * time.Millisecond
	cfg.Search.ScoreTimeout = 100 * time.Millisecond
	cfg.LLM.APIKey = ""
	return cfg
}

func runSearch(t *testing.T, cfg *config.Config, adapters ...providers.Provider) []map[string]interface{} {
	t.Helper()

	registry := providers.NewRegistry(providers.NewLimiter(600), nil, time.Minute, adapters...)
	orch := NewOrchestrator(registry, scoring.NewManager(cfg), cfg)

	var buf bytes.Buffer
	em := stream.NewEmitter(&buf, nil)

	req := models.SearchRequest{
		Profile: models.CandidateProfile{
			TechnicalSkills: []string{"Go"},
			WorkExperience:  []models.WorkExperience{{Title: "Backend Engineer", Company: "Acme"}},
		},
	}
	orch.Run(context.Background(), em, req, "req-test")

	return parseFrames(t, buf.String())
}

func parseFrames(t *testing.T, raw string) []map[string]interface{} {
	t.Helper()
	var frames []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSuffix(raw, "\n"), "\n") {
		require.NotEmpty(t, line)
		var frame map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &frame), "bad frame: %q", line)
		frames = append(frames, frame)
	}
	return frames
}

func framesOfType(frames []map[string]interface{}, eventType string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, f := range frames {
		if f["type"] == eventType {
			out = append(out, f)
		}
	}
	return out
}

func TestRunFastProviderAndFailingProvider(t *testing.T) {
	cfg := testConfig(t)
	frames := runSearch(t, cfg,
		&stubProvider{name: "alpha", listings: listingsFor("alpha", "Go Engineer", "Backend Engineer", "Platform Engineer")},
		&stubProvider{name: "beta", err: providers.NewProviderError("beta", providers.ErrKindHTTP, errors.New("upstream 500"))},
	)

	assert.Equal(t, EventSearchStarted, frames[0]["type"])
	assert.Equal(t, EventSearchComplete, frames[len(frames)-1]["type"])

	found := framesOfType(frames, EventJobsFound)
	require.Len(t, found, 1)
	assert.Equal(t, "alpha", found[0]["provider"])
	assert.Equal(t, float64(3), found[0]["count"])
	assert.Equal(t, float64(3), found[0]["running_total"])

	errs := framesOfType(frames, EventScraperError)
	require.Len(t, errs, 1)
	assert.Equal(t, "beta", errs[0]["provider"])
	assert.Equal(t, "http", errs[0]["kind"])

	complete := framesOfType(frames, EventSearchComplete)
	require.Len(t, complete, 1)
	assert.Equal(t, float64(3), complete[0]["total_count"])
}

func TestRunEmitsExactlyOneTerminalFrame(t *testing.T) {
	cfg := testConfig(t)
	frames := runSearch(t, cfg,
		&stubProvider{name: "alpha", listings: listingsFor("alpha", "Go Engineer")},
		&stubProvider{name: "beta", listings: nil},
		&stubProvider{name: "gamma", err: providers.NewProviderError("gamma", providers.ErrKindParse, errors.New("bad json"))},
	)

	terminals := 0
	for _, f := range frames {
		if f["type"] == EventSearchComplete || f["type"] == EventError {
			terminals++
		}
	}
	assert.Equal(t, 1, terminals)
	assert.Equal(t, EventSearchComplete, frames[len(frames)-1]["type"])
}

func TestRunProviderTimeoutIsNonFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Search.ProviderTimeout = 50 * time.Millisecond

	frames := runSearch(t, cfg,
		&stubProvider{name: "alpha", listings: listingsFor("alpha", "Go Engineer", "Backend Engineer")},
		&stubProvider{name: "slow", delay: time.Second},
	)

	errs := framesOfType(frames, EventScraperError)
	require.Len(t, errs, 1)
	assert.Equal(t, "slow", errs[0]["provider"])
	assert.Equal(t, "timeout", errs[0]["kind"])

	complete := framesOfType(frames, EventSearchComplete)
	require.Len(t, complete, 1)
	assert.Equal(t, float64(2), complete[0]["total_count"])
}

func TestRunSessionDeadlineKeepsPartialResults(t *testing.T) {
	cfg := testConfig(t)
	cfg.Search.SessionTimeout = 150 * time.Millisecond
	cfg.Search.ProviderTimeout = 10 * time.Second

	frames := runSearch(t, cfg,
		&stubProvider{name: "fast", listings: listingsFor("fast", "Go Engineer")},
		&stubProvider{name: "stuck", delay: 10 * time.Second},
	)

	found := framesOfType(frames, EventJobsFound)
	require.Len(t, found, 1)
	assert.Equal(t, "fast", found[0]["provider"])

	errs := framesOfType(frames, EventScraperError)
	require.Len(t, errs, 1)
	assert.Equal(t, "stuck", errs[0]["provider"])
	assert.Equal(t, "timeout", errs[0]["kind"])

	messages := framesOfType(frames, EventUserMessage)
	require.Len(t, messages, 1)

	complete := framesOfType(frames, EventSearchComplete)
	require.Len(t, complete, 1)
	assert.Equal(t, float64(1), complete[0]["total_count"])
	assert.Equal(t, EventSearchComplete, frames[len(frames)-1]["type"])
}

func TestRunEmptyProviderEmitsScraperComplete(t *testing.T) {
	cfg := testConfig(t)
	frames := runSearch(t, cfg,
		&stubProvider{name: "alpha", listings: nil},
	)

	completes := framesOfType(frames, EventScraperComplete)
	require.Len(t, completes, 1)
	assert.Equal(t, "alpha", completes[0]["provider"])
	assert.Equal(t, float64(0), completes[0]["count"])

	assert.Empty(t, framesOfType(frames, EventJobsFound))
	assert.Empty(t, framesOfType(frames, EventScraperError))
	assert.Equal(t, EventSearchComplete, frames[len(frames)-1]["type"])
}

type panicScorer struct{}

func (panicScorer) ScoreBatch(ctx context.Context, listings []models.Listing, profile models.CandidateProfile) []models.Listing {
	panic("scorer exploded")
}

func TestRunScorerPanicEmitsErrorTerminal(t *testing.T) {
	cfg := testConfig(t)
	registry := providers.NewRegistry(providers.NewLimiter(600), nil, time.Minute,
		&stubProvider{name: "alpha", listings: listingsFor("alpha", "Go Engineer")},
	)
	orch := NewOrchestrator(registry, panicScorer{}, cfg)

	var buf bytes.Buffer
	em := stream.NewEmitter(&buf, nil)

	require.NotPanics(t, func() {
		orch.Run(context.Background(), em, models.SearchRequest{
			Profile: models.CandidateProfile{TechnicalSkills: []string{"Go"}},
		}, "req-panic")
	})

	frames := parseFrames(t, buf.String())
	terminal := frames[len(frames)-1]
	assert.Equal(t, EventError, terminal["type"])
	assert.Equal(t, "internal_error", terminal["code"])
	assert.Empty(t, framesOfType(frames, EventSearchComplete))
}

type panickyProvider struct{ name string }

func (p *panickyProvider) Name() string     { return p.name }
func (p *panickyProvider) Configured() bool { return true }

func (p *panickyProvider) Search(ctx context.Context, query string, filters models.SearchFilters) ([]models.Listing, error) {
	panic("adapter exploded")
}

func TestRunProviderPanicIsNonFatal(t *testing.T) {
	cfg := testConfig(t)
	frames := runSearch(t, cfg,
		&stubProvider{name: "alpha", listings: listingsFor("alpha", "Go Engineer")},
		&panickyProvider{name: "beta"},
	)

	errs := framesOfType(frames, EventScraperError)
	require.Len(t, errs, 1)
	assert.Equal(t, "beta", errs[0]["provider"])

	complete := framesOfType(frames, EventSearchComplete)
	require.Len(t, complete, 1)
	assert.Equal(t, float64(1), complete[0]["total_count"])
}

func TestRunDeduplicatesAcrossProviders(t *testing.T) {
	cfg := testConfig(t)
	frames := runSearch(t, cfg,
		&stubProvider{name: "alpha", listings: []models.Listing{
			{Title: "Go Engineer", Company: "Acme", Source: "alpha"},
			{Title: "go  engineer", Company: "ACME", Source: "alpha"},
		}},
	)

	// Running total counts raw batches; the terminal set is deduplicated.
	found := framesOfType(frames, EventJobsFound)
	require.Len(t, found, 1)
	assert.Equal(t, float64(2), found[0]["running_total"])

	complete := framesOfType(frames, EventSearchComplete)
	require.Len(t, complete, 1)
	assert.Equal(t, float64(1), complete[0]["total_count"])
}

func TestRunScoresListingsBeforeEmitting(t *testing.T) {
	cfg := testConfig(t)
	frames := runSearch(t, cfg,
		&stubProvider{name: "alpha", listings: []models.Listing{{
			Title:       "Senior Backend Engineer",
			Company:     "Acme",
			Source:      "alpha",
			Description: "Go services at scale.",
		}}},
	)

	found := framesOfType(frames, EventJobsFound)
	require.Len(t, found, 1)

	listings, ok := found[0]["listings"].([]interface{})
	require.True(t, ok)
	require.Len(t, listings, 1)

	listing, ok := listings[0].(map[string]interface{})
	require.True(t, ok)
	pct, ok := listing["match_percentage"].(float64)
	require.True(t, ok, "listing should carry a match percentage")
	assert.Greater(t, pct, float64(0))
}
