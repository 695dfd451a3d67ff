package scoring

import (
	"context"
	"time"

	"jobscout/internal/config"
	"jobscout/internal/logging"
	"jobscout/pkg/models"
)

// Manager owns scorer selection and batch scoring. It prefers the LLM
// scorer when an API key is configured and falls back to the keyword
// scorer per listing when the LLM fails, so a scoring outage never drops
// listings from a search.
type Manager struct {
	primary      Scorer
	fallback     Scorer
	scoreTimeout time.Duration
	logger       logging.Logger
}

// NewManager selects scorers based on configuration
func NewManager(cfg *config.Config) *Manager {
	m := &Manager{
		fallback:     NewKeywordScorer(),
		scoreTimeout: cfg.Search.ScoreTimeout,
		logger:       logging.GetGlobalLogger().WithField("component", "scoring_manager"),
	}

	if cfg.LLM.APIKey != "" {
		m.primary = NewClaudeScorer(cfg)
		m.logger.Info("Scoring with LLM, keyword fallback enabled", map[string]interface{}{
			"model": cfg.LLM.Model,
		})
	} else {
		m.logger.Info("No LLM API key configured, scoring with keyword overlap", nil)
	}

	return m
}

// ActiveScorer returns the name of the scorer batches start with
func (m *Manager) ActiveScorer() string {
	if m.primary != nil {
		return m.primary.Name()
	}
	return m.fallback.Name()
}

// ScoreBatch scores every listing in place. Listings stay in the batch even
// when both scorers fail; they keep a zero match percentage instead.
func (m *Manager) ScoreBatch(ctx context.Context, listings []models.Listing, profile models.CandidateProfile) []models.Listing {
	for i := range listings {
		if ctx.Err() != nil {
			m.logger.Warn("Scoring aborted, session deadline reached", map[string]interface{}{
				"scored":    i,
				"remaining": len(listings) - i,
			})
			break
		}
		listings[i].ApplyMatch(m.scoreOne(ctx, listings[i], profile))
	}
	return listings
}

func (m *Manager) scoreOne(ctx context.Context, listing models.Listing, profile models.CandidateProfile) *models.MatchResult {
	scoreCtx, cancel := context.WithTimeout(ctx, m.scoreTimeout)
	defer cancel()

	if m.primary != nil {
		result, err := m.primary.ScoreListing(scoreCtx, listing, profile)
		if err == nil {
			return result
		}
		m.logger.Warn("Primary scorer failed, using fallback", map[string]interface{}{
			"scorer":  m.primary.Name(),
			"listing": listing.Title,
			"error":   err.Error(),
		})
	}

	result, err := m.fallback.ScoreListing(scoreCtx, listing, profile)
	if err != nil {
		m.logger.Error("Fallback scorer failed", map[string]interface{}{
			"listing": listing.Title,
			"error":   err.Error(),
		})
		return nil
	}
	return result
}
