package search

import (
	"context"
	"fmt"
	"time"

	"jobscout/internal/config"
	"jobscout/internal/logging"
	"jobscout/internal/providers"
	"jobscout/internal/stream"
	"jobscout/pkg/models"
	"jobscout/pkg/utils"
)

// BatchScorer scores a batch of listings in place before they are emitted.
// *scoring.Manager is the production implementation.
type BatchScorer interface {
	ScoreBatch(ctx context.Context, listings []models.Listing, profile models.CandidateProfile) []models.Listing
}

// Orchestrator fans one search out to every configured provider and feeds
// the result stream. Providers settle in any order; the first one back is
// the first one emitted. A provider failure is a status event, never a
// session failure. Exactly one terminal frame goes out per session, even
// when the global deadline cuts providers off mid-flight.
type Orchestrator struct {
	registry *providers.Registry
	scorer   BatchScorer
	cfg      *config.Config
	logger   logging.Logger
}

// NewOrchestrator wires the search fan-out against a provider registry and
// scoring manager
func NewOrchestrator(registry *providers.Registry, scorer BatchScorer, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		scorer:   scorer,
		cfg:      cfg,
		logger:   logging.GetGlobalLogger().WithField("component", "search_orchestrator"),
	}
}

type providerResult struct {
	provider string
	listings []models.Listing
	err      error
	elapsed  time.Duration
}

// Run executes one streamed search session. The emitter must already be
// attached to an open response; Run emits search_started before any
// provider I/O and always closes with exactly one terminal frame.
func (o *Orchestrator) Run(ctx context.Context, em *stream.Emitter, req models.SearchRequest, requestID string) {
	active := o.registry.Configured()
	names := make([]string, len(active))
	for i, p := range active {
		names[i] = p.Name()
	}

	session := NewSession(requestID, names)
	query := req.Query()

	// A panic past this point must not leave the transport open without a
	// terminal frame.
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Search session panicked", map[string]interface{}{
				"request_id": requestID,
				"panic":      fmt.Sprintf("%v", r),
			})
			if session.MarkTerminal() {
				_ = em.Emit(NewErrorEvent("internal_error", "search aborted by an internal error"))
			}
		}
	}()

	sessionCtx, cancel := context.WithTimeout(ctx, o.cfg.Search.SessionTimeout)
	defer cancel()

	o.logger.Info("Search session started", map[string]interface{}{
		"request_id": requestID,
		"query":      query,
		"providers":  len(active),
	})

	if err := em.Emit(NewSearchStartedEvent(requestID, query, names)); err != nil {
		return
	}

	// Buffered to provider count so cancelled workers never block on send.
	results := make(chan providerResult, len(active))
	for _, p := range active {
		_ = em.Emit(NewScraperStartEvent(p.Name()))
		go o.fetch(sessionCtx, p, query, req.Filters, results)
	}

	var collected []models.Listing
	deadlineHit := false

consume:
	for settled := 0; settled < len(active); settled++ {
		select {
		case res := <-results:
			collected = append(collected, o.handleResult(sessionCtx, em, session, res, req.Profile)...)
		case <-sessionCtx.Done():
			deadlineHit = true
			break consume
		}
	}

	if deadlineHit {
		o.logger.Warn("Session deadline reached, finalizing with partial results", map[string]interface{}{
			"request_id": requestID,
			"collected":  len(collected),
		})
		for _, ps := range session.Statuses() {
			if ps.Status == StatusPending {
				session.MarkProvider(ps.Provider, StatusTimedOut, 0)
				_ = em.Emit(NewScraperErrorEvent(ps.Provider, string(providers.ErrKindTimeout),
					"provider did not respond before the search deadline"))
			}
		}
		_ = em.Emit(NewUserMessageEvent("Search deadline reached", "Returning the results collected so far.", "warning"))
	}

	o.finalize(em, session, collected)
}

// fetch runs one provider under its own timeout and reports on the channel.
// A panicking adapter settles as a failed provider instead of killing the
// process.
func (o *Orchestrator) fetch(ctx context.Context, p providers.Provider, query string, filters models.SearchFilters, results chan<- providerResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			results <- providerResult{
				provider: p.Name(),
				err:      providers.NewProviderError(p.Name(), providers.ErrKindHTTP, fmt.Errorf("provider panicked: %v", r)),
				elapsed:  time.Since(start),
			}
		}
	}()

	providerCtx, cancel := context.WithTimeout(ctx, o.cfg.Search.ProviderTimeout)
	defer cancel()

	listings, err := p.Search(providerCtx, query, filters)
	results <- providerResult{
		provider: p.Name(),
		listings: listings,
		err:      err,
		elapsed:  time.Since(start),
	}
}

// handleResult emits the status event for one settled provider and returns
// the listings it contributed
func (o *Orchestrator) handleResult(ctx context.Context, em *stream.Emitter, session *Session, res providerResult, profile models.CandidateProfile) []models.Listing {
	if res.err != nil {
		kind := providers.KindOf(res.err)
		status := StatusFailed
		if kind == providers.ErrKindTimeout {
			status = StatusTimedOut
		}
		session.MarkProvider(res.provider, status, 0)
		o.logger.Warn("Provider failed", map[string]interface{}{
			"provider": res.provider,
			"kind":     string(kind),
			"error":    res.err.Error(),
		})
		_ = em.Emit(NewScraperErrorEvent(res.provider, string(kind), res.err.Error()))
		return nil
	}

	if len(res.listings) == 0 {
		session.MarkProvider(res.provider, StatusSucceeded, 0)
		_ = em.Emit(NewScraperCompleteEvent(res.provider, 0))
		return nil
	}

	scored := o.scorer.ScoreBatch(ctx, res.listings, profile)
	total := session.AddListings(len(scored))
	session.MarkProvider(res.provider, StatusSucceeded, len(scored))

	o.logger.Info("Provider batch emitted", map[string]interface{}{
		"provider":      res.provider,
		"count":         len(scored),
		"running_total": total,
		"elapsed":       utils.FormatDuration(res.elapsed),
	})
	_ = em.Emit(NewJobsFoundEvent(res.provider, scored, total, session.Elapsed()))
	return scored
}

// finalize emits the terminal frame at most once
func (o *Orchestrator) finalize(em *stream.Emitter, session *Session, collected []models.Listing) {
	if !session.MarkTerminal() {
		return
	}

	deduped := models.DedupListings(collected)
	summary := buildSummary(deduped, session)

	o.logger.Info("Search session complete", map[string]interface{}{
		"request_id":  session.RequestID,
		"total_count": len(deduped),
		"elapsed":     fmt.Sprintf("%.2fs", session.Elapsed()),
	})
	_ = em.Emit(NewSearchCompleteEvent(deduped, session.Elapsed(), summary))
}

func buildSummary(listings []models.Listing, session *Session) string {
	succeeded := 0
	total := 0
	for _, ps := range session.Statuses() {
		total++
		if ps.Status == StatusSucceeded {
			succeeded++
		}
	}

	if len(listings) == 0 {
		return fmt.Sprintf("No matching listings found across %d providers.", total)
	}
	return fmt.Sprintf("Found %d listings from %d of %d providers in %.1fs.",
		len(listings), succeeded, total, session.Elapsed())
}
