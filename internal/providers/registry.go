package providers

import (
	"context"
	"fmt"
	"time"

	"jobscout/internal/cache"
	"jobscout/internal/logging"
	"jobscout/pkg/models"
)

// Registry holds every known provider adapter wrapped with rate limiting
// and result caching. Adapters register in a fixed order so provider
// status reports stay stable across runs.
type Registry struct {
	providers []Provider
	limiter   *Limiter
	store     *cache.Store
	cacheTTL  time.Duration
	logger    logging.Logger
}

// NewRegistry wraps the given adapters with the shared limiter and cache
func NewRegistry(limiter *Limiter, store *cache.Store, cacheTTL time.Duration, adapters ...Provider) *Registry {
	r := &Registry{
		limiter:  limiter,
		store:    store,
		cacheTTL: cacheTTL,
		logger:   logging.GetGlobalLogger().WithField("component", "provider_registry"),
	}
	for _, p := range adapters {
		r.providers = append(r.providers, &guardedProvider{inner: p, registry: r})
	}
	return r
}

// All returns every registered provider, configured or not
func (r *Registry) All() []Provider {
	return r.providers
}

// Configured returns the providers that currently have usable credentials
func (r *Registry) Configured() []Provider {
	var out []Provider
	for _, p := range r.providers {
		if p.Configured() {
			out = append(out, p)
		}
	}
	return out
}

// guardedProvider decorates an adapter with the registry's rate limiter,
// circuit breaker, and result cache. The wrapped adapter never sees a
// request its limiter rejected.
type guardedProvider struct {
	inner    Provider
	registry *Registry
}

func (g *guardedProvider) Name() string {
	return g.inner.Name()
}

func (g *guardedProvider) Configured() bool {
	return g.inner.Configured()
}

func (g *guardedProvider) Search(ctx context.Context, query string, filters models.SearchFilters) ([]models.Listing, error) {
	name := g.inner.Name()

	key := cache.Key(name, query, filters)
	if cached, ok := g.registry.store.Get(ctx, key); ok {
		g.registry.logger.Debug("Serving provider results from cache", map[string]interface{}{
			"provider": name,
			"count":    len(cached),
		})
		return cached, nil
	}

	if !g.registry.limiter.Allow(name) {
		return nil, NewProviderError(name, ErrKindHTTP,
			fmt.Errorf("request rejected by rate limiter or circuit breaker"))
	}

	listings, err := g.inner.Search(ctx, query, filters)
	if err != nil {
		g.registry.limiter.RecordFailure(name, err)
		return nil, err
	}

	g.registry.limiter.RecordSuccess(name)
	g.registry.store.Set(ctx, key, listings, g.registry.cacheTTL)
	return listings, nil
}
