package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobscout/internal/config"
	"jobscout/internal/logging"
	"jobscout/pkg/models"
)

// Store caches normalized provider results in Redis so that repeated
// searches within the TTL window skip the provider round trip. All methods
// degrade gracefully: a Store that cannot reach Redis behaves like an
// always-miss cache.
type Store struct {
	client *redis.Client
	logger logging.Logger
}

// NewStore creates a Redis-backed result cache
func NewStore(cfg *config.Config) *Store {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &Store{
		client: redis.NewClient(opts),
		logger: logging.GetGlobalLogger().WithField("component", "result_cache"),
	}
}

// Key derives the cache key for one provider query. Filters participate in
// the hash so differently-filtered searches never share entries.
func Key(provider, query string, filters models.SearchFilters) string {
	payload := fmt.Sprintf("%s|%s|%s|%d|%s", provider, query, filters.ExperienceLevel, filters.MinSalary, filters.Region)
	sum := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("search:results:%s:%x", provider, sum[:12])
}

// Get returns cached listings for the key, reporting a miss on any error
func (s *Store) Get(ctx context.Context, key string) ([]models.Listing, bool) {
	if s == nil || s.client == nil {
		return nil, false
	}

	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return nil, false
	}

	var listings []models.Listing
	if err := json.Unmarshal([]byte(raw), &listings); err != nil {
		s.logger.Warn("Discarding corrupt cache entry", map[string]interface{}{"key": key, "error": err.Error()})
		s.client.Del(ctx, key)
		return nil, false
	}

	return listings, true
}

// Set stores listings under the key for the given TTL, best-effort
func (s *Store) Set(ctx context.Context, key string, listings []models.Listing, ttl time.Duration) {
	if s == nil || s.client == nil || len(listings) == 0 {
		return
	}

	raw, err := json.Marshal(listings)
	if err != nil {
		return
	}

	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.logger.Debug("Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// Ping tests the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("cache not initialized")
	}
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
