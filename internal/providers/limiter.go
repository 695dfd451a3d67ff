package providers

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobscout/internal/logging"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type circuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	failureCount int
	lastFailTime time.Time
	state        CircuitState
}

// Limiter applies a per-provider request rate and circuit breaker. A
// provider that keeps failing stops receiving traffic until its reset
// window elapses.
type Limiter struct {
	perMinute int
	limiters  map[string]*rate.Limiter
	breakers  map[string]*circuitBreaker
	mu        sync.Mutex
	logger    logging.Logger
}

// NewLimiter creates a limiter allowing perMinute requests per provider
func NewLimiter(perMinute int) *Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &Limiter{
		perMinute: perMinute,
		limiters:  make(map[string]*rate.Limiter),
		breakers:  make(map[string]*circuitBreaker),
		logger:    logging.GetGlobalLogger().WithField("component", "provider_limiter"),
	}
}

// Allow reports whether a request to the provider may proceed now
func (l *Limiter) Allow(provider string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.circuitAllows(provider) {
		l.logger.Debug("Request rejected by circuit breaker", map[string]interface{}{"provider": provider})
		return false
	}

	limiter, ok := l.limiters[provider]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), 5)
		l.limiters[provider] = limiter
	}

	allowed := limiter.Allow()
	if !allowed {
		l.logger.Debug("Request rejected by rate limiter", map[string]interface{}{"provider": provider})
	}
	return allowed
}

// RecordSuccess closes a half-open circuit after a successful request
func (l *Limiter) RecordSuccess(provider string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cb, ok := l.breakers[provider]; ok && cb.state == CircuitHalfOpen {
		cb.state = CircuitClosed
		cb.failureCount = 0
		l.logger.Info("Circuit breaker closed after successful request", map[string]interface{}{"provider": provider})
	}
}

// RecordFailure counts a failure and opens the circuit past the threshold
func (l *Limiter) RecordFailure(provider string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cb := l.breaker(provider)
	cb.failureCount++
	cb.lastFailTime = time.Now()

	if cb.failureCount >= cb.maxFailures && cb.state == CircuitClosed {
		cb.state = CircuitOpen
		l.logger.Warn("Circuit breaker opened due to failures", map[string]interface{}{
			"provider": provider,
			"failures": cb.failureCount,
			"error":    err.Error(),
		})
	}
}

// State returns the current circuit state for a provider
func (l *Limiter) State(provider string) CircuitState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.breaker(provider).state
}

func (l *Limiter) breaker(provider string) *circuitBreaker {
	cb, ok := l.breakers[provider]
	if !ok {
		cb = &circuitBreaker{
			maxFailures:  5,
			resetTimeout: 30 * time.Second,
			state:        CircuitClosed,
		}
		l.breakers[provider] = cb
	}
	return cb
}

// circuitAllows transitions open circuits to half-open once the reset
// window has elapsed. Callers hold l.mu.
func (l *Limiter) circuitAllows(provider string) bool {
	cb := l.breaker(provider)

	switch cb.state {
	case CircuitClosed, CircuitHalfOpen:
		return true
	case CircuitOpen:
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			l.logger.Info("Circuit breaker transitioned to half-open", map[string]interface{}{"provider": provider})
			return true
		}
		return false
	default:
		return false
	}
}
