package search

import (
	"sync"
	"time"
)

// Provider status values within one search session
const (
	StatusNotConfigured = "not_configured"
	StatusPending       = "pending"
	StatusSucceeded     = "succeeded"
	StatusFailed        = "failed"
	StatusTimedOut      = "timed_out"
)

// ProviderStatus tracks one provider's progress within a session
type ProviderStatus struct {
	Provider string        `json:"provider"`
	Status   string        `json:"status"`
	Count    int           `json:"count"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Session is the request-scoped state of one streamed search. The running
// total is the sum of emitted batch sizes, updated only from the
// orchestrator's consume loop.
type Session struct {
	RequestID string
	StartedAt time.Time

	mu           sync.Mutex
	runningTotal int
	terminal     bool
	statuses     map[string]*ProviderStatus
}

// NewSession creates session state for one search request
func NewSession(requestID string, providers []string) *Session {
	s := &Session{
		RequestID: requestID,
		StartedAt: time.Now(),
		statuses:  make(map[string]*ProviderStatus, len(providers)),
	}
	for _, p := range providers {
		s.statuses[p] = &ProviderStatus{Provider: p, Status: StatusPending}
	}
	return s
}

// AddListings adds a batch to the running total and returns the new total
func (s *Session) AddListings(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runningTotal += n
	return s.runningTotal
}

// RunningTotal returns the sum of emitted batch sizes so far
func (s *Session) RunningTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningTotal
}

// MarkProvider updates one provider's status and count
func (s *Session) MarkProvider(provider, status string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ps, ok := s.statuses[provider]; ok {
		ps.Status = status
		ps.Count = count
		ps.Elapsed = time.Since(s.StartedAt)
	}
}

// MarkTerminal flips the terminal flag, reporting whether this call was the
// first. The caller omits the terminal frame when the answer is false.
func (s *Session) MarkTerminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal {
		return false
	}
	s.terminal = true
	return true
}

// Elapsed returns seconds since the session started
func (s *Session) Elapsed() float64 {
	return time.Since(s.StartedAt).Seconds()
}

// Statuses returns a snapshot of every provider's status
func (s *Session) Statuses() []ProviderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProviderStatus, 0, len(s.statuses))
	for _, ps := range s.statuses {
		out = append(out, *ps)
	}
	return out
}
