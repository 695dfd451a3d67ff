package search

import (
	"fmt"

	"jobscout/pkg/models"
)

// Event type tags carried in every streamed frame
const (
	EventSearchStarted   = "search_started"
	EventScraperStart    = "scraper_start"
	EventJobsFound       = "jobs_found"
	EventScraperError    = "scraper_error"
	EventScraperComplete = "scraper_complete"
	EventUserMessage     = "user_message"
	EventSearchComplete  = "search_complete"
	EventError           = "error"
)

// SearchStartedEvent opens a stream before any provider I/O happens
type SearchStartedEvent struct {
	Type      string   `json:"type"`
	RequestID string   `json:"request_id"`
	Providers []string `json:"providers"`
	Query     string   `json:"query"`
	Message   string   `json:"message"`
}

// ScraperStartEvent announces one provider fetch beginning
type ScraperStartEvent struct {
	Type     string `json:"type"`
	Provider string `json:"provider"`
}

// JobsFoundEvent carries one provider's scored listing batch. RunningTotal
// is advisory: consumers derive their own totals from batch sizes.
type JobsFoundEvent struct {
	Type           string           `json:"type"`
	Provider       string           `json:"provider"`
	Listings       []models.Listing `json:"listings"`
	Count          int              `json:"count"`
	RunningTotal   int              `json:"running_total"`
	ElapsedSeconds float64          `json:"elapsed_seconds"`
}

// ScraperErrorEvent reports a non-fatal provider failure
type ScraperErrorEvent struct {
	Type     string `json:"type"`
	Provider string `json:"provider"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// ScraperCompleteEvent reports a provider that finished with no listings
type ScraperCompleteEvent struct {
	Type     string `json:"type"`
	Provider string `json:"provider"`
	Count    int    `json:"count"`
}

// UserMessageEvent carries a human-readable progress note
type UserMessageEvent struct {
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

// SearchCompleteEvent is the successful terminal frame. Listings are the
// deduplicated union of every emitted batch.
type SearchCompleteEvent struct {
	Type           string           `json:"type"`
	Listings       []models.Listing `json:"listings"`
	TotalCount     int              `json:"total_count"`
	ElapsedSeconds float64          `json:"elapsed_seconds"`
	Summary        string           `json:"summary"`
}

// ErrorEvent is the failure terminal frame, used only after the stream has
// already opened
type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewSearchStartedEvent(requestID, query string, providers []string) SearchStartedEvent {
	return SearchStartedEvent{
		Type:      EventSearchStarted,
		RequestID: requestID,
		Query:     query,
		Providers: providers,
		Message:   fmt.Sprintf("Searching %d providers", len(providers)),
	}
}

func NewScraperStartEvent(provider string) ScraperStartEvent {
	return ScraperStartEvent{Type: EventScraperStart, Provider: provider}
}

func NewJobsFoundEvent(provider string, listings []models.Listing, runningTotal int, elapsed float64) JobsFoundEvent {
	return JobsFoundEvent{
		Type:           EventJobsFound,
		Provider:       provider,
		Listings:       listings,
		Count:          len(listings),
		RunningTotal:   runningTotal,
		ElapsedSeconds: elapsed,
	}
}

func NewScraperErrorEvent(provider, kind, message string) ScraperErrorEvent {
	return ScraperErrorEvent{Type: EventScraperError, Provider: provider, Kind: kind, Message: message}
}

func NewScraperCompleteEvent(provider string, count int) ScraperCompleteEvent {
	return ScraperCompleteEvent{Type: EventScraperComplete, Provider: provider, Count: count}
}

func NewUserMessageEvent(title, message, severity string) UserMessageEvent {
	return UserMessageEvent{Type: EventUserMessage, Title: title, Message: message, Severity: severity}
}

func NewSearchCompleteEvent(listings []models.Listing, elapsed float64, summary string) SearchCompleteEvent {
	return SearchCompleteEvent{
		Type:           EventSearchComplete,
		Listings:       listings,
		TotalCount:     len(listings),
		ElapsedSeconds: elapsed,
		Summary:        summary,
	}
}

func NewErrorEvent(code, message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Code: code, Message: message}
}
