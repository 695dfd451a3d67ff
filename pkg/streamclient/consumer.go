package streamclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"jobscout/pkg/models"
)

// Event is the decoded envelope of one stream frame. Fields are populated
// according to the frame's type tag; unused fields stay zero.
type Event struct {
	Type           string           `json:"type"`
	RequestID      string           `json:"request_id,omitempty"`
	Query          string           `json:"query,omitempty"`
	Providers      []string         `json:"providers,omitempty"`
	Provider       string           `json:"provider,omitempty"`
	Kind           string           `json:"kind,omitempty"`
	Title          string           `json:"title,omitempty"`
	Message        string           `json:"message,omitempty"`
	Severity       string           `json:"severity,omitempty"`
	Code           string           `json:"code,omitempty"`
	Listings       []models.Listing `json:"listings,omitempty"`
	Count          int              `json:"count,omitempty"`
	RunningTotal   int              `json:"running_total,omitempty"`
	TotalCount     int              `json:"total_count,omitempty"`
	ElapsedSeconds float64          `json:"elapsed_seconds,omitempty"`
	Summary        string           `json:"summary,omitempty"`
}

// Event type tags, mirroring the server's wire format
const (
	TypeSearchStarted   = "search_started"
	TypeScraperStart    = "scraper_start"
	TypeJobsFound       = "jobs_found"
	TypeScraperError    = "scraper_error"
	TypeScraperComplete = "scraper_complete"
	TypeUserMessage     = "user_message"
	TypeSearchComplete  = "search_complete"
	TypeError           = "error"
)

// Result is the final outcome of one consumed stream
type Result struct {
	Listings []models.Listing
	Total    int
	Summary  string
	// Complete is false when the stream dropped before a terminal frame;
	// Listings then holds everything accumulated up to the drop.
	Complete bool
	// Err carries the server-side failure when the terminal frame was an
	// error event.
	Err error
}

// Consumer reassembles newline-delimited JSON frames from arbitrary byte
// chunks and tracks its own authoritative listing collection. The server's
// running_total field is advisory; the consumer total is always the sum of
// the jobs_found batches it has seen.
//
// Consumer is not safe for concurrent use; feed it from one reader loop.
type Consumer struct {
	pending  []byte
	listings []models.Listing
	total    int
	terminal *Event

	// OnEvent, when set, is invoked for every well-formed frame in order
	OnEvent func(Event)
}

// NewConsumer creates an empty stream consumer
func NewConsumer() *Consumer {
	return &Consumer{}
}

// Feed consumes one chunk of stream bytes. Chunks may split frames at any
// byte offset; partial frames are held until the terminating newline
// arrives.
func (c *Consumer) Feed(data []byte) error {
	c.pending = append(c.pending, data...)

	for {
		idx := bytes.IndexByte(c.pending, '\n')
		if idx < 0 {
			return nil
		}

		frame := c.pending[:idx]
		c.pending = c.pending[idx+1:]

		if len(bytes.TrimSpace(frame)) == 0 {
			continue
		}

		var event Event
		if err := json.Unmarshal(frame, &event); err != nil {
			return fmt.Errorf("malformed frame: %w", err)
		}
		c.handle(event)
	}
}

// Consume drains a reader until EOF, feeding every chunk, and returns the
// final result. A read error after frames have arrived still yields the
// accumulated partial result.
func (c *Consumer) Consume(r io.Reader) (Result, error) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if feedErr := c.Feed(buf[:n]); feedErr != nil {
				return c.Result(), feedErr
			}
		}
		if err == io.EOF {
			return c.Result(), nil
		}
		if err != nil {
			return c.Result(), err
		}
	}
}

func (c *Consumer) handle(event Event) {
	switch event.Type {
	case TypeJobsFound:
		c.listings = append(c.listings, event.Listings...)
		c.total += len(event.Listings)
	case TypeSearchComplete, TypeError:
		if c.terminal == nil {
			e := event
			c.terminal = &e
		}
	}

	if c.OnEvent != nil {
		c.OnEvent(event)
	}
}

// Total returns the consumer-derived total: the sum of every jobs_found
// batch size seen so far
func (c *Consumer) Total() int {
	return c.total
}

// Result finalizes the stream. Without a terminal frame it falls back to
// the deduplicated accumulation and marks the result incomplete.
func (c *Consumer) Result() Result {
	if c.terminal == nil {
		return Result{
			Listings: models.DedupListings(c.listings),
			Total:    c.total,
			Complete: false,
		}
	}

	if c.terminal.Type == TypeError {
		return Result{
			Listings: models.DedupListings(c.listings),
			Total:    c.total,
			Complete: true,
			Err:      fmt.Errorf("search failed: %s (%s)", c.terminal.Message, c.terminal.Code),
		}
	}

	// The terminal's listing set is taken as the final collection, but the
	// scalar total is derived locally rather than read off the wire.
	return Result{
		Listings: c.terminal.Listings,
		Total:    len(c.terminal.Listings),
		Summary:  c.terminal.Summary,
		Complete: true,
	}
}
