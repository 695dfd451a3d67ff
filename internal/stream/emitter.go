package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"jobscout/internal/logging"
)

// Flusher is the subset of http.Flusher the emitter needs. Echo's response
// writer satisfies it; tests substitute a no-op.
type Flusher interface {
	Flush()
}

// Emitter owns the sole writer for one streamed session. Every event goes
// out as one JSON object terminated by a newline, flushed immediately so
// frames reach the client without buffering delays. Emit is safe for
// concurrent use; the mutex guarantees frames never interleave.
type Emitter struct {
	mu      sync.Mutex
	w       io.Writer
	flusher Flusher
	frames  int
	failed  bool
	logger  logging.Logger
}

// NewEmitter wraps a response writer as a frame emitter. flusher may be nil
// when the writer does not support flushing.
func NewEmitter(w io.Writer, flusher Flusher) *Emitter {
	return &Emitter{
		w:       w,
		flusher: flusher,
		logger:  logging.GetGlobalLogger().WithField("component", "stream_emitter"),
	}
}

// Emit writes one event frame. After the first write failure the emitter
// goes dark: the client is gone and further writes only burn cycles.
func (e *Emitter) Emit(event interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failed {
		return fmt.Errorf("stream writer already failed")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	payload = append(payload, '\n')

	if _, err := e.w.Write(payload); err != nil {
		e.failed = true
		e.logger.Warn("Stream write failed, client likely disconnected", map[string]interface{}{
			"frames_sent": e.frames,
			"error":       err.Error(),
		})
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if e.flusher != nil {
		e.flusher.Flush()
	}
	e.frames++
	return nil
}

// Frames returns the number of frames successfully written
func (e *Emitter) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Failed reports whether a write has failed
func (e *Emitter) Failed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failed
}
