package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionRunningTotalAccumulates(t *testing.T) {
	s := NewSession("req-1", []string{"alpha", "beta"})

	assert.Equal(t, 3, s.AddListings(3))
	assert.Equal(t, 5, s.AddListings(2))
	assert.Equal(t, 5, s.RunningTotal())
}

func TestSessionMarkTerminalOnlyOnce(t *testing.T) {
	s := NewSession("req-1", nil)

	firsts := 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.MarkTerminal() {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, firsts)
}

func TestSessionMarkProvider(t *testing.T) {
	s := NewSession("req-1", []string{"alpha", "beta"})
	s.MarkProvider("alpha", StatusSucceeded, 4)

	var alpha ProviderStatus
	for _, ps := range s.Statuses() {
		if ps.Provider == "alpha" {
			alpha = ps
		}
	}
	assert.Equal(t, StatusSucceeded, alpha.Status)
	assert.Equal(t, 4, alpha.Count)
}
