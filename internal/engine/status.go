package engine

import (
	"sync"

	"github.com/rashadism/choreosync/models"
)

// Tracker records the most recent run result for the ops API. Safe for
// concurrent use: the scheduler writes, HTTP handlers read.
type Tracker struct {
	mu   sync.RWMutex
	last *models.RunResult
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record stores a run result as the latest.
func (t *Tracker) Record(result models.RunResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = &result
}

// Last returns the latest recorded run result, or false when no run has
// completed yet.
func (t *Tracker) Last() (models.RunResult, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.last == nil {
		return models.RunResult{}, false
	}
	return *t.last, true
}
