// Package stagefeed ingests the authoritative stage-interval feed, keeps
// the persisted stage log reconciled with it, and publishes the current
// stage for the read-side components.
package stagefeed

import "sync"

// CurrentStage holds the published stage value. The updater is its only
// writer; request handlers read it concurrently.
type CurrentStage struct {
	mu    sync.RWMutex
	stage int
}

// NewCurrentStage returns a holder publishing the given initial stage.
func NewCurrentStage(initial int) *CurrentStage {
	return &CurrentStage{stage: initial}
}

// Get returns the published stage.
func (c *CurrentStage) Get() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stage
}

// Set publishes a new stage value.
func (c *CurrentStage) Set(stage int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stage = stage
}
