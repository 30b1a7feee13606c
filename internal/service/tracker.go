// internal/service/tracker.go
package service

import "sync/atomic"

// Tracker hands out monotonically increasing fetch generations. A result is
// committed only if its generation is still the latest one begun.
type Tracker struct {
	gen atomic.Uint64
}

// Begin starts a new generation and returns its id.
func (t *Tracker) Begin() uint64 {
	return t.gen.Add(1)
}

// Current returns the latest generation begun.
func (t *Tracker) Current() uint64 {
	return t.gen.Load()
}

// IsCurrent reports whether gen is still the latest generation.
func (t *Tracker) IsCurrent(gen uint64) bool {
	return t.gen.Load() == gen
}
