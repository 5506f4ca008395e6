package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually driven time source. Hold expiry and history
// timestamps all derive from the injected now func, so advancing the
// clock is how tests walk holds toward their TTL.
type Clock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewClock returns a clock initialised to start, or to the shared
// ReferenceTime when start is the zero value.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start.UTC()}
}

// Now returns the instant the clock currently reports.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// NowFunc adapts the clock for injection into components that take a
// func() time.Time. A nil clock falls back to the real time source.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set jumps the clock to an absolute instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t.UTC()
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}
