package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first time returned by a DeterministicClock.
var DefaultEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultTick is how far a DeterministicClock advances per Now call.
const DefaultTick = 10 * time.Millisecond

// DeterministicClock provides reproducible sequence numbers and timestamps.
//
// Next works like engine.SystemClock. Now starts at DefaultEpoch and
// advances by a fixed tick on every call, so a run that reads the time
// twice always reports the same processing time.
//
// Implements engine.Clock. Thread-safety: all methods are safe for
// concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	seq   int64
	now   time.Time
	tick  time.Duration
	calls int
}

// NewDeterministicClock creates a clock at seq 0 and DefaultEpoch.
//
// The first call to Next() returns 1.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockAt(DefaultEpoch, DefaultTick)
}

// NewDeterministicClockAt creates a clock starting at start that advances by
// tick per Now call.
func NewDeterministicClockAt(start time.Time, tick time.Duration) *DeterministicClock {
	return &DeterministicClock{now: start, tick: tick}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Now returns the current fake time, then advances it by one tick.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.tick)
	c.calls++
	return t
}

// Calls reports how many times Now has been called.
func (c *DeterministicClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset returns the clock to seq 0 and DefaultEpoch.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
	c.now = DefaultEpoch
	c.calls = 0
}
