package engine

import (
	"sync/atomic"
	"time"
)

// Clock stamps runs with a sequence number and measures processing time.
// Implemented by SystemClock (production) and testutil.DeterministicClock
// (tests).
type Clock interface {
	// Next returns the next run sequence number. Values strictly increase.
	Next() int64

	// Now returns the current time.
	Now() time.Time
}

// SystemClock pairs a monotonic sequence counter with wall-clock time.
//
// Sequence numbers order runs within a process regardless of wall-clock
// adjustments; timestamps are only used for durations and display.
//
// Thread-safety: SystemClock is safe for concurrent use (atomic operations).
type SystemClock struct {
	seq atomic.Int64
}

// NewSystemClock creates a clock starting at 0.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// NewSystemClockAt creates a clock starting at a specific sequence number.
// Used to resume numbering after the last run recorded in a store.
func NewSystemClockAt(start int64) *SystemClock {
	c := &SystemClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *SystemClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *SystemClock) Current() int64 {
	return c.seq.Load()
}

// Now returns the wall-clock time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
