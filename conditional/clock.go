package conditional

import "sync/atomic"

// Clock is a monotonic logical clock stamping evaluation passes.
//
// Pass sequence numbers give traces a deterministic order without wall-clock
// race conditions, and let replay verify pass-for-pass equality.
//
// Thread-safety: safe for concurrent use (atomic operations), though the
// single-writer loop discipline means one goroutine typically calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
