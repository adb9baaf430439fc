package engine

import "sync/atomic"

// Clock is the monotonic logical clock that assigns transition heights.
//
// Every transition the engine applies is stamped with a strictly increasing
// height from this clock. Heights are never derived from wall-clock time.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// Only the Run loop and Instantiate call Next in practice.
type Clock struct {
	height atomic.Uint64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next height is start+1.
func NewClockAt(start uint64) *Clock {
	c := &Clock{}
	c.height.Store(start)
	return c
}

// Next increments the clock and returns the new height.
func (c *Clock) Next() uint64 {
	return c.height.Add(1)
}

// Current returns the height of the last transition without incrementing.
func (c *Clock) Current() uint64 {
	return c.height.Load()
}
