package atomic

import (
	"sync/atomic"
)

// Counter is a lock free counter that can be bounded.
// A zero Counter is unbounded and starts at 0.
type Counter struct {
	max     int64
	bounded bool

	current atomic.Int64
}

// NewCounter returns a counter that never goes past max.
func NewCounter(max int64) *Counter {
	return &Counter{max: max, bounded: true}
}

func (c *Counter) Get() int64 {
	return c.current.Load()
}

// Incr increments the counter by 1. A bounded counter sticks at its max value.
func (c *Counter) Incr() int64 {
	return c.Add(1)
}

// Add adds delta to the counter and returns the new value, saturating at
// the max value of a bounded counter.
func (c *Counter) Add(delta int64) int64 {
	if !c.bounded {
		return c.current.Add(delta)
	}

	for {
		prev := c.current.Load()
		next := prev + delta
		if next > c.max || next < prev {
			next = c.max
		}

		if c.current.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// Reset sets the counter back to 0 and returns its previous value.
func (c *Counter) Reset() int64 {
	return c.current.Swap(0)
}
