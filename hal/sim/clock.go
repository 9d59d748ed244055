// Package sim provides in-memory implementations of the hal interfaces for
// tests and for running the monitor on a development host.
package sim

import (
	"sync/atomic"
	"time"
)

// Clock is a virtual microsecond counter. Every Micros call advances it by
// Step, so busy-wait loops make progress without real time passing.
type Clock struct {
	now  atomic.Uint32
	step uint32
}

// NewClock returns a clock starting at start that advances step µs per read.
func NewClock(start, step uint32) *Clock {
	c := &Clock{step: step}
	c.now.Store(start)
	return c
}

func (c *Clock) Micros() uint32 { return c.now.Add(c.step) - c.step }

// Peek reads the counter without advancing it.
func (c *Clock) Peek() uint32 { return c.now.Load() }

func (c *Clock) Advance(us uint32) { c.now.Add(us) }

// Sleep advances the clock by d instead of blocking.
func (c *Clock) Sleep(d time.Duration) {
	if d > 0 {
		c.Advance(uint32(d / time.Microsecond))
	}
}
