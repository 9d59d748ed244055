// Package heartbeat drives a diagnostic LED that flips once per sampling
// cycle. Its level carries no meaning beyond "the producer is alive".
package heartbeat

import (
	"sync/atomic"

	"envmon/hal"
)

type Indicator struct {
	out   hal.Output
	beats atomic.Uint32
}

// New returns an Indicator on out. A nil out is allowed and only counts.
func New(out hal.Output) *Indicator { return &Indicator{out: out} }

// Beat toggles the output.
func (i *Indicator) Beat() {
	i.beats.Add(1)
	if i.out != nil {
		i.out.Set(!i.out.Get())
	}
}

func (i *Indicator) Beats() uint32 { return i.beats.Load() }
