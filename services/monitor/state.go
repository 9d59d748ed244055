package monitor

import (
	"sync/atomic"

	"envmon/types"
)

// MaximaCell holds the running maxima in one atomic word. The producer is
// the only writer; any task may Load.
type MaximaCell struct{ v atomic.Uint32 }

func (c *MaximaCell) Load() types.Maxima { return types.UnpackMaxima(c.v.Load()) }

// Observe folds r into the maxima and reports whether anything rose.
func (c *MaximaCell) Observe(r types.Reading) (types.Maxima, bool) {
	for {
		old := c.v.Load()
		cur := types.UnpackMaxima(old)
		next := cur.Merge(r)
		if next == cur {
			return cur, false
		}
		if c.v.CompareAndSwap(old, next.Pack()) {
			return next, true
		}
	}
}

// ModeCell is the display mode shared by the selector and the consumer.
type ModeCell struct {
	v   atomic.Uint32
	max types.DisplayMode
}

// NewModeCell starts at mode 1 and wraps after max.
func NewModeCell(max int) *ModeCell {
	if max < 1 {
		max = 1
	}
	c := &ModeCell{max: types.DisplayMode(max)}
	c.v.Store(1)
	return c
}

func (c *ModeCell) Load() types.DisplayMode { return types.DisplayMode(c.v.Load()) }

// Advance moves to the next mode and returns it.
func (c *ModeCell) Advance() types.DisplayMode {
	for {
		old := c.v.Load()
		next := types.DisplayMode(old).Next(c.max)
		if c.v.CompareAndSwap(old, uint32(next)) {
			return next
		}
	}
}
