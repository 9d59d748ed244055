package timex

import "time"

// ElapsedUs returns now-start for a free-running 32-bit microsecond counter.
// Unsigned subtraction keeps the result correct across one wrap.
func ElapsedUs(start, now uint32) uint32 { return now - start }

// Us converts a duration to whole microseconds, saturating at the counter width.
func Us(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	us := d.Microseconds()
	if us > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(us)
}

// MonoClock is a microsecond counter derived from the runtime monotonic clock.
// It satisfies hal.Clock on hosts without a hardware timer.
type MonoClock struct{ start time.Time }

func NewMonoClock() *MonoClock { return &MonoClock{start: time.Now()} }

func (c *MonoClock) Micros() uint32 { return uint32(time.Since(c.start).Microseconds()) }

// SleepCtx waits for d or until done is closed. It reports false when cut short.
func SleepCtx(done <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-done:
		return false
	case <-t.C:
		return true
	}
}
