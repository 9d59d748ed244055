// Package hal declares the primitive hardware operations the monitor core
// calls as black boxes. Platform providers (hal/provider) and the simulator
// (hal/sim) implement them; nothing in this package touches hardware.
package hal

import "time"

// ---- Digital pins ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Pin is a single bidirectional digital line. The single-wire decoder is its
// only user that switches direction at run time.
type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
}

// Output is the write-only subset used by indicators.
type Output interface {
	Set(level bool)
	Get() bool
}

// Button is an active-low push-button input.
type Button interface {
	Get() bool
}

// ---- Microsecond timer ----

// Clock is a free-running microsecond counter. Micros wraps at 2^32;
// callers compute elapsed time with unsigned subtraction.
type Clock interface {
	Micros() uint32
}

// Critical brackets a real-time section. Enter must not block; the returned
// state is handed back to Exit. Providers that cannot mask preemption return
// a no-op.
type Critical interface {
	Enter() uintptr
	Exit(state uintptr)
}

type noCritical struct{}

func (noCritical) Enter() uintptr { return 0 }
func (noCritical) Exit(uintptr)   {}

// NoCritical is a Critical that does nothing.
var NoCritical Critical = noCritical{}

// ---- Analog ----

// ADC is a one-shot converter: start, wait bounded, read, stop.
type ADC interface {
	StartConversion()
	PollReady(timeout time.Duration) bool
	ReadValue() uint16
	StopConversion()
}

// ---- Outputs to the outside world ----

// Display is a character display addressed by row and column.
type Display interface {
	Clear()
	SetCursor(row, col int)
	WriteString(s string)
}

// Sink is a raw byte transmitter. Transmit is fire-and-forget; it never
// reports backpressure to the caller.
type Sink interface {
	Transmit(b []byte)
}

// ---- Board ----

// Board is the set of collaborators a platform provides to the monitor.
type Board struct {
	DHT      Pin
	Clock    Clock
	Critical Critical
	Light    ADC
	Display  Display
	Button   Button
	LED      Output
	Sink     Sink

	// Sleep times the decoder's start pulse. Nil means time.Sleep.
	Sleep func(time.Duration)
}
