package sim

import (
	"sync"

	"envmon/hal"
)

// Fault selects a protocol stage at which the simulated sensor misbehaves.
type Fault uint8

const (
	FaultNone      Fault = iota
	FaultNoResponse      // line stays high after release
	FaultAckLow          // response low phase never ends
	FaultAckHigh         // response high phase never ends
	FaultBitRise         // low phase of bit FaultBit never ends
	FaultBitFall         // high phase of bit FaultBit never ends
)

// Waveform timings in µs, nominal values from the sensor datasheet.
const (
	holdOffUs  = 10
	respLowUs  = 80
	respHighUs = 80
	bitLowUs   = 50
	zeroHighUs = 27
	oneHighUs  = 70
	tailLowUs  = 50
)

type segment struct {
	high bool
	us   uint32 // 0 means forever
}

// DHTLine is a hal.Pin that plays back a sensor frame once the host
// releases the line after a start pulse.
type DHTLine struct {
	mu       sync.Mutex
	clk      *Clock
	frame    [5]byte
	fault    Fault
	faultBit int

	output   bool
	driven   bool
	pulled   bool // host has driven the line low at least once
	released bool
	start    uint32
	timeline []segment

	Starts int // number of start pulses seen
}

func NewDHTLine(clk *Clock) *DHTLine { return &DHTLine{clk: clk, driven: true} }

// SetFrame selects the five bytes the sensor will send next.
func (d *DHTLine) SetFrame(b [5]byte) {
	d.mu.Lock()
	d.frame = b
	d.mu.Unlock()
}

// SetReading encodes humidity and temperature in tenths with a valid checksum.
func (d *DHTLine) SetReading(humDeci uint16, tempDeci int16) {
	d.SetFrame(EncodeFrame(humDeci, tempDeci))
}

// SetFault arms a fault. bit is only used by FaultBitRise and FaultBitFall.
func (d *DHTLine) SetFault(f Fault, bit int) {
	d.mu.Lock()
	d.fault, d.faultBit = f, bit
	d.mu.Unlock()
}

// EncodeFrame builds a sensor frame with sign-magnitude temperature.
func EncodeFrame(humDeci uint16, tempDeci int16) [5]byte {
	t := uint16(tempDeci)
	if tempDeci < 0 {
		t = uint16(-tempDeci) | 0x8000
	}
	f := [5]byte{byte(humDeci >> 8), byte(humDeci), byte(t >> 8), byte(t)}
	f[4] = f[0] + f[1] + f[2] + f[3]
	return f
}

func (d *DHTLine) ConfigureOutput(initial bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.output, d.released = true, false
	d.drive(initial)
	return nil
}

func (d *DHTLine) ConfigureInput(hal.Pull) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.output && d.pulled {
		d.released = true
		d.start = d.clk.Peek()
		d.timeline = d.build()
		d.Starts++
	}
	d.output, d.pulled = false, false
	return nil
}

func (d *DHTLine) Set(level bool) {
	d.mu.Lock()
	if d.output {
		d.drive(level)
	}
	d.mu.Unlock()
}

func (d *DHTLine) drive(level bool) {
	d.driven = level
	if !level {
		d.pulled = true
	}
}

func (d *DHTLine) Get() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.output {
		return d.driven
	}
	if !d.released {
		return true
	}
	t := d.clk.Peek() - d.start
	for _, s := range d.timeline {
		if s.us == 0 || t < s.us {
			return s.high
		}
		t -= s.us
	}
	return true
}

func (d *DHTLine) build() []segment {
	tl := []segment{{true, holdOffUs}}
	switch d.fault {
	case FaultNoResponse:
		return append(tl[:0], segment{true, 0})
	case FaultAckLow:
		return append(tl, segment{false, 0})
	case FaultAckHigh:
		return append(tl, segment{false, respLowUs}, segment{true, 0})
	}
	tl = append(tl, segment{false, respLowUs}, segment{true, respHighUs})
	for i := 0; i < 40; i++ {
		one := d.frame[i/8]&(0x80>>(i%8)) != 0
		if d.fault == FaultBitRise && i == d.faultBit {
			return append(tl, segment{false, 0})
		}
		tl = append(tl, segment{false, bitLowUs})
		if d.fault == FaultBitFall && i == d.faultBit {
			return append(tl, segment{true, 0})
		}
		if one {
			tl = append(tl, segment{true, oneHighUs})
		} else {
			tl = append(tl, segment{true, zeroHighUs})
		}
	}
	return append(tl, segment{false, tailLowUs}, segment{true, 0})
}
