// Package dht22 reads a DHT22/AM2302 humidity and temperature sensor over its
// single-wire protocol by bit-banging one GPIO.
//
//	d := dht22.New(pin, clock)
//	_ = d.Configure(dht22.Config{})
//	m, err := d.Read()
//
// Every wait on the line is bounded by elapsed microseconds on the supplied
// clock. The acknowledgement and data phases run inside a hal.Critical
// section and must not be preempted for longer than a few microseconds.
//
// A failed read never carries state into the next one.
package dht22

import (
	"time"

	"envmon/errcode"
	"envmon/hal"
	"envmon/x/conv"
	"envmon/x/timex"
)

// Config controls timing. All fields are optional.
type Config struct {
	// StartPulse is how long the host holds the line low. Default 18 ms.
	StartPulse time.Duration
	// ReleaseSettle is the high time before switching to input. Default 20 µs.
	ReleaseSettle time.Duration
	// SampleDelay is the time after a rising edge at which a bit is sampled.
	// High at that point is a 1. Default 40 µs.
	SampleDelay time.Duration
	// WaitTimeout bounds every edge wait. Default 1000 µs.
	WaitTimeout time.Duration
	// Sleep is used for the start pulse only. Default time.Sleep.
	Sleep func(time.Duration)
	// Critical brackets the timed phases. Default hal.NoCritical.
	Critical hal.Critical
}

func (c *Config) applyDefaults() {
	if c.StartPulse <= 0 {
		c.StartPulse = 18 * time.Millisecond
	}
	if c.ReleaseSettle <= 0 {
		c.ReleaseSettle = 20 * time.Microsecond
	}
	if c.SampleDelay <= 0 {
		c.SampleDelay = 40 * time.Microsecond
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = 1000 * time.Microsecond
	}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
	if c.Critical == nil {
		c.Critical = hal.NoCritical
	}
}

type Device struct {
	pin hal.Pin
	clk hal.Clock
	cfg Config

	settleUs, sampleUs, timeoutUs uint32
}

// New creates a Device with default timing. It does not touch the pin. A
// nil pin or clock is reported by Configure and by every read.
func New(pin hal.Pin, clk hal.Clock) *Device {
	d := &Device{pin: pin, clk: clk}
	_ = d.Configure(Config{})
	return d
}

// Configure applies cfg over the defaults.
func (d *Device) Configure(cfg Config) error {
	if d.pin == nil || d.clk == nil {
		return errcode.Wrap(errcode.InvalidConfig, "configure", nil)
	}
	cfg.applyDefaults()
	d.cfg = cfg
	d.settleUs = timex.Us(cfg.ReleaseSettle)
	d.sampleUs = timex.Us(cfg.SampleDelay)
	d.timeoutUs = timex.Us(cfg.WaitTimeout)
	return nil
}

// failure is recorded inside the critical section and turned into an error
// after it, so nothing allocates while interrupts are masked.
type failure struct {
	code errcode.Code
	op   string
	bit  int
}

// MaxHumidityDeci is the largest humidity a plausible frame can carry.
const MaxHumidityDeci = 1000

// Read performs one complete exchange and returns the checked measurement.
// Errors are *errcode.E with codes response_timeout, ack_timeout,
// bit_rise_timeout, bit_fall_timeout, checksum_mismatch or humidity_range.
func (d *Device) Read() (Measurement, error) {
	f, err := d.ReadFrame()
	if err != nil {
		return Measurement{}, err
	}
	if !f.Valid() {
		var b []byte
		b = append(b, "got "...)
		b = conv.AppendInt(b, int64(f[4]))
		b = append(b, " want "...)
		b = conv.AppendInt(b, int64(f.Sum()))
		return Measurement{}, &errcode.E{C: errcode.Checksum, Op: "checksum", Msg: string(b)}
	}
	m := f.Decode()
	if m.HumidityDeci > MaxHumidityDeci {
		b := conv.AppendInt([]byte("humidity "), int64(m.HumidityDeci))
		return Measurement{}, &errcode.E{C: errcode.HumidityRange, Op: "decode", Msg: string(b)}
	}
	return m, nil
}

// ReadFrame runs the protocol and returns the raw 40 bits, unchecked.
func (d *Device) ReadFrame() (Frame, error) {
	var f Frame
	if d.pin == nil || d.clk == nil {
		return f, errcode.Wrap(errcode.InvalidConfig, "read", nil)
	}
	if err := d.pin.ConfigureOutput(false); err != nil {
		return f, err
	}
	d.pin.Set(false)
	d.cfg.Sleep(d.cfg.StartPulse)

	st := d.cfg.Critical.Enter()
	fail := d.exchange(&f)
	d.cfg.Critical.Exit(st)

	if fail.code != "" {
		e := &errcode.E{C: fail.code, Op: fail.op}
		if fail.bit >= 0 {
			e.Msg = string(conv.AppendInt([]byte("bit "), int64(fail.bit)))
		}
		return Frame{}, e
	}
	return f, nil
}

func (d *Device) exchange(f *Frame) failure {
	d.pin.Set(true)
	d.delayUs(d.settleUs)
	if err := d.pin.ConfigureInput(hal.PullNone); err != nil {
		return failure{code: errcode.Error, op: "release", bit: -1}
	}

	if !d.waitWhile(true) {
		return failure{code: errcode.ResponseTimeout, op: "response", bit: -1}
	}
	if !d.waitWhile(false) {
		return failure{code: errcode.AckTimeout, op: "ack_low", bit: -1}
	}
	if !d.waitWhile(true) {
		return failure{code: errcode.AckTimeout, op: "ack_high", bit: -1}
	}

	for i := 0; i < 40; i++ {
		if !d.waitWhile(false) {
			return failure{code: errcode.BitRiseTimeout, op: "bit_rise", bit: i}
		}
		d.delayUs(d.sampleUs)
		if d.pin.Get() {
			f[i/8] |= 0x80 >> (i % 8)
		}
		if !d.waitWhile(true) {
			return failure{code: errcode.BitFallTimeout, op: "bit_fall", bit: i}
		}
	}
	return failure{}
}

// waitWhile spins while the line reads level. It returns false once the
// timeout elapses first.
func (d *Device) waitWhile(level bool) bool {
	start := d.clk.Micros()
	for d.pin.Get() == level {
		if timex.ElapsedUs(start, d.clk.Micros()) >= d.timeoutUs {
			return false
		}
	}
	return true
}

func (d *Device) delayUs(us uint32) {
	start := d.clk.Micros()
	for timex.ElapsedUs(start, d.clk.Micros()) < us {
	}
}
