//go:build linux && !tinygo

package provider

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/tarm/serial"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"envmon/drivers/charlcd"
	"envmon/hal"
	"envmon/x/timex"
)

// ---- GPIO over periph.io ----

type periphPin struct{ p gpio.PinIO }

func (r *periphPin) ConfigureInput(pull hal.Pull) error {
	pp := gpio.Float
	switch pull {
	case hal.PullUp:
		pp = gpio.PullUp
	case hal.PullDown:
		pp = gpio.PullDown
	}
	return r.p.In(pp, gpio.NoEdge)
}

func (r *periphPin) ConfigureOutput(initial bool) error { return r.p.Out(gpio.Level(initial)) }
func (r *periphPin) Set(b bool)                         { _ = r.p.Out(gpio.Level(b)) }
func (r *periphPin) Get() bool                          { return r.p.Read() == gpio.High }

func openPin(n int) (*periphPin, error) {
	p := gpioreg.ByName("GPIO" + strconv.Itoa(n))
	if p == nil {
		return nil, fmt.Errorf("gpio %d not found", n)
	}
	return &periphPin{p: p}, nil
}

// threadCritical pins the decoder goroutine to its OS thread. Linux cannot
// mask preemption from user space; the wider edge budget in the rpi preset
// absorbs the remaining jitter.
type threadCritical struct{}

func (threadCritical) Enter() uintptr { runtime.LockOSThread(); return 0 }
func (threadCritical) Exit(uintptr)   { runtime.UnlockOSThread() }

// ---- Light ADC over IIO sysfs ----

type iioADC struct {
	path string
	raw  uint16
	ok   bool
}

func (a *iioADC) StartConversion() {
	b, err := os.ReadFile(a.path)
	if err != nil {
		a.ok = false
		return
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 16)
	a.raw, a.ok = uint16(v), err == nil
}

func (a *iioADC) PollReady(time.Duration) bool { return a.ok }
func (a *iioADC) ReadValue() uint16            { return a.raw }
func (a *iioADC) StopConversion()              { a.ok = false }

// ---- Telemetry serial ----

type serialSink struct{ p *serial.Port }

func (s serialSink) Transmit(b []byte) { _, _ = s.p.Write(b) }

// Open initialises periph.io and opens every collaborator in plan.
func Open(plan Plan) (*Platform, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host.Init: %w", err)
	}

	dht, err := openPin(plan.DHTPin)
	if err != nil {
		return nil, err
	}
	btn, err := openPin(plan.ButtonPin)
	if err != nil {
		return nil, err
	}
	if err := btn.ConfigureInput(hal.PullUp); err != nil {
		return nil, err
	}
	led, err := openPin(plan.LEDPin)
	if err != nil {
		return nil, err
	}
	if err := led.ConfigureOutput(false); err != nil {
		return nil, err
	}

	bus, err := i2creg.Open(plan.I2C.Bus)
	if err != nil {
		return nil, fmt.Errorf("i2creg.Open: %w", err)
	}
	disp, err := charlcd.Open(bus, charlcd.Config{Address: plan.I2C.LCDAddr, Cols: plan.Cols, Rows: plan.Rows})
	if err != nil {
		bus.Close()
		return nil, err
	}

	port, err := serial.OpenPort(&serial.Config{Name: plan.Telemetry.Port, Baud: int(plan.Telemetry.Baud)})
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to open serial port %s: %w", plan.Telemetry.Port, err)
	}

	return &Platform{
		Board: hal.Board{
			DHT:      dht,
			Clock:    timex.NewMonoClock(),
			Critical: threadCritical{},
			Light:    &iioADC{path: plan.ADCPath},
			Display:  disp,
			Button:   btn,
			LED:      led,
			Sink:     serialSink{p: port},
		},
		Console: os.Stderr,
		Close: func() error {
			return errors.Join(port.Close(), bus.Close())
		},
	}, nil
}
