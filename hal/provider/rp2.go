//go:build rp2040

package provider

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"envmon/drivers/charlcd"
	"envmon/errcode"
	"envmon/hal"
)

// ---- GPIO ----

type rp2GPIO struct{ p machine.Pin }

func (r *rp2GPIO) ConfigureInput(pull hal.Pull) error {
	var mode machine.PinMode
	switch pull {
	case hal.PullUp:
		mode = machine.PinInputPullup
	case hal.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2GPIO) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2GPIO) Set(b bool) { r.p.Set(b) }
func (r *rp2GPIO) Get() bool  { return r.p.Get() }

// ---- Timer and critical sections ----

// rp2Clock reads the low word of the 1 MHz system timer.
type rp2Clock struct{}

func (rp2Clock) Micros() uint32 { return rp.TIMER.TIMERAWL.Get() }

type rp2Critical struct{}

func (rp2Critical) Enter() uintptr  { return uintptr(interrupt.Disable()) }
func (rp2Critical) Exit(st uintptr) { interrupt.Restore(interrupt.State(st)) }

// ---- ADC ----

// rp2ADC wraps the blocking machine.ADC. The conversion completes inside
// ReadValue so PollReady always succeeds.
type rp2ADC struct{ a machine.ADC }

func (r *rp2ADC) StartConversion()             {}
func (r *rp2ADC) PollReady(time.Duration) bool { return true }
func (r *rp2ADC) StopConversion()              {}

// ReadValue returns the 12-bit code; machine.ADC scales to 16 bits.
func (r *rp2ADC) ReadValue() uint16 { return r.a.Get() >> 4 }

// ---- Telemetry UART ----

type uartSink struct{ u *uartx.UART }

func (s uartSink) Transmit(b []byte) { _, _ = s.u.Write(b) }

// Open brings up the pins, ADC, LCD and UART named in plan.
func Open(plan Plan) (*Platform, error) {
	var u *uartx.UART
	switch plan.Telemetry.Port {
	case "uart0", "":
		u = uartx.UART0
	case "uart1":
		u = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.Unsupported, Op: "uart", Msg: plan.Telemetry.Port}
	}
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: plan.Telemetry.Baud,
		TX:       machine.Pin(plan.Telemetry.TX),
		RX:       machine.Pin(plan.Telemetry.RX),
	})

	var bus *machine.I2C
	switch plan.I2C.Bus {
	case "i2c0", "":
		bus = machine.I2C0
	case "i2c1":
		bus = machine.I2C1
	default:
		return nil, &errcode.E{C: errcode.Unsupported, Op: "i2c", Msg: plan.I2C.Bus}
	}
	sda := machine.Pin(plan.I2C.SDA)
	scl := machine.Pin(plan.I2C.SCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := bus.Configure(machine.I2CConfig{SCL: scl, SDA: sda, Frequency: plan.I2C.Hz}); err != nil {
		return nil, err
	}
	disp, err := charlcd.Open(bus, charlcd.Config{Address: plan.I2C.LCDAddr, Cols: plan.Cols, Rows: plan.Rows})
	if err != nil {
		return nil, err
	}

	machine.InitADC()
	adc := machine.ADC{Pin: machine.Pin(plan.ADCPin)}
	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return nil, err
	}

	btn := machine.Pin(plan.ButtonPin)
	btn.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	led := &rp2GPIO{p: machine.Pin(plan.LEDPin)}
	_ = led.ConfigureOutput(false)

	dht := &rp2GPIO{p: machine.Pin(plan.DHTPin)}
	_ = dht.ConfigureInput(hal.PullUp)

	return &Platform{
		Board: hal.Board{
			DHT:      dht,
			Clock:    rp2Clock{},
			Critical: rp2Critical{},
			Light:    &rp2ADC{a: adc},
			Display:  disp,
			Button:   btn,
			LED:      led,
			Sink:     uartSink{u: u},
		},
		// Telemetry owns the UART, so logs go to USB CDC.
		Console: machine.Serial,
		Close:   func() error { return nil },
	}, nil
}
