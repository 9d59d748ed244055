// Package provider opens the collaborators of a physical board. Each
// platform lives behind its own build tag; the plan types are shared.
package provider

import (
	"io"

	"envmon/hal"
)

type I2CPlan struct {
	Bus      string // "i2c0", "i2c1", or a periph bus name on Linux
	SDA, SCL int
	Hz       uint32
	LCDAddr  uint8
}

type UARTPlan struct {
	Port   string // "uart0"/"uart1" on the MCU, a device path on Linux
	TX, RX int
	Baud   uint32
}

// Plan names the pins and buses of one board.
type Plan struct {
	DHTPin    int
	ButtonPin int
	LEDPin    int
	ADCPin    int
	// ADCPath is the IIO raw channel read on Linux.
	ADCPath string

	I2C       I2CPlan
	Telemetry UARTPlan
	Cols      int
	Rows      int
}

// PicoPlan is the reference Raspberry Pi Pico wiring.
var PicoPlan = Plan{
	DHTPin:    15,
	ButtonPin: 14,
	LEDPin:    25,
	ADCPin:    26,
	I2C:       I2CPlan{Bus: "i2c0", SDA: 4, SCL: 5, Hz: 100_000, LCDAddr: 0x27},
	Telemetry: UARTPlan{Port: "uart0", TX: 0, RX: 1, Baud: 115_200},
	Cols:      16,
	Rows:      2,
}

// RPiPlan is a Raspberry Pi with the light divider on an external ADC
// exposed through IIO.
var RPiPlan = Plan{
	DHTPin:    4,
	ButtonPin: 17,
	LEDPin:    27,
	ADCPath:   "/sys/bus/iio/devices/iio:device0/in_voltage0_raw",
	I2C:       I2CPlan{Bus: "", LCDAddr: 0x27},
	Telemetry: UARTPlan{Port: "/dev/ttyUSB0", Baud: 115_200},
	Cols:      16,
	Rows:      2,
}

// Platform is an opened board.
type Platform struct {
	Board hal.Board
	// Console carries log output. It never shares a port with telemetry.
	Console io.Writer
	Close   func() error
}
