// Package charlcd adapts an HD44780 character LCD behind a PCF8574 I2C
// backpack to hal.Display. Command encoding stays in hd44780i2c.
package charlcd

import (
	"errors"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"

	"envmon/x/mathx"
)

// Common backpack addresses.
const (
	AddressPCF8574  = 0x27
	AddressPCF8574A = 0x3F
)

var ErrGeometry = errors.New("charlcd: invalid geometry")

type Config struct {
	// Address defaults to 0x27 if zero.
	Address uint8
	// Cols and Rows default to 16x2.
	Cols, Rows int
}

type lcd interface {
	ClearDisplay()
	SetCursor(x, y uint8)
	Print(data []byte)
}

type Display struct {
	dev        lcd
	cols, rows int
	row, col   int
}

// Open configures the LCD on bus. The bus must already be configured.
func Open(bus drivers.I2C, cfg Config) (*Display, error) {
	if cfg.Address == 0 {
		cfg.Address = AddressPCF8574
	}
	if cfg.Cols == 0 && cfg.Rows == 0 {
		cfg.Cols, cfg.Rows = 16, 2
	}
	if cfg.Cols <= 0 || cfg.Rows <= 0 || cfg.Cols > 40 || cfg.Rows > 4 {
		return nil, ErrGeometry
	}
	dev := hd44780i2c.New(bus, cfg.Address)
	if err := dev.Configure(hd44780i2c.Config{Width: uint8(cfg.Cols), Height: uint8(cfg.Rows)}); err != nil {
		return nil, err
	}
	return newDisplay(&dev, cfg.Cols, cfg.Rows), nil
}

func newDisplay(dev lcd, cols, rows int) *Display {
	return &Display{dev: dev, cols: cols, rows: rows}
}

func (d *Display) Clear() {
	d.dev.ClearDisplay()
	d.row, d.col = 0, 0
}

// SetCursor moves to (row, col). Out-of-range positions are clamped.
func (d *Display) SetCursor(row, col int) {
	row = mathx.Clamp(row, 0, d.rows-1)
	col = mathx.Clamp(col, 0, d.cols-1)
	d.row, d.col = row, col
	d.dev.SetCursor(uint8(col), uint8(row))
}

// WriteString prints s from the cursor, cut at the end of the row.
func (d *Display) WriteString(s string) {
	room := d.cols - d.col
	if room <= 0 {
		return
	}
	if len(s) > room {
		s = s[:room]
	}
	d.dev.Print([]byte(s))
	d.col += len(s)
}
