// Package ldr reads a light-dependent resistor through a one-shot ADC and
// maps it to a 0..100 percentage.
//
// Readings at the extremes of the range usually mean an open or shorted
// divider. They are reported with OK=false but keep their values.
package ldr

import (
	"time"

	"envmon/errcode"
	"envmon/hal"
	"envmon/x/mathx"
)

// Config controls scaling and plausibility. All fields are optional.
type Config struct {
	// FullScale is the converter's maximum code. Default 4095 (12-bit).
	FullScale uint16
	// BandLow and BandHigh bound the plausible percentage, exclusive.
	// Defaults 1 and 99.
	BandLow, BandHigh uint8
	// Timeout bounds the conversion wait. Default 10 ms.
	Timeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.FullScale == 0 {
		c.FullScale = 4095
	}
	if c.BandLow == 0 && c.BandHigh == 0 {
		c.BandLow, c.BandHigh = 1, 99
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Millisecond
	}
}

// Sample is one conversion result.
type Sample struct {
	Raw uint16
	Pct uint8
	OK  bool
}

type Reader struct {
	adc hal.ADC
	cfg Config
}

func New(adc hal.ADC, cfg Config) *Reader {
	cfg.applyDefaults()
	return &Reader{adc: adc, cfg: cfg}
}

// Read triggers one conversion. On adc_timeout the sample is zero; on
// light_implausible it carries the measured values.
func (r *Reader) Read() (Sample, error) {
	r.adc.StartConversion()
	defer r.adc.StopConversion()

	if !r.adc.PollReady(r.cfg.Timeout) {
		return Sample{}, errcode.Wrap(errcode.ADCTimeout, "poll", nil)
	}
	raw := r.adc.ReadValue()
	s := Sample{Raw: raw, Pct: mathx.Percent(raw, r.cfg.FullScale)}
	s.OK = mathx.StrictlyBetween(s.Pct, r.cfg.BandLow, r.cfg.BandHigh)
	if !s.OK {
		return s, errcode.Wrap(errcode.LightImplausible, "band", nil)
	}
	return s, nil
}
