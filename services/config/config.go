package config

import (
	"time"

	"envmon/errcode"
	"envmon/x/boundq"
)

// Variant selects how a reading travels from producer to consumer.
type Variant string

const (
	// VariantPipeline uses the bounded queue and evaluates alerts.
	VariantPipeline Variant = "pipeline"
	// VariantSimple hands off through a latest-value cell with alerting off.
	VariantSimple Variant = "simple"
)

type Config struct {
	Board   string  `validate:"omitempty,max=32"`
	Variant Variant `validate:"oneof=pipeline simple"`

	// Task periods.
	SamplePeriod   time.Duration `validate:"gt=0"`
	DisplayPeriod  time.Duration `validate:"gt=0"`
	ButtonPoll     time.Duration `validate:"gt=0"`
	ReceiveTimeout time.Duration `validate:"gt=0,ltfield=SamplePeriod"`
	AlertDwell     time.Duration `validate:"gte=0"`
	StartupDelay   time.Duration `validate:"gte=0"`

	// Measurement queue.
	QueueCap     int           `validate:"min=1,max=64"`
	QueuePolicy  string        `validate:"oneof=drop_newest drop_oldest block"`
	QueueBlock   time.Duration `validate:"gte=0"`
	TelemetryCap int           `validate:"min=1,max=256"`

	// Alert thresholds.
	TempHigh  int   `validate:"min=-40,max=125"`
	HumHigh   int   `validate:"min=0,max=100"`
	LightLow  uint8 `validate:"max=100,ltfield=LightHigh"`
	LightHigh uint8 `validate:"max=100"`

	// Light channel; the band is exclusive on both ends.
	LightFullScale uint16        `validate:"gt=0"`
	LightBandLow   uint8         `validate:"ltfield=LightBandHigh"`
	LightBandHigh  uint8         `validate:"max=100"`
	ADCTimeout     time.Duration `validate:"gt=0"`

	// Single-wire decoder timings.
	StartPulse    time.Duration `validate:"gt=0"`
	ReleaseSettle time.Duration `validate:"gt=0"`
	SampleDelay   time.Duration `validate:"gt=0"`
	WaitTimeout   time.Duration `validate:"gt=0"`

	// Display.
	Cols  int `validate:"min=8,max=40"`
	Rows  int `validate:"min=2,max=4"`
	Modes int `validate:"min=1,max=4"`

	LogLevel string `validate:"oneof=debug info warn error"`
}

// Default returns the constants of the reference firmware.
func Default() Config {
	return Config{
		Variant: VariantPipeline,

		SamplePeriod:   time.Second,
		DisplayPeriod:  time.Second,
		ButtonPoll:     50 * time.Millisecond,
		ReceiveTimeout: 100 * time.Millisecond,
		AlertDwell:     time.Second,
		StartupDelay:   500 * time.Millisecond,

		QueueCap:     4,
		QueuePolicy:  boundq.DropNewest.String(),
		QueueBlock:   10 * time.Millisecond,
		TelemetryCap: 16,

		TempHigh:  35,
		HumHigh:   80,
		LightLow:  10,
		LightHigh: 90,

		LightFullScale: 4095,
		LightBandLow:   1,
		LightBandHigh:  99,
		ADCTimeout:     10 * time.Millisecond,

		StartPulse:    18 * time.Millisecond,
		ReleaseSettle: 20 * time.Microsecond,
		SampleDelay:   40 * time.Microsecond,
		WaitTimeout:   1000 * time.Microsecond,

		Cols:  16,
		Rows:  2,
		Modes: 4,

		LogLevel: "info",
	}
}

// Policy returns the parsed queue policy. Call after Validate.
func (c Config) Policy() boundq.Policy {
	p, _ := boundq.ParsePolicy(c.QueuePolicy)
	return p
}

// BoardLookup resolves per-board overrides applied by ForBoard.
var BoardLookup = func(board string) (func(*Config), bool) {
	f, ok := boardPresets[board]
	return f, ok
}

var boardPresets = map[string]func(*Config){
	"pico": func(c *Config) {},
	"rpi": func(c *Config) {
		// Linux scheduling jitter needs a wider edge budget.
		c.WaitTimeout = 2000 * time.Microsecond
		c.QueuePolicy = boundq.DropOldest.String()
	},
	"sim": func(c *Config) {
		c.StartupDelay = 0
		c.LogLevel = "debug"
	},
}

// ForBoard returns Default with the named board's overrides applied.
func ForBoard(board string) (Config, error) {
	c := Default()
	c.Board = board
	if board == "" {
		return c, nil
	}
	f, ok := BoardLookup(board)
	if !ok {
		return c, &errcode.E{C: errcode.InvalidConfig, Op: "board", Msg: "no preset for board: " + board}
	}
	f(&c)
	return c, nil
}
