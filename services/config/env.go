//go:build !tinygo

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "ENVMON_"

// LoadFromEnv builds a Config from ENVMON_* variables. An optional .env file
// in the working directory is loaded first; variables already set win.
func LoadFromEnv(log *slog.Logger, files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && log != nil {
		log.Debug("no .env file loaded", "err", err)
	}

	c, err := ForBoard(os.Getenv(envPrefix + "BOARD"))
	if err != nil {
		return c, err
	}

	if v := os.Getenv(envPrefix + "VARIANT"); v != "" {
		c.Variant = Variant(v)
	}
	c.QueuePolicy = getenvDefault("QUEUE_POLICY", c.QueuePolicy)
	c.LogLevel = getenvDefault("LOG_LEVEL", c.LogLevel)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SAMPLE_PERIOD", &c.SamplePeriod},
		{"DISPLAY_PERIOD", &c.DisplayPeriod},
		{"BUTTON_POLL", &c.ButtonPoll},
		{"RECEIVE_TIMEOUT", &c.ReceiveTimeout},
		{"ALERT_DWELL", &c.AlertDwell},
		{"STARTUP_DELAY", &c.StartupDelay},
		{"QUEUE_BLOCK", &c.QueueBlock},
		{"ADC_TIMEOUT", &c.ADCTimeout},
		{"WAIT_TIMEOUT", &c.WaitTimeout},
	}
	for _, d := range durations {
		if err := getenvDuration(d.key, d.dst); err != nil {
			return c, err
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"QUEUE_CAP", &c.QueueCap},
		{"TELEMETRY_CAP", &c.TelemetryCap},
		{"TEMP_HIGH", &c.TempHigh},
		{"HUM_HIGH", &c.HumHigh},
		{"MODES", &c.Modes},
	}
	for _, n := range ints {
		if err := getenvInt(n.key, n.dst); err != nil {
			return c, err
		}
	}

	pcts := []struct {
		key string
		dst *uint8
	}{
		{"LIGHT_LOW", &c.LightLow},
		{"LIGHT_HIGH", &c.LightHigh},
		{"LIGHT_BAND_LOW", &c.LightBandLow},
		{"LIGHT_BAND_HIGH", &c.LightBandHigh},
	}
	for _, p := range pcts {
		if err := getenvUint8(p.key, p.dst); err != nil {
			return c, err
		}
	}

	return c, c.Validate()
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, dst *time.Duration) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envPrefix+key, v, err)
	}
	*dst = d
	return nil
}

func getenvInt(key string, dst *int) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envPrefix+key, v, err)
	}
	*dst = n
	return nil
}

func getenvUint8(key string, dst *uint8) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envPrefix+key, v, err)
	}
	*dst = uint8(n)
	return nil
}
