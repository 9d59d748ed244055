package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"envmon/errcode"
	"envmon/x/boundq"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default invalid: %v", err)
	}
	if c.QueueCap != 4 || c.TempHigh != 35 || c.HumHigh != 80 || c.LightLow != 10 || c.LightHigh != 90 {
		t.Fatalf("thresholds drifted: %+v", c)
	}
	if c.Policy() != boundq.DropNewest {
		t.Fatalf("default policy = %v", c.Policy())
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"receive not shorter than period", func(c *Config) { c.ReceiveTimeout = c.SamplePeriod }},
		{"inverted light band", func(c *Config) { c.LightBandLow, c.LightBandHigh = 99, 1 }},
		{"inverted thresholds", func(c *Config) { c.LightLow = 95 }},
		{"zero queue", func(c *Config) { c.QueueCap = 0 }},
		{"bad policy", func(c *Config) { c.QueuePolicy = "newest_wins" }},
		{"bad variant", func(c *Config) { c.Variant = "dual" }},
		{"zero wait timeout", func(c *Config) { c.WaitTimeout = 0 }},
		{"narrow display", func(c *Config) { c.Cols = 4 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mut(&c)
			err := c.Validate()
			if errcode.Of(err) != errcode.InvalidConfig {
				t.Fatalf("Validate = %v, want invalid_config", err)
			}
		})
	}
}

func TestForBoard(t *testing.T) {
	c, err := ForBoard("rpi")
	if err != nil {
		t.Fatal(err)
	}
	if c.WaitTimeout != 2*time.Millisecond || c.Policy() != boundq.DropOldest {
		t.Fatalf("rpi preset not applied: %+v", c)
	}
	if _, err := ForBoard("esp32"); errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("unknown board err = %v", err)
	}

	old := BoardLookup
	BoardLookup = func(string) (func(*Config), bool) {
		return func(c *Config) { c.Modes = 2 }, true
	}
	t.Cleanup(func() { BoardLookup = old })
	c, _ = ForBoard("custom")
	if c.Modes != 2 || c.Board != "custom" {
		t.Fatalf("lookup override not used: %+v", c)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENVMON_BOARD", "sim")
	t.Setenv("ENVMON_VARIANT", "simple")
	t.Setenv("ENVMON_SAMPLE_PERIOD", "2s")
	t.Setenv("ENVMON_QUEUE_CAP", "8")
	t.Setenv("ENVMON_LIGHT_BAND_LOW", "5")
	t.Setenv("ENVMON_LIGHT_BAND_HIGH", "95")

	c, err := LoadFromEnv(nil, "testdata/none.env")
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if c.Variant != VariantSimple || c.SamplePeriod != 2*time.Second || c.QueueCap != 8 {
		t.Fatalf("env not applied: %+v", c)
	}
	if c.LightBandLow != 5 || c.LightBandHigh != 95 {
		t.Fatalf("band = %d..%d", c.LightBandLow, c.LightBandHigh)
	}
	if c.StartupDelay != 0 {
		t.Fatal("sim preset not applied")
	}
}

func TestLoadFromEnvBadValues(t *testing.T) {
	cases := []struct {
		key, val, want string
	}{
		{"ENVMON_ALERT_DWELL", "soon", `invalid ENVMON_ALERT_DWELL "soon"`},
		{"ENVMON_TEMP_HIGH", "hot", `invalid ENVMON_TEMP_HIGH "hot"`},
		{"ENVMON_LIGHT_LOW", "300", `invalid ENVMON_LIGHT_LOW "300"`},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			t.Setenv(c.key, c.val)
			_, err := LoadFromEnv(nil, "testdata/none.env")
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("err = %v, want %q", err, c.want)
			}
		})
	}
}

func TestLoadFromEnvValidates(t *testing.T) {
	t.Setenv("ENVMON_RECEIVE_TIMEOUT", "5s")
	_, err := LoadFromEnv(nil, "testdata/none.env")
	var e *errcode.E
	if !errors.As(err, &e) || e.C != errcode.InvalidConfig {
		t.Fatalf("err = %v, want invalid_config", err)
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	t.Cleanup(func() {
		os.Unsetenv("ENVMON_TEMP_HIGH")
		os.Unsetenv("ENVMON_QUEUE_POLICY")
	})
	c, err := LoadFromEnv(nil, "testdata/dev.env")
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if c.TempHigh != 30 || c.QueuePolicy != "block" {
		t.Fatalf(".env not applied: %+v", c)
	}
}
