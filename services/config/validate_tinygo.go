//go:build tinygo

package config

import "envmon/errcode"

// Validate checks the invariants the tasks depend on. Reflection-based
// validation is not available on the MCU build.
func (c Config) Validate() error {
	bad := func(field string) error {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: field}
	}
	switch {
	case c.Variant != VariantPipeline && c.Variant != VariantSimple:
		return bad("Variant")
	case c.SamplePeriod <= 0, c.DisplayPeriod <= 0, c.ButtonPoll <= 0:
		return bad("period")
	case c.ReceiveTimeout <= 0 || c.ReceiveTimeout >= c.SamplePeriod:
		return bad("ReceiveTimeout")
	case c.QueueCap < 1 || c.QueueCap > 64:
		return bad("QueueCap")
	case c.TelemetryCap < 1:
		return bad("TelemetryCap")
	case c.LightLow >= c.LightHigh || c.LightHigh > 100:
		return bad("LightLow")
	case c.LightBandLow >= c.LightBandHigh || c.LightBandHigh > 100:
		return bad("LightBandLow")
	case c.LightFullScale == 0:
		return bad("LightFullScale")
	case c.WaitTimeout <= 0 || c.SampleDelay <= 0 || c.StartPulse <= 0:
		return bad("decoder timing")
	case c.Cols < 8 || c.Rows < 2 || c.Modes < 1 || c.Modes > 4:
		return bad("display")
	}
	switch c.QueuePolicy {
	case "drop_newest", "drop_oldest", "block":
	default:
		return bad("QueuePolicy")
	}
	return nil
}
