package monitor

import (
	"envmon/types"
	"envmon/x/strx"
)

type Alert uint8

const (
	AlertSensor Alert = iota + 1
	AlertLightSensor
	AlertTempHigh
	AlertHumHigh
	AlertLightLow
	AlertLightHigh
)

var alertText = [...]string{
	AlertSensor:      "SENSOR ERROR",
	AlertLightSensor: "LIGHT SENSOR ERROR",
	AlertTempHigh:    "TEMP TOO HIGH",
	AlertHumHigh:     "HUMIDITY TOO HIGH",
	AlertLightLow:    "LIGHT LEVEL LOW",
	AlertLightHigh:   "LIGHT LEVEL HIGH",
}

func (a Alert) String() string {
	if int(a) < len(alertText) && alertText[a] != "" {
		return alertText[a]
	}
	return "UNKNOWN ALERT"
}

// Telemetry returns the line sent to the sink for a.
func (a Alert) Telemetry() []byte {
	b := make([]byte, 0, 32)
	b = append(b, "ALERT: "...)
	b = append(b, a.String()...)
	return append(b, "\r\n"...)
}

type Thresholds struct {
	TempHigh  int
	HumHigh   int
	LightLow  uint8
	LightHigh uint8
}

// Verdict is the ordered set of alerts raised by one reading. At most three
// can fire together (temperature, humidity, one light level).
type Verdict struct {
	alerts [3]Alert
	n      int
}

func (v *Verdict) add(a Alert) { v.alerts[v.n] = a; v.n++ }

func (v Verdict) Any() bool       { return v.n > 0 }
func (v Verdict) Alerts() []Alert { return v.alerts[:v.n] }

// Evaluate applies the alert rules. A sensor failure hides every other
// alert; a light-sensor failure hides the threshold checks. Otherwise each
// threshold is checked independently in a fixed order.
func Evaluate(r types.Reading, th Thresholds) Verdict {
	var v Verdict
	switch {
	case !r.SensorOK:
		v.add(AlertSensor)
	case !r.LightOK:
		v.add(AlertLightSensor)
	default:
		if int(r.TemperatureC) > th.TempHigh {
			v.add(AlertTempHigh)
		}
		if int(r.HumidityPct) > th.HumHigh {
			v.add(AlertHumHigh)
		}
		if r.LightPct < th.LightLow {
			v.add(AlertLightLow)
		} else if r.LightPct > th.LightHigh {
			v.add(AlertLightHigh)
		}
	}
	return v
}

const alertFallback = "CHECK SYSTEM"

// Page lays the first two alerts onto a display page of the given width.
// Further alerts have no line. An unclaimed second line reads CHECK SYSTEM.
func (v Verdict) Page(cols int) Page {
	var p Page
	if v.n == 0 {
		return p
	}
	p.Line1 = string(strx.Fit([]byte(v.alerts[0].String()), cols))
	second := alertFallback
	if v.n > 1 {
		second = v.alerts[1].String()
	}
	p.Line2 = string(strx.Fit([]byte(second), cols))
	return p
}
