package types

import "envmon/errcode"

// ---- Environmental reading ----

// Reading is one sampling cycle. Temperature and humidity are zero unless
// SensorOK; light values are always filled but only trusted when LightOK.
type Reading struct {
	Seq uint32 `json:"seq"`

	TemperatureC int16  `json:"temp_c"`
	HumidityPct  uint8  `json:"hum_pct"`
	TempDeci     int16  `json:"temp_deci"` // tenths of °C
	HumDeci      uint16 `json:"hum_deci"`  // tenths of %RH

	LightPct  uint8  `json:"light_pct"`
	RawAnalog uint16 `json:"raw_analog"`

	SensorOK  bool         `json:"sensor_ok"`
	LightOK   bool         `json:"light_ok"`
	SensorErr errcode.Code `json:"sensor_err,omitempty"`
	LightErr  errcode.Code `json:"light_err,omitempty"`
}

// ---- Running maxima ----

// Maxima packs into 32 bits so it can live in a single atomic word.
type Maxima struct {
	TemperatureC int16 `json:"temp_c"`
	HumidityPct  uint8 `json:"hum_pct"`
	LightPct     uint8 `json:"light_pct"`
}

func (m Maxima) Pack() uint32 {
	return uint32(uint16(m.TemperatureC))<<16 | uint32(m.HumidityPct)<<8 | uint32(m.LightPct)
}

func UnpackMaxima(v uint32) Maxima {
	return Maxima{
		TemperatureC: int16(uint16(v >> 16)),
		HumidityPct:  uint8(v >> 8),
		LightPct:     uint8(v),
	}
}

// Merge returns the component-wise maximum of m and r. Only valid fields of
// r participate: temperature and humidity need SensorOK, light needs both
// SensorOK and LightOK.
func (m Maxima) Merge(r Reading) Maxima {
	if !r.SensorOK {
		return m
	}
	if r.TemperatureC > m.TemperatureC {
		m.TemperatureC = r.TemperatureC
	}
	if r.HumidityPct > m.HumidityPct {
		m.HumidityPct = r.HumidityPct
	}
	if r.LightOK && r.LightPct > m.LightPct {
		m.LightPct = r.LightPct
	}
	return m
}

// ---- Display mode ----

// DisplayMode selects a page, 1..N.
type DisplayMode uint8

// Next advances the mode, wrapping after max back to 1.
func (d DisplayMode) Next(max DisplayMode) DisplayMode {
	if d >= max || d < 1 {
		return 1
	}
	return d + 1
}
