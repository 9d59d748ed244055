package dht22

// Frame is the 40-bit sensor payload: humidity hi/lo, temperature hi/lo,
// checksum. Bits arrive MSB first.
type Frame [5]byte

// Sum is the truncated 8-bit sum of the four data bytes.
func (f Frame) Sum() byte { return f[0] + f[1] + f[2] + f[3] }

// Valid reports whether the checksum byte matches.
func (f Frame) Valid() bool { return f[4] == f.Sum() }

// Measurement holds fixed-point values in tenths of a unit.
type Measurement struct {
	HumidityDeci    uint16 // tenths of %RH
	TemperatureDeci int16  // tenths of °C
}

// Decode converts a frame without checking its checksum. The temperature
// word is sign-magnitude: bit 15 is the sign, bits 0..14 the magnitude.
func (f Frame) Decode() Measurement {
	h := uint16(f[0])<<8 | uint16(f[1])
	raw := uint16(f[2])<<8 | uint16(f[3])
	t := int16(raw & 0x7FFF)
	if raw&0x8000 != 0 {
		t = -t
	}
	return Measurement{HumidityDeci: h, TemperatureDeci: t}
}

// Humidity in whole %RH, truncated.
func (m Measurement) Humidity() int { return int(m.HumidityDeci / 10) }

// Temperature in whole °C, truncated toward zero.
func (m Measurement) Temperature() int { return int(m.TemperatureDeci) / 10 }
