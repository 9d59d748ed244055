package monitor

import (
	"envmon/types"
	"envmon/x/conv"
	"envmon/x/strx"
)

// DegreeGlyph is the HD44780 ROM code for the degree sign.
const DegreeGlyph = 0xDF

// Page is two display lines, each exactly the display width.
type Page struct {
	Line1, Line2 string
}

// Page layout: the mode tag "[n]" sits in the last three columns of line 2.
const (
	PageRaw     types.DisplayMode = 1
	PageCurrent types.DisplayMode = 2
	PageMaxima  types.DisplayMode = 3
	PageStatus  types.DisplayMode = 4
)

// Render builds the normal page for mode. Modes past the last numeric page
// show the status page.
func Render(mode types.DisplayMode, r types.Reading, m types.Maxima, cols int) Page {
	var l1, l2 []byte
	switch mode {
	case PageRaw:
		l1 = append(l1, "T:"...)
		l1 = conv.AppendIntPad(l1, int64(r.TempDeci), 3)
		l1 = append(l1, " H:"...)
		l1 = conv.AppendIntPad(l1, int64(r.HumDeci), 3)
		l2 = append(l2, "L:"...)
		l2 = conv.AppendInt(l2, int64(r.RawAnalog))
		l2 = tagged(l2, mode, cols)
	case PageCurrent:
		l1 = tempHum(l1, int64(r.TemperatureC), int64(r.HumidityPct))
		l2 = tagged(lightPct(l2, r.LightPct), mode, cols)
	case PageMaxima:
		l1 = tempHum(l1, int64(m.TemperatureC), int64(m.HumidityPct))
		l2 = tagged(lightPct(l2, m.LightPct), mode, cols)
	default:
		l1 = append(l1, "DHT:"...)
		l1 = append(l1, okFail(r.SensorOK)...)
		l1 = append(l1, " LDR:"...)
		l1 = append(l1, okFail(r.LightOK)...)
		l2 = append(l2, "System Running"...)
	}
	return Page{Line1: string(strx.Fit(l1, cols)), Line2: string(strx.Fit(l2, cols))}
}

// WaitingPage is shown until the first reading arrives.
func WaitingPage(cols int) Page {
	return Page{
		Line1: string(strx.Fit([]byte("Waiting for data"), cols)),
		Line2: string(strx.Fit([]byte("System Starting"), cols)),
	}
}

func tempHum(b []byte, t, h int64) []byte {
	b = append(b, "T:"...)
	b = conv.AppendIntPad(b, t, 2)
	b = append(b, DegreeGlyph, 'C', ' ', 'H', ':')
	b = conv.AppendIntPad(b, h, 2)
	return append(b, '%')
}

func lightPct(b []byte, pct uint8) []byte {
	b = append(b, "L:"...)
	b = conv.AppendInt(b, int64(pct))
	return append(b, '%')
}

func tagged(b []byte, mode types.DisplayMode, cols int) []byte {
	b = strx.PadTo(b, cols-3)
	b = append(b, '[')
	b = conv.AppendInt(b, int64(mode))
	return append(b, ']')
}

func okFail(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}
