package monitor

import (
	"testing"

	"envmon/types"
)

func TestRenderPages(t *testing.T) {
	r := types.Reading{
		TemperatureC: 26, HumidityPct: 20, TempDeci: 264, HumDeci: 205,
		LightPct: 47, RawAnalog: 1934, SensorOK: true, LightOK: true,
	}
	m := types.Maxima{TemperatureC: 31, HumidityPct: 7, LightPct: 88}
	cases := []struct {
		mode         types.DisplayMode
		line1, line2 string
	}{
		{1, "T:264 H:205     ", "L:1934       [1]"},
		{2, "T:26\xDFC H:20%    ", "L:47%        [2]"},
		{3, "T:31\xDFC H:07%    ", "L:88%        [3]"},
		{4, "DHT:OK LDR:OK   ", "System Running  "},
	}
	for _, c := range cases {
		p := Render(c.mode, r, m, 16)
		if p.Line1 != c.line1 || p.Line2 != c.line2 {
			t.Fatalf("mode %d:\n got %q / %q\nwant %q / %q", c.mode, p.Line1, p.Line2, c.line1, c.line2)
		}
	}
}

func TestRenderFailureAndPadding(t *testing.T) {
	r := types.Reading{RawAnalog: 7, LightPct: 0}
	p := Render(4, r, types.Maxima{}, 16)
	if p.Line1 != "DHT:FAIL LDR:FAI" {
		t.Fatalf("status line = %q", p.Line1)
	}
	p = Render(1, r, types.Maxima{}, 16)
	if p.Line1 != "T:000 H:000     " || p.Line2 != "L:7          [1]" {
		t.Fatalf("raw page = %q / %q", p.Line1, p.Line2)
	}
	for mode := types.DisplayMode(1); mode <= 4; mode++ {
		p := Render(mode, types.Reading{TempDeci: -125, TemperatureC: -12}, types.Maxima{}, 16)
		if len(p.Line1) != 16 || len(p.Line2) != 16 {
			t.Fatalf("mode %d widths %d/%d", mode, len(p.Line1), len(p.Line2))
		}
	}
}

func TestWaitingPage(t *testing.T) {
	p := WaitingPage(16)
	if p.Line1 != "Waiting for data" || p.Line2 != "System Starting " {
		t.Fatalf("waiting page = %q / %q", p.Line1, p.Line2)
	}
}
