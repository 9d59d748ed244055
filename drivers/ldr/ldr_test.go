package ldr

import (
	"testing"

	"envmon/errcode"
	"envmon/hal/sim"
)

func TestReadBands(t *testing.T) {
	cases := []struct {
		raw  uint16
		pct  uint8
		ok   bool
		code errcode.Code
	}{
		{0, 0, false, errcode.LightImplausible},
		{41, 1, false, errcode.LightImplausible},
		{82, 2, true, errcode.OK},
		{2048, 50, true, errcode.OK},
		{4013, 97, true, errcode.OK},
		{4054, 98, true, errcode.OK},
		{4095, 100, false, errcode.LightImplausible},
	}
	for _, c := range cases {
		adc := sim.NewADC(c.raw)
		s, err := New(adc, Config{}).Read()
		if s.Raw != c.raw || s.Pct != c.pct || s.OK != c.ok {
			t.Fatalf("raw %d: got %+v, want pct=%d ok=%v", c.raw, s, c.pct, c.ok)
		}
		if errcode.Of(err) != c.code {
			t.Fatalf("raw %d: err %v, want %q", c.raw, err, c.code)
		}
		if adc.Starts.Load() != 1 || adc.Stops.Load() != 1 {
			t.Fatalf("conversion not bracketed: starts=%d stops=%d", adc.Starts.Load(), adc.Stops.Load())
		}
	}
}

func TestReadConfigurableBand(t *testing.T) {
	adc := sim.NewADC(4054) // 98%
	s, err := New(adc, Config{BandLow: 5, BandHigh: 95}).Read()
	if err == nil || s.OK || s.Pct != 98 {
		t.Fatalf("98%% should fail a 5..95 band: %+v %v", s, err)
	}
}

func TestReadTimeoutStopsConversion(t *testing.T) {
	adc := sim.NewADC(2000)
	adc.SetStuck(true)
	s, err := New(adc, Config{}).Read()
	if errcode.Of(err) != errcode.ADCTimeout {
		t.Fatalf("err = %v", err)
	}
	if s.OK || s.Raw != 0 {
		t.Fatalf("timeout sample = %+v", s)
	}
	if adc.Stops.Load() != 1 {
		t.Fatal("conversion left running")
	}
}
