//go:build !tinygo

// Command envmon runs the monitor against simulated hardware on a
// development host. Telemetry goes to stdout, logs to stderr.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"envmon/hal"
	"envmon/hal/sim"
	"envmon/logging"
	"envmon/services/config"
	"envmon/services/monitor"
)

type writerSink struct{ w io.Writer }

func (s writerSink) Transmit(b []byte) { _, _ = s.w.Write(b) }

func main() {
	boot := logging.New(os.Stderr, slog.LevelInfo, os.Getenv("APP_ENV"), "envmon")
	if os.Getenv("ENVMON_BOARD") == "" {
		os.Setenv("ENVMON_BOARD", "sim")
	}
	cfg, err := config.LoadFromEnv(boot)
	if err != nil {
		boot.Error("config", "err", err)
		os.Exit(1)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		boot.Error("config", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, level, os.Getenv("APP_ENV"), "envmon")

	clk := sim.NewClock(0, 1)
	dht := sim.NewDHTLine(clk)
	adc := sim.NewADC(2048)
	disp := sim.NewDisplay(cfg.Cols, cfg.Rows)
	btn := sim.NewPin(true)

	m, err := monitor.New(cfg, hal.Board{
		DHT:     dht,
		Clock:   clk,
		Light:   adc,
		Display: disp,
		Button:  btn,
		LED:     sim.NewPin(false),
		Sink:    writerSink{w: os.Stdout},
		Sleep:   clk.Sleep,
	}, log)
	if err != nil {
		log.Error("monitor", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go drive(ctx, log, dht, adc, btn, disp)

	if err := m.Run(ctx); err != nil {
		log.Error("run", "err", err)
		os.Exit(1)
	}
}

// drive walks the simulated environment through a slow daily-ish cycle,
// injects an occasional sensor fault, and presses the button every few
// seconds so every page gets shown.
func drive(ctx context.Context, log *slog.Logger, dht *sim.DHTLine, adc *sim.ADC, btn *sim.Pin, disp *sim.Display) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	temp, hum := int16(215), int16(450)
	dt, dh := int16(7), int16(13)
	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
		temp += dt
		if temp > 380 || temp < 150 {
			dt = -dt
		}
		hum += dh
		if hum > 880 || hum < 300 {
			dh = -dh
		}
		dht.SetReading(uint16(hum), temp)
		adc.Set(uint16((n * 311) % 4096))

		if n%17 == 16 {
			dht.SetFault(sim.FaultBitFall, n%40)
		} else {
			dht.SetFault(sim.FaultNone, 0)
		}
		if n%5 == 4 {
			btn.Set(false)
			time.Sleep(120 * time.Millisecond)
			btn.Set(true)
		}
		log.Debug("display", "line1", disp.Line(0), "line2", disp.Line(1))
	}
}
