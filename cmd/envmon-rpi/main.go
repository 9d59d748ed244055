//go:build linux && !tinygo

// Command envmon-rpi runs the monitor on a Raspberry Pi: DHT22 and button on
// GPIO, LCD on I2C, light divider through IIO, telemetry on a serial port.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"envmon/hal/provider"
	"envmon/logging"
	"envmon/services/config"
	"envmon/services/monitor"
	"envmon/x/strx"
)

func main() {
	boot := logging.New(os.Stderr, slog.LevelInfo, os.Getenv("APP_ENV"), "envmon-rpi")
	if os.Getenv("ENVMON_BOARD") == "" {
		os.Setenv("ENVMON_BOARD", "rpi")
	}
	cfg, err := config.LoadFromEnv(boot)
	if err != nil {
		boot.Error("config", "err", err)
		os.Exit(1)
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	log := logging.New(os.Stderr, level, os.Getenv("APP_ENV"), "envmon-rpi")

	plan := provider.RPiPlan
	plan.Telemetry.Port = strx.Coalesce(os.Getenv("ENVMON_SERIAL"), plan.Telemetry.Port)
	plan.ADCPath = strx.Coalesce(os.Getenv("ENVMON_ADC_PATH"), plan.ADCPath)
	plan.Cols, plan.Rows = cfg.Cols, cfg.Rows

	p, err := provider.Open(plan)
	if err != nil {
		log.Error("provider", "err", err)
		os.Exit(1)
	}
	defer p.Close()

	m, err := monitor.New(cfg, p.Board, log)
	if err != nil {
		log.Error("monitor", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := m.Run(ctx); err != nil {
		log.Error("run", "err", err)
		os.Exit(1)
	}
}
