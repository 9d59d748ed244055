//go:build rp2040

package main

import (
	"context"
	"log/slog"
	"time"

	"envmon/hal/provider"
	"envmon/logging"
	"envmon/services/config"
	"envmon/services/monitor"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	cfg, err := config.ForBoard("pico")
	if err != nil {
		failForever("config: " + err.Error())
	}
	p, err := provider.Open(provider.PicoPlan)
	if err != nil {
		failForever("provider: " + err.Error())
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	log := logging.New(p.Console, level, "", "envmon")

	m, err := monitor.New(cfg, p.Board, log)
	if err != nil {
		log.Error("monitor", slog.String("err", err.Error()))
		failForever(err.Error())
	}
	if err := m.Run(context.Background()); err != nil {
		failForever(err.Error())
	}
}

func failForever(msg string) {
	for {
		println("Error:", msg)
		time.Sleep(10 * time.Second)
	}
}
