//go:build tinygo

package logging

import (
	"io"
	"log/slog"
)

// New returns a plain text logger; env is ignored on the MCU.
func New(w io.Writer, level slog.Level, env, app string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).With("app", app)
}
