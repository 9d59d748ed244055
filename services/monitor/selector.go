package monitor

import (
	"context"
	"log/slog"
	"time"

	"envmon/hal"
	"envmon/logging"
)

// Selector turns presses of an active-low button into mode changes. A press
// is a high sample followed by a low one, so holding the button counts once.
type Selector struct {
	btn  hal.Button
	mode *ModeCell
	poll time.Duration
	log  *slog.Logger
	prev bool
}

func NewSelector(btn hal.Button, mode *ModeCell, poll time.Duration, log *slog.Logger) *Selector {
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Selector{btn: btn, mode: mode, poll: poll, log: log, prev: true}
}

// Sample reads the button once and reports whether a press was seen.
func (s *Selector) Sample() bool {
	cur := s.btn.Get()
	pressed := s.prev && !cur
	s.prev = cur
	if pressed {
		m := s.mode.Advance()
		s.log.Debug("display mode", "mode", m)
	}
	return pressed
}

func (s *Selector) Run(ctx context.Context) error {
	tick := time.NewTicker(s.poll)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			s.Sample()
		}
	}
}
