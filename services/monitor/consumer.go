package monitor

import (
	"context"
	"log/slog"
	"time"

	"envmon/hal"
	"envmon/logging"
	"envmon/types"
	"envmon/x/timex"
)

type Consumer struct {
	in      Handoff
	disp    hal.Display
	tx      Lines
	maxima  *MaximaCell
	mode    *ModeCell
	log     *slog.Logger
	alerts  bool
	th      Thresholds
	cols    int
	recv    time.Duration
	dwell   time.Duration
	period  time.Duration
	startup time.Duration

	last    types.Reading
	hasLast bool
	shown   Page
}

type ConsumerConfig struct {
	In      Handoff
	Display hal.Display
	Tx      Lines
	Maxima  *MaximaCell
	Mode    *ModeCell
	Log     *slog.Logger

	// Alerts enables alert evaluation and the alert page.
	Alerts     bool
	Thresholds Thresholds

	Cols           int
	ReceiveTimeout time.Duration
	AlertDwell     time.Duration
	Period         time.Duration
	StartupDelay   time.Duration
}

func NewConsumer(c ConsumerConfig) *Consumer {
	if c.Cols <= 0 {
		c.Cols = 16
	}
	if c.ReceiveTimeout <= 0 {
		c.ReceiveTimeout = 100 * time.Millisecond
	}
	if c.Period <= 0 {
		c.Period = time.Second
	}
	if c.Log == nil {
		c.Log = logging.Discard()
	}
	if c.Maxima == nil {
		c.Maxima = &MaximaCell{}
	}
	if c.Mode == nil {
		c.Mode = NewModeCell(4)
	}
	return &Consumer{
		in: c.In, disp: c.Display, tx: c.Tx, maxima: c.Maxima, mode: c.Mode, log: c.Log,
		alerts: c.Alerts, th: c.Thresholds, cols: c.Cols,
		recv: c.ReceiveTimeout, dwell: c.AlertDwell, period: c.Period, startup: c.StartupDelay,
	}
}

// Cycle waits briefly for a reading, raises its alerts, and then draws the
// page for the current mode. With no new reading the previous one is
// redrawn so a mode change still shows up.
func (c *Consumer) Cycle(ctx context.Context) {
	r, ok := c.in.Receive(ctx.Done(), c.recv)
	if ok {
		c.last, c.hasLast = r, true
		if c.alerts {
			c.raise(ctx, r)
		}
	}
	if !c.hasLast {
		c.show(WaitingPage(c.cols))
		return
	}
	c.show(Render(c.mode.Load(), c.last, c.maxima.Load(), c.cols))
}

func (c *Consumer) raise(ctx context.Context, r types.Reading) {
	v := Evaluate(r, c.th)
	if !v.Any() {
		return
	}
	for _, a := range v.Alerts() {
		if c.tx != nil {
			c.tx.Send(a.Telemetry())
		}
		c.log.Warn("alert", "alert", a.String(), "seq", r.Seq)
	}
	c.disp.Clear()
	c.show(v.Page(c.cols))
	timex.SleepCtx(ctx.Done(), c.dwell)
}

func (c *Consumer) show(p Page) {
	c.disp.SetCursor(0, 0)
	c.disp.WriteString(p.Line1)
	c.disp.SetCursor(1, 0)
	c.disp.WriteString(p.Line2)
	c.shown = p
}

// Shown returns the page last written to the display.
func (c *Consumer) Shown() Page { return c.shown }

// Run waits for the display to power up, clears it, and then cycles once
// per period until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("consumer started", "alerts", c.alerts, "period", c.period)
	if !timex.SleepCtx(ctx.Done(), c.startup) {
		return nil
	}
	c.disp.Clear()
	for {
		c.Cycle(ctx)
		if !timex.SleepCtx(ctx.Done(), c.period) {
			c.log.Info("consumer stopping")
			return nil
		}
	}
}
