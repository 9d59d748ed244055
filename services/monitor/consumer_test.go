package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"envmon/hal/sim"
	"envmon/types"
	"envmon/x/boundq"
)

// pageLog records every page drawn, as pairs of lines.
type pageLog struct {
	mu     sync.Mutex
	row    int
	cur    [2]string
	pages  []Page
	clears int
}

func (d *pageLog) Clear()                 { d.mu.Lock(); d.clears++; d.mu.Unlock() }
func (d *pageLog) SetCursor(row, col int) { d.mu.Lock(); d.row = row; d.mu.Unlock() }
func (d *pageLog) WriteString(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cur[d.row] = s
	if d.row == 1 {
		d.pages = append(d.pages, Page{d.cur[0], d.cur[1]})
	}
}

func newTestConsumer(in Handoff, disp *pageLog, alerts bool) (*Consumer, *recordLines, *ModeCell, *MaximaCell) {
	tx := &recordLines{}
	mode := NewModeCell(4)
	mx := &MaximaCell{}
	c := NewConsumer(ConsumerConfig{
		In: in, Display: disp, Tx: tx, Maxima: mx, Mode: mode,
		Alerts: alerts, Thresholds: defaultThresholds,
		Cols: 16, ReceiveTimeout: 5 * time.Millisecond,
	})
	return c, tx, mode, mx
}

func TestConsumerWaitingThenReading(t *testing.T) {
	q := newQueue(boundq.DropNewest)
	disp := &pageLog{}
	c, tx, _, _ := newTestConsumer(q, disp, true)
	ctx := context.Background()

	c.Cycle(ctx)
	if c.Shown() != WaitingPage(16) {
		t.Fatalf("first page = %+v", c.Shown())
	}

	q.Publish(types.Reading{Seq: 1, SensorOK: true, LightOK: true, TemperatureC: 22, HumidityPct: 40, TempDeci: 221, HumDeci: 403, RawAnalog: 2000, LightPct: 48})
	c.Cycle(ctx)
	if got := c.Shown(); got.Line1 != "T:221 H:403     " || got.Line2 != "L:2000       [1]" {
		t.Fatalf("page = %+v", got)
	}
	if len(tx.all()) != 0 {
		t.Fatalf("unexpected telemetry %q", tx.all())
	}
}

func TestConsumerAlertPageThenNormal(t *testing.T) {
	q := newQueue(boundq.DropNewest)
	disp := &pageLog{}
	c, tx, mode, _ := newTestConsumer(q, disp, true)
	mode.Advance() // page 2

	q.Publish(types.Reading{SensorOK: true, LightOK: true, TemperatureC: 38, HumidityPct: 85, LightPct: 50})
	c.Cycle(context.Background())

	want := []string{"ALERT: TEMP TOO HIGH\r\n", "ALERT: HUMIDITY TOO HIGH\r\n"}
	got := tx.all()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("telemetry = %q, want %q", got, want)
	}
	if len(disp.pages) != 2 {
		t.Fatalf("pages = %+v", disp.pages)
	}
	if disp.pages[0] != (Page{"TEMP TOO HIGH   ", "HUMIDITY TOO HIG"}) {
		t.Fatalf("alert page = %+v", disp.pages[0])
	}
	if disp.pages[1].Line2 != "L:50%        [2]" {
		t.Fatalf("normal page = %+v", disp.pages[1])
	}
	if disp.clears != 1 {
		t.Fatalf("clears = %d", disp.clears)
	}
}

func TestConsumerSensorErrorOverrides(t *testing.T) {
	q := newQueue(boundq.DropNewest)
	disp := &pageLog{}
	c, tx, _, _ := newTestConsumer(q, disp, true)
	q.Publish(types.Reading{SensorOK: false, LightOK: false, LightPct: 0})
	c.Cycle(context.Background())
	if got := tx.all(); len(got) != 1 || got[0] != "ALERT: SENSOR ERROR\r\n" {
		t.Fatalf("telemetry = %q", got)
	}
	if disp.pages[0] != (Page{"SENSOR ERROR    ", "CHECK SYSTEM    "}) {
		t.Fatalf("alert page = %+v", disp.pages[0])
	}
}

func TestConsumerRedrawsLastOnTimeout(t *testing.T) {
	q := newQueue(boundq.DropNewest)
	disp := &pageLog{}
	c, tx, mode, mx := newTestConsumer(q, disp, true)
	r := types.Reading{SensorOK: true, LightOK: true, TemperatureC: 38, HumidityPct: 40, LightPct: 50}
	q.Publish(r)
	mx.Observe(r)
	c.Cycle(context.Background())
	n := len(tx.all())

	mode.Advance()
	mode.Advance() // page 3
	c.Cycle(context.Background())
	if len(tx.all()) != n {
		t.Fatal("alerts re-raised without a new reading")
	}
	if got := c.Shown(); got.Line1 != "T:38\xDFC H:40%    " || got.Line2 != "L:50%        [3]" {
		t.Fatalf("maxima page = %+v", got)
	}
}

func TestConsumerAlertsDisabled(t *testing.T) {
	cell := NewLatestCell()
	disp := &pageLog{}
	c, tx, _, _ := newTestConsumer(cell, disp, false)
	cell.Publish(types.Reading{SensorOK: false})
	c.Cycle(context.Background())
	if len(tx.all()) != 0 || len(disp.pages) != 1 {
		t.Fatalf("alerts fired in simple mode: %q %+v", tx.all(), disp.pages)
	}
}

func TestConsumerRunOnSimDisplay(t *testing.T) {
	q := newQueue(boundq.DropNewest)
	disp := sim.NewDisplay(16, 2)
	c := NewConsumer(ConsumerConfig{
		In: q, Display: disp, Alerts: true, Thresholds: defaultThresholds,
		ReceiveTimeout: 2 * time.Millisecond, Period: 2 * time.Millisecond,
	})
	q.Publish(types.Reading{SensorOK: true, LightOK: true, TemperatureC: 20, HumidityPct: 30, LightPct: 40, TempDeci: 200, HumDeci: 300, RawAnalog: 1640})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := c.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if disp.Line(0) != "T:200 H:300     " || disp.Line(1) != "L:1640       [1]" {
		t.Fatalf("display = %q / %q", disp.Line(0), disp.Line(1))
	}
	if disp.Clears != 1 {
		t.Fatalf("clears = %d", disp.Clears)
	}
}
