package monitor

import (
	"testing"
	"time"

	"envmon/bus"
	"envmon/errcode"
	"envmon/types"
	"envmon/x/boundq"
)

func newQueue(policy boundq.Policy) *QueueHandoff {
	return NewQueueHandoff(bus.NewBus(4), 4, policy, 0)
}

func TestQueueHandoffOrderAndDropNewest(t *testing.T) {
	h := newQueue(boundq.DropNewest)
	for seq := uint32(1); seq <= 6; seq++ {
		err := h.Publish(types.Reading{Seq: seq})
		if full := seq > 4; full != (errcode.Of(err) == errcode.QueueFull) {
			t.Fatalf("publish %d: err = %v", seq, err)
		}
	}
	if h.Dropped() != 2 {
		t.Fatalf("Dropped = %d, want 2", h.Dropped())
	}
	for want := uint32(1); want <= 4; want++ {
		r, ok := h.Receive(nil, 10*time.Millisecond)
		if !ok || r.Seq != want {
			t.Fatalf("Receive = %d,%v want %d", r.Seq, ok, want)
		}
	}
	if _, ok := h.Receive(nil, 5*time.Millisecond); ok {
		t.Fatal("queue should be drained")
	}
}

func TestQueueHandoffDropOldest(t *testing.T) {
	h := newQueue(boundq.DropOldest)
	for seq := uint32(1); seq <= 6; seq++ {
		h.Publish(types.Reading{Seq: seq})
	}
	r, _ := h.Receive(nil, time.Millisecond)
	if r.Seq != 3 || h.Dropped() != 2 {
		t.Fatalf("head = %d dropped = %d, want 3/2", r.Seq, h.Dropped())
	}
}

func TestQueueHandoffSharesTopic(t *testing.T) {
	b := bus.NewBus(4)
	h := NewQueueHandoff(b, 4, boundq.DropNewest, 0)
	tap := b.NewConnection("tap").Subscribe(TopicReading)

	if err := h.Publish(types.Reading{Seq: 7}); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-tap.Channel():
		if r := msg.Payload.(types.Reading); r.Seq != 7 {
			t.Fatalf("tap got seq %d", r.Seq)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("second subscriber saw nothing")
	}
	if r, ok := h.Receive(nil, time.Millisecond); !ok || r.Seq != 7 {
		t.Fatalf("Receive = %d,%v", r.Seq, ok)
	}

	h.Close()
	if _, ok := h.Receive(nil, time.Second); ok {
		t.Fatal("Receive after Close returned a reading")
	}
}

func TestLatestCell(t *testing.T) {
	c := NewLatestCell()
	if _, ok := c.Receive(nil, 5*time.Millisecond); ok {
		t.Fatal("empty cell returned a reading")
	}
	c.Publish(types.Reading{Seq: 1})
	c.Publish(types.Reading{Seq: 2})
	r, ok := c.Receive(nil, time.Millisecond)
	if !ok || r.Seq != 2 {
		t.Fatalf("Receive = %d,%v want 2", r.Seq, ok)
	}
	if c.Dropped() != 1 {
		t.Fatalf("Dropped = %d", c.Dropped())
	}
	if _, ok := c.Receive(nil, 5*time.Millisecond); ok {
		t.Fatal("same reading delivered twice")
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		c.Publish(types.Reading{Seq: 3})
	}()
	r, ok = c.Receive(nil, time.Second)
	if !ok || r.Seq != 3 {
		t.Fatalf("waiting Receive = %d,%v", r.Seq, ok)
	}
}

func TestModeCellCycles(t *testing.T) {
	m := NewModeCell(4)
	want := []types.DisplayMode{2, 3, 4, 1}
	for i, w := range want {
		if got := m.Advance(); got != w || m.Load() != w {
			t.Fatalf("press %d: mode %d, want %d", i+1, got, w)
		}
	}
}

func TestMaximaCellObserve(t *testing.T) {
	var c MaximaCell
	if _, raised := c.Observe(types.Reading{SensorOK: false, TemperatureC: 80}); raised {
		t.Fatal("failed reading raised maxima")
	}
	m, raised := c.Observe(types.Reading{SensorOK: true, LightOK: true, TemperatureC: 24, HumidityPct: 50, LightPct: 40})
	if !raised || m != (types.Maxima{TemperatureC: 24, HumidityPct: 50, LightPct: 40}) {
		t.Fatalf("Observe = %+v,%v", m, raised)
	}
	if _, raised := c.Observe(types.Reading{SensorOK: true, LightOK: true, TemperatureC: 20, HumidityPct: 10, LightPct: 5}); raised {
		t.Fatal("lower reading raised maxima")
	}
	if c.Load() != m {
		t.Fatalf("Load = %+v", c.Load())
	}
}
