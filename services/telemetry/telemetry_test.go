package telemetry

import (
	"context"
	"testing"
	"time"

	"envmon/bus"
	"envmon/hal/sim"
)

func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestLinesArriveInOrder(t *testing.T) {
	sink := &sim.Sink{}
	s := New(bus.NewBus(4), sink, 8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Send([]byte("a\r\n"))
	s.Send([]byte("b\r\n"))
	s.Send([]byte("c\r\n"))
	waitFor(t, time.Second, func() bool { return len(sink.Lines()) == 3 })
	got := sink.Lines()
	if got[0] != "a\r\n" || got[1] != "b\r\n" || got[2] != "c\r\n" {
		t.Fatalf("lines = %q", got)
	}
	if s.Sent() != 3 {
		t.Fatalf("Sent = %d", s.Sent())
	}
}

func TestSendCopiesAndDropsWhenFull(t *testing.T) {
	sink := &sim.Sink{}
	s := New(bus.NewBus(4), sink, 2, nil)
	buf := []byte("one")
	if !s.Send(buf) {
		t.Fatal("first send dropped")
	}
	copy(buf, "XXX")
	s.Send([]byte("two"))
	if s.Send([]byte("three")) {
		t.Fatal("third send should drop with no runner")
	}
	if s.Dropped() != 1 {
		t.Fatalf("Dropped = %d", s.Dropped())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := sink.Lines()
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("flushed = %q", got)
	}
}

func TestOtherPublishersReachTheSink(t *testing.T) {
	b := bus.NewBus(4)
	sink := &sim.Sink{}
	s := New(b, sink, 4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	c := b.NewConnection("other")
	if err := c.Publish(b.NewMessage(TopicLine, []byte("x\r\n"), false)); err != nil {
		t.Fatal(err)
	}
	c.Publish(b.NewMessage(TopicLine, "not bytes", false))
	waitFor(t, time.Second, func() bool { return s.Sent() == 1 })
	if got := sink.Lines(); len(got) != 1 || got[0] != "x\r\n" {
		t.Fatalf("lines = %q", got)
	}
}
