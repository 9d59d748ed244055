// Package telemetry serialises text lines from several tasks onto one
// byte sink. Lines travel over the bus on TopicLine; callers never block,
// and a full queue drops the line.
package telemetry

import (
	"context"
	"log/slog"
	"sync/atomic"

	"envmon/bus"
	"envmon/hal"
	"envmon/x/boundq"
)

var TopicLine = bus.Topic{"telemetry", "line"}

type Service struct {
	sink hal.Sink
	conn *bus.Connection
	sub  *bus.Subscription
	log  *slog.Logger

	sent atomic.Uint32
}

// New subscribes to TopicLine on b with room for outBuf pending lines
// (default 16).
func New(b *bus.Bus, sink hal.Sink, outBuf int, log *slog.Logger) *Service {
	if outBuf <= 0 {
		outBuf = 16
	}
	conn := b.NewConnection("telemetry")
	sub := conn.SubscribeWith(TopicLine, bus.QueueOpts{Len: outBuf, Policy: boundq.DropNewest})
	return &Service{sink: sink, conn: conn, sub: sub, log: log}
}

// Send publishes a copy of line. It reports false if the line was dropped.
func (s *Service) Send(line []byte) bool {
	p := append([]byte(nil), line...)
	if err := s.conn.Publish(&bus.Message{Topic: TopicLine, Payload: p}); err != nil {
		if s.log != nil {
			s.log.Debug("telemetry line dropped", "err", err, "len", len(p))
		}
		return false
	}
	return true
}

// Run writes queued lines to the sink until ctx is done, then flushes what
// is already queued.
func (s *Service) Run(ctx context.Context) error {
	ch := s.sub.Channel()
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case msg, ok := <-ch:
					if !ok {
						return nil
					}
					s.write(msg)
				default:
					return nil
				}
			}
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.write(msg)
		}
	}
}

func (s *Service) write(msg *bus.Message) {
	if p, ok := msg.Payload.([]byte); ok {
		s.sink.Transmit(p)
		s.sent.Add(1)
	}
}

func (s *Service) Sent() uint32    { return s.sent.Load() }
func (s *Service) Dropped() uint32 { return s.sub.Dropped() }
