package monitor

import (
	"sync"
	"sync/atomic"
	"time"

	"envmon/bus"
	"envmon/types"
	"envmon/x/boundq"
)

// TopicReading carries every Reading the producer makes.
var TopicReading = bus.Topic{"env", "reading"}

// Handoff moves readings from the producer to the consumer.
type Handoff interface {
	// Publish never blocks longer than the configured policy allows. A
	// rejected reading is reported as queue_full.
	Publish(r types.Reading) error
	// Receive waits up to timeout for a reading not yet received.
	Receive(done <-chan struct{}, timeout time.Duration) (types.Reading, bool)
	// Dropped counts readings the consumer will never see.
	Dropped() uint32
}

// QueueHandoff is the pipeline variant: readings are published on
// TopicReading and the consumer holds a bounded subscription to it.
type QueueHandoff struct {
	conn *bus.Connection
	sub  *bus.Subscription
}

func NewQueueHandoff(b *bus.Bus, capacity int, policy boundq.Policy, block time.Duration) *QueueHandoff {
	conn := b.NewConnection("handoff")
	sub := conn.SubscribeWith(TopicReading, bus.QueueOpts{Len: capacity, Policy: policy, Block: block})
	return &QueueHandoff{conn: conn, sub: sub}
}

func (h *QueueHandoff) Publish(r types.Reading) error {
	return h.conn.Publish(&bus.Message{Topic: TopicReading, Payload: r})
}

func (h *QueueHandoff) Receive(done <-chan struct{}, timeout time.Duration) (types.Reading, bool) {
	for {
		msg, ok := h.sub.Receive(done, timeout)
		if !ok {
			return types.Reading{}, false
		}
		if r, ok := msg.Payload.(types.Reading); ok {
			return r, true
		}
	}
}

func (h *QueueHandoff) Dropped() uint32 { return h.sub.Dropped() }
func (h *QueueHandoff) Len() int        { return h.sub.Len() }

// Close cancels the subscription.
func (h *QueueHandoff) Close() { h.conn.Disconnect() }

// LatestCell keeps only the newest reading. A publish over a reading that
// was never received counts as a drop.
type LatestCell struct {
	mu      sync.Mutex
	r       types.Reading
	fresh   bool
	notify  chan struct{}
	dropped atomic.Uint32
}

func NewLatestCell() *LatestCell { return &LatestCell{notify: make(chan struct{}, 1)} }

func (c *LatestCell) Publish(r types.Reading) error {
	c.mu.Lock()
	if c.fresh {
		c.dropped.Add(1)
	}
	c.r, c.fresh = r, true
	c.mu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
	return nil
}

func (c *LatestCell) Receive(done <-chan struct{}, timeout time.Duration) (types.Reading, bool) {
	if r, ok := c.take(); ok {
		return r, true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	for {
		select {
		case <-c.notify:
			if r, ok := c.take(); ok {
				return r, true
			}
		case <-t.C:
			return types.Reading{}, false
		case <-done:
			return types.Reading{}, false
		}
	}
}

func (c *LatestCell) take() (types.Reading, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fresh {
		return types.Reading{}, false
	}
	c.fresh = false
	return c.r, true
}

func (c *LatestCell) Dropped() uint32 { return c.dropped.Load() }
