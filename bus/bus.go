// Package bus is a small in-process pub/sub. Topics form a trie, every
// subscription owns a bounded queue, and a publisher never waits longer than
// the subscription's overflow policy allows.
package bus

import (
	"strings"
	"sync"
	"time"

	"envmon/errcode"
	"envmon/x/boundq"
)

// -----------------------------------------------------------------------------
// Topics + Messages
// -----------------------------------------------------------------------------

// Topic is a path of tokens, for example Topic{"env", "reading"}.
type Topic []string

func (t Topic) String() string { return strings.Join(t, "/") }

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

// QueueOpts sizes a subscription queue and picks its overflow policy.
type QueueOpts struct {
	Len    int
	Policy boundq.Policy
	// Block is only used by boundq.Block.
	Block time.Duration
}

type Subscription struct {
	topic Topic
	q     *boundq.Queue[*Message]
	conn  *Connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.q.C() }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// Receive waits up to timeout for the next message, or until done closes.
func (s *Subscription) Receive(done <-chan struct{}, timeout time.Duration) (*Message, bool) {
	return s.q.GetOrDone(done, timeout)
}

// Dropped counts messages this subscriber will never see.
func (s *Subscription) Dropped() uint32 { return s.q.Dropped() }
func (s *Subscription) Len() int        { return s.q.Len() }

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

type node struct {
	children map[string]*node
	subs     []*Subscription
	retained *Message
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu   sync.RWMutex
	root *node
	qLen int
}

// NewBus creates a bus whose default subscription queue holds queueLen
// messages and drops the oldest when full.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{root: &node{}, qLen: queueLen}
}

func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

// walk returns the node for topic, creating the path if create is set.
func (b *Bus) walk(topic Topic, create bool) *node {
	n := b.root
	for _, tok := range topic {
		child, ok := n.children[tok]
		if !ok {
			if !create {
				return nil
			}
			if n.children == nil {
				n.children = make(map[string]*node)
			}
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	return n
}

func (b *Bus) addSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.walk(sub.topic, true)
	n.subs = append(n.subs, sub)
	if n.retained != nil {
		sub.q.Put(n.retained)
	}
}

// Publish delivers msg to every subscriber of its topic and reports how many
// of them refused it. Refusals are counted on each subscription. Plain
// messages take only the read lock.
func (b *Bus) Publish(msg *Message) (refused int) {
	if msg.Retained {
		b.mu.Lock()
		defer b.mu.Unlock()
	} else {
		b.mu.RLock()
		defer b.mu.RUnlock()
	}

	n := b.walk(msg.Topic, msg.Retained)
	if n == nil {
		return 0
	}
	for _, sub := range n.subs {
		if !sub.q.Put(msg) {
			refused++
		}
	}
	if msg.Retained {
		if msg.Payload == nil {
			n.retained = nil
		} else {
			n.retained = msg
		}
	}
	return refused
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer sub.q.Close()

	n := b.root
	stack := make([]*node, 0, len(sub.topic))
	for _, tok := range sub.topic {
		child, ok := n.children[tok]
		if !ok {
			return
		}
		stack = append(stack, n)
		n = child
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}

	// Prune empty nodes.
	for i := len(sub.topic) - 1; i >= 0; i-- {
		parent, key := stack[i], sub.topic[i]
		child := parent.children[key]
		if len(child.subs) != 0 || len(child.children) != 0 || child.retained != nil {
			break
		}
		delete(parent.children, key)
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

// Connection groups the subscriptions of one task.
type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

func (b *Bus) NewConnection(id string) *Connection { return &Connection{bus: b, id: id} }

func (c *Connection) ID() string { return c.id }

// Publish returns a queue_full error naming the topic when any subscriber
// refused msg.
func (c *Connection) Publish(msg *Message) error {
	if n := c.bus.Publish(msg); n > 0 {
		return &errcode.E{C: errcode.QueueFull, Op: "publish", Msg: msg.Topic.String()}
	}
	return nil
}

// Subscribe uses the bus default queue: bus queue length, drop oldest.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	return c.SubscribeWith(topic, QueueOpts{Len: c.bus.qLen, Policy: boundq.DropOldest})
}

func (c *Connection) SubscribeWith(topic Topic, o QueueOpts) *Subscription {
	if o.Len <= 0 {
		o.Len = c.bus.qLen
	}
	sub := &Subscription{
		topic: append(Topic(nil), topic...),
		q:     boundq.New[*Message](o.Len, o.Policy, o.Block),
		conn:  c,
	}
	c.bus.addSubscription(sub)
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	found := false
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()
	if found {
		c.bus.unsubscribe(sub)
	}
}

// Disconnect closes every subscription of c.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		c.bus.unsubscribe(sub)
	}
}
