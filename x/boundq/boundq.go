// Package boundq is a bounded FIFO between one producer and one consumer
// with an explicit overflow policy. Every drop is counted.
package boundq

import (
	"sync/atomic"
	"time"
)

type Policy uint8

const (
	// DropNewest rejects the incoming item when full.
	DropNewest Policy = iota
	// DropOldest evicts the head to make room.
	DropOldest
	// Block waits up to the configured timeout for room, then drops the item.
	Block
)

func (p Policy) String() string {
	switch p {
	case DropNewest:
		return "drop_newest"
	case DropOldest:
		return "drop_oldest"
	case Block:
		return "block"
	}
	return "unknown"
}

// ParsePolicy maps the names returned by String back to a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "drop_newest", "":
		return DropNewest, true
	case "drop_oldest":
		return DropOldest, true
	case "block":
		return Block, true
	}
	return DropNewest, false
}

type Queue[T any] struct {
	ch           chan T
	policy       Policy
	blockTimeout time.Duration
	dropped      atomic.Uint32
}

// New returns a queue with room for capacity items (minimum 1).
// blockTimeout only applies to the Block policy.
func New[T any](capacity int, policy Policy, blockTimeout time.Duration) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity), policy: policy, blockTimeout: blockTimeout}
}

// Put enqueues v and reports whether it was accepted. Under DropOldest the
// new item is always accepted; the evicted head is what gets counted.
func (q *Queue[T]) Put(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
	}
	switch q.policy {
	case DropOldest:
		for {
			select {
			case <-q.ch:
				q.dropped.Add(1)
			default:
			}
			select {
			case q.ch <- v:
				return true
			default:
			}
		}
	case Block:
		if q.blockTimeout > 0 {
			t := time.NewTimer(q.blockTimeout)
			defer t.Stop()
			select {
			case q.ch <- v:
				return true
			case <-t.C:
			}
		}
	}
	q.dropped.Add(1)
	return false
}

// Get waits up to timeout for the oldest item. A zero timeout polls.
// A closed, drained queue returns false at once.
func (q *Queue[T]) Get(timeout time.Duration) (T, bool) {
	select {
	case v, ok := <-q.ch:
		return v, ok
	default:
	}
	var zero T
	if timeout <= 0 {
		return zero, false
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case v, ok := <-q.ch:
		return v, ok
	case <-t.C:
		return zero, false
	}
}

// GetOrDone is Get that also returns early when done is closed.
func (q *Queue[T]) GetOrDone(done <-chan struct{}, timeout time.Duration) (T, bool) {
	var zero T
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case v, ok := <-q.ch:
		return v, ok
	case <-t.C:
		return zero, false
	case <-done:
		return zero, false
	}
}

// C exposes the receive side for select loops.
func (q *Queue[T]) C() <-chan T { return q.ch }

// Close ends the queue. Items already queued can still be received. Put
// must not be called after Close.
func (q *Queue[T]) Close() { close(q.ch) }

func (q *Queue[T]) Len() int        { return len(q.ch) }
func (q *Queue[T]) Cap() int        { return cap(q.ch) }
func (q *Queue[T]) Dropped() uint32 { return q.dropped.Load() }
func (q *Queue[T]) Policy() Policy  { return q.policy }
