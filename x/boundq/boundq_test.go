package boundq

import (
	"testing"
	"time"
)

func TestFIFOOrder(t *testing.T) {
	q := New[int](5, DropNewest, 0)
	for i := 1; i <= 5; i++ {
		if !q.Put(i) {
			t.Fatalf("put %d rejected", i)
		}
	}
	for want := 1; want <= 5; want++ {
		got, ok := q.Get(0)
		if !ok || got != want {
			t.Fatalf("Get = %d,%v want %d", got, ok, want)
		}
	}
	if _, ok := q.Get(0); ok {
		t.Fatal("queue should be empty")
	}
}

func TestPolicies(t *testing.T) {
	cases := []struct {
		policy   Policy
		accepted bool
		drained  []int
	}{
		{DropNewest, false, []int{1, 2, 3}},
		{DropOldest, true, []int{2, 3, 4}},
		{Block, false, []int{1, 2, 3}},
	}
	for _, c := range cases {
		t.Run(c.policy.String(), func(t *testing.T) {
			q := New[int](3, c.policy, 5*time.Millisecond)
			for i := 1; i <= 3; i++ {
				q.Put(i)
			}
			if got := q.Put(4); got != c.accepted {
				t.Fatalf("Put on full = %v, want %v", got, c.accepted)
			}
			if q.Dropped() != 1 {
				t.Fatalf("Dropped = %d, want 1", q.Dropped())
			}
			for _, want := range c.drained {
				got, ok := q.Get(0)
				if !ok || got != want {
					t.Fatalf("Get = %d,%v want %d", got, ok, want)
				}
			}
		})
	}
}

func TestBlockAcceptsWhenRoomAppears(t *testing.T) {
	q := New[int](1, Block, time.Second)
	q.Put(1)
	go func() {
		time.Sleep(5 * time.Millisecond)
		q.Get(0)
	}()
	if !q.Put(2) {
		t.Fatal("blocked put should succeed once the consumer drains")
	}
	if q.Dropped() != 0 {
		t.Fatalf("Dropped = %d", q.Dropped())
	}
}

func TestGetTimeout(t *testing.T) {
	q := New[int](1, DropNewest, 0)
	start := time.Now()
	if _, ok := q.Get(20 * time.Millisecond); ok {
		t.Fatal("expected timeout")
	}
	if time.Since(start) < 15*time.Millisecond {
		t.Fatal("Get returned before its timeout")
	}
}

func TestGetOrDone(t *testing.T) {
	q := New[int](1, DropNewest, 0)
	done := make(chan struct{})
	close(done)
	if _, ok := q.GetOrDone(done, time.Hour); ok {
		t.Fatal("expected early return on done")
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{DropNewest, DropOldest, Block} {
		got, ok := ParsePolicy(p.String())
		if !ok || got != p {
			t.Fatalf("ParsePolicy(%q) = %v,%v", p.String(), got, ok)
		}
	}
	if _, ok := ParsePolicy("bogus"); ok {
		t.Fatal("bogus policy accepted")
	}
}

func TestCloseDrainsThenFails(t *testing.T) {
	q := New[int](2, DropNewest, 0)
	q.Put(1)
	q.Close()
	if v, ok := q.Get(0); !ok || v != 1 {
		t.Fatalf("Get after Close = %d,%v, want queued item", v, ok)
	}
	if _, ok := q.GetOrDone(nil, time.Second); ok {
		t.Fatal("closed, drained queue returned an item")
	}
	if _, open := <-q.C(); open {
		t.Fatal("C() still open")
	}
}
