package asynchook

import (
	"sync"
	"testing"

	"github.com/unkn0wn-root/webstore"
)

type countHooks struct {
	webstore.NopHooks
	mu      sync.Mutex
	n       int
	block   chan struct{}
	started chan struct{}
}

func (c *countHooks) ExpiredOnRead(string) {
	if c.block != nil {
		c.started <- struct{}{}
		<-c.block
	}
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func TestDeliversAndDrainsOnClose(t *testing.T) {
	inner := &countHooks{}
	h := New(inner, 2, 16)
	for i := 0; i < 10; i++ {
		h.ExpiredOnRead("k")
	}
	h.Close()
	if inner.n != 10 {
		t.Fatalf("delivered %d of 10", inner.n)
	}
	h.ExpiredOnRead("late")
	if h.Dropped() != 1 {
		t.Fatalf("event after Close must be dropped")
	}
}

func TestDropsWhenFull(t *testing.T) {
	inner := &countHooks{block: make(chan struct{}), started: make(chan struct{}, 1)}
	h := New(inner, 1, 1)

	h.ExpiredOnRead("a") // taken by the worker
	<-inner.started
	h.ExpiredOnRead("b") // fills the queue
	h.ExpiredOnRead("c") // dropped
	if h.Dropped() != 1 {
		t.Fatalf("dropped=%d want 1", h.Dropped())
	}
	close(inner.block)
	h.Close()
	if inner.n != 2 {
		t.Fatalf("delivered %d want 2", inner.n)
	}
}
