// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    ExpiredEvery:  10, // sample logs: ~every 10th expiry
//	    RejectedEvery: 1,  // log every rejected write
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	st, _ := webstore.New(ctx, webstore.Options{
//	    Local: db,
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/webstore"
)

// Hooks moves hook calls off the caller's goroutine. Events are dropped
// when the queue is full or after Close.
type Hooks struct {
	inner   webstore.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ webstore.Hooks = (*Hooks)(nil)

func New(inner webstore.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped returns how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) ProbeResult(s string, ok bool) { h.try(func() { h.inner.ProbeResult(s, ok) }) }
func (h *Hooks) ExpiredOnRead(k string)        { h.try(func() { h.inner.ExpiredOnRead(k) }) }
func (h *Hooks) SetRejected(k, r string)       { h.try(func() { h.inner.SetRejected(k, r) }) }
func (h *Hooks) RogueSwept(s string, n int)    { h.try(func() { h.inner.RogueSwept(s, n) }) }
func (h *Hooks) QuotaReclaim(s string, n int, err error) {
	h.try(func() { h.inner.QuotaReclaim(s, n, err) })
}
