package webstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/unkn0wn-root/webstore/backend"
	"github.com/unkn0wn-root/webstore/backend/memory"
)

// fakeBackend wraps the memory backend with call counting and failure
// injection.
type fakeBackend struct {
	inner *memory.Memory

	mu        sync.Mutex
	calls     int
	quotaFail int    // next N Sets fail with a quota error
	failAll   error  // every Set fails with this error
	failSufx  string // Sets on keys with this suffix fail
	pingErr   error
	closed    bool
}

var (
	_ backend.Backend = (*fakeBackend)(nil)
	_ backend.Pinger  = (*fakeBackend)(nil)
)

func newFake() *fakeBackend {
	return &fakeBackend{inner: memory.New(memory.Config{Quota: -1})}
}

func (f *fakeBackend) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeBackend) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeBackend) ResetCalls() {
	f.mu.Lock()
	f.calls = 0
	f.mu.Unlock()
}

func (f *fakeBackend) Ping(context.Context) error {
	f.count()
	return f.pingErr
}

func (f *fakeBackend) Get(ctx context.Context, key string) (string, bool, error) {
	f.count()
	return f.inner.Get(ctx, key)
}

func (f *fakeBackend) Set(ctx context.Context, key, value string) error {
	f.count()
	f.mu.Lock()
	if f.failAll != nil {
		err := f.failAll
		f.mu.Unlock()
		return err
	}
	if f.quotaFail > 0 {
		f.quotaFail--
		f.mu.Unlock()
		return fmt.Errorf("fake set %q: %w", key, backend.ErrQuotaExceeded)
	}
	if f.failSufx != "" && strings.HasSuffix(key, f.failSufx) {
		f.mu.Unlock()
		return errors.New("fake: write refused")
	}
	f.mu.Unlock()
	return f.inner.Set(ctx, key, value)
}

func (f *fakeBackend) Remove(ctx context.Context, key string) error {
	f.count()
	return f.inner.Remove(ctx, key)
}

func (f *fakeBackend) Len(ctx context.Context) (int, error) {
	f.count()
	return f.inner.Len(ctx)
}

func (f *fakeBackend) Keys(ctx context.Context) ([]string, error) {
	f.count()
	return f.inner.Keys(ctx)
}

func (f *fakeBackend) Close(context.Context) error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// has reports presence without counting as a call.
func (f *fakeBackend) has(key string) bool {
	_, ok, _ := f.inner.Get(context.Background(), key)
	return ok
}

func (f *fakeBackend) put(key, value string) {
	_ = f.inner.Set(context.Background(), key, value)
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recHooks struct {
	NopHooks
	mu       sync.Mutex
	reclaims int
	expired  []string
	rejected []string
	rogue    int
	probes   map[string]bool
}

func newRecHooks() *recHooks { return &recHooks{probes: map[string]bool{}} }

func (h *recHooks) ProbeResult(store string, ok bool) {
	h.mu.Lock()
	h.probes[store] = ok
	h.mu.Unlock()
}

func (h *recHooks) ExpiredOnRead(k string) {
	h.mu.Lock()
	h.expired = append(h.expired, k)
	h.mu.Unlock()
}

func (h *recHooks) QuotaReclaim(string, int, error) {
	h.mu.Lock()
	h.reclaims++
	h.mu.Unlock()
}

func (h *recHooks) SetRejected(k, reason string) {
	h.mu.Lock()
	h.rejected = append(h.rejected, reason)
	h.mu.Unlock()
}

func (h *recHooks) RogueSwept(_ string, n int) {
	h.mu.Lock()
	h.rogue += n
	h.mu.Unlock()
}

type recLogger struct {
	NopLogger
	mu    sync.Mutex
	warns []string
}

func (l *recLogger) Warn(msg string, _ Fields) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func (l *recLogger) Warns() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}
