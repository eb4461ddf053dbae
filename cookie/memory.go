package cookie

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

type memEntry struct {
	value   string
	opts    Options
	expires time.Time // zero for session cookies
}

// Memory is a process-local Jar. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

var _ Jar = (*Memory)(nil)

// NewMemory returns an empty jar. now may be nil (time.Now).
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{entries: make(map[string]memEntry), now: now}
}

func (m *Memory) Get(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[name]
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, name)
		return "", false
	}
	return e.value, true
}

func (m *Memory) Set(name, value string, opts Options) error {
	c := &http.Cookie{Name: name, Value: "v"}
	if err := c.Valid(); err != nil {
		return fmt.Errorf("cookie: set %q: %w", name, err)
	}
	if len(value) > MaxValueBytes {
		return fmt.Errorf("%w: %q is %d bytes", ErrTooLarge, name, len(value))
	}
	e := memEntry{value: value, opts: opts}
	if opts.ExpiresInDays > 0 {
		e.expires = m.now().Add(time.Duration(opts.ExpiresInDays) * 24 * time.Hour)
	}
	m.mu.Lock()
	m.entries[name] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(name string, _ Options) error {
	m.mu.Lock()
	delete(m.entries, name)
	m.mu.Unlock()
	return nil
}

// Attributes returns the options the cookie was last set with.
func (m *Memory) Attributes(name string) (Options, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[name]
	return e.opts, ok
}
