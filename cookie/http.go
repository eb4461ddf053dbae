package cookie

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// HTTP reads cookies from a request and writes Set-Cookie headers to the
// response. Writes made through the jar are visible to later Gets on the
// same jar, so a handler observes its own changes.
type HTTP struct {
	r *http.Request
	w http.ResponseWriter

	mu      sync.Mutex
	pending map[string]*string // nil value = removed
}

var _ Jar = (*HTTP)(nil)

func NewHTTP(w http.ResponseWriter, r *http.Request) *HTTP {
	return &HTTP{r: r, w: w, pending: make(map[string]*string)}
}

func (h *HTTP) Get(name string) (string, bool) {
	h.mu.Lock()
	p, ok := h.pending[name]
	h.mu.Unlock()
	if ok {
		if p == nil {
			return "", false
		}
		return *p, true
	}
	if h.r == nil {
		return "", false
	}
	c, err := h.r.Cookie(name)
	if err != nil {
		return "", false
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return c.Value, true
	}
	return v, true
}

func (h *HTTP) Set(name, value string, opts Options) error {
	c := &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     opts.Path,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
	if opts.ExpiresInDays > 0 {
		ttl := time.Duration(opts.ExpiresInDays) * 24 * time.Hour
		c.MaxAge = int(ttl / time.Second)
		c.Expires = time.Now().Add(ttl)
	}
	if err := c.Valid(); err != nil {
		return fmt.Errorf("cookie: set %q: %w", name, err)
	}
	if len(c.Value) > MaxValueBytes {
		return fmt.Errorf("%w: %q is %d bytes", ErrTooLarge, name, len(c.Value))
	}
	http.SetCookie(h.w, c)
	h.mu.Lock()
	h.pending[name] = &value
	h.mu.Unlock()
	return nil
}

func (h *HTTP) Remove(name string, opts Options) error {
	c := &http.Cookie{Name: name, Path: opts.Path, MaxAge: -1, Expires: time.Unix(0, 0)}
	if err := c.Valid(); err != nil {
		return fmt.Errorf("cookie: remove %q: %w", name, err)
	}
	http.SetCookie(h.w, c)
	h.mu.Lock()
	h.pending[name] = nil
	h.mu.Unlock()
	return nil
}
