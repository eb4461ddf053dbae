package ristretto

import (
	"context"
	"errors"
	"fmt"
	"sync"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/webstore/backend"
)

// Ristretto is an admission-controlled Backend. A write the admission policy
// refuses is reported as backend.ErrQuotaExceeded.
//
// Ristretto cannot enumerate keys, so an insertion-ordered index is kept on
// the side. Keys the cache evicted on its own are pruned from the index
// lazily by Keys and Len.
type Ristretto struct {
	c *rc.Cache

	mu    sync.Mutex
	order []string
	index map[string]struct{}
}

var _ backend.Backend = (*Ristretto)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // bytes; each entry costs len(key)+len(value)
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Ristretto, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{c: c, index: make(map[string]struct{})}, nil
}

func (p *Ristretto) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		// self-heal: drop unexpected entry shape
		p.c.Del(key)
		return "", false, nil
	}
	return s, true, nil
}

// Set waits for the write buffer to drain so reads observe the write, as
// Web Storage callers expect.
func (p *Ristretto) Set(_ context.Context, key, value string) error {
	cost := int64(len(key) + len(value))
	if !p.c.Set(key, value, cost) {
		return fmt.Errorf("ristretto set %q: dropped: %w", key, backend.ErrQuotaExceeded)
	}
	p.c.Wait()
	if _, ok := p.c.Get(key); !ok {
		return fmt.Errorf("ristretto set %q: rejected by admission policy: %w", key, backend.ErrQuotaExceeded)
	}

	p.mu.Lock()
	if _, ok := p.index[key]; !ok {
		p.index[key] = struct{}{}
		p.order = append(p.order, key)
	}
	p.mu.Unlock()
	return nil
}

func (p *Ristretto) Remove(_ context.Context, key string) error {
	p.c.Del(key)
	p.c.Wait()

	p.mu.Lock()
	p.dropLocked(key)
	p.mu.Unlock()
	return nil
}

func (p *Ristretto) Len(ctx context.Context) (int, error) {
	keys, err := p.Keys(ctx)
	return len(keys), err
}

func (p *Ristretto) Keys(_ context.Context) ([]string, error) {
	p.mu.Lock()
	snapshot := make([]string, len(p.order))
	copy(snapshot, p.order)
	p.mu.Unlock()

	out := make([]string, 0, len(snapshot))
	var gone []string
	for _, k := range snapshot {
		if _, ok := p.c.Get(k); ok {
			out = append(out, k)
		} else {
			gone = append(gone, k)
		}
	}
	if len(gone) > 0 {
		p.mu.Lock()
		for _, k := range gone {
			// re-check: the key may have been written again since the snapshot
			if _, ok := p.c.Get(k); !ok {
				p.dropLocked(k)
			}
		}
		p.mu.Unlock()
	}
	return out, nil
}

func (p *Ristretto) dropLocked(key string) {
	if _, ok := p.index[key]; !ok {
		return
	}
	delete(p.index, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

func (p *Ristretto) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto counters if enabled (not part of backend.Backend).
func (p *Ristretto) Metrics() *rc.Metrics { return p.c.Metrics }
