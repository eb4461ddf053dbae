// Package memory provides an in-process Backend that mirrors browser Web
// Storage semantics: insertion-ordered keys and a byte quota.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/unkn0wn-root/webstore/backend"
)

// DefaultQuota matches the common 5 MiB per-origin Web Storage budget.
const DefaultQuota = 5 << 20

// Memory is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	order []string
	m     map[string]string
	used  int
	quota int
}

var _ backend.Backend = (*Memory)(nil)

type Config struct {
	// Quota is the maximum of sum(len(key)+len(value)) in bytes.
	// 0 => DefaultQuota; negative => unlimited.
	Quota int
}

func New(cfg Config) *Memory {
	q := cfg.Quota
	if q == 0 {
		q = DefaultQuota
	}
	return &Memory{m: make(map[string]string), quota: q}
}

func (p *Memory) Get(_ context.Context, key string) (string, bool, error) {
	p.mu.RLock()
	v, ok := p.m[key]
	p.mu.RUnlock()
	return v, ok, nil
}

func (p *Memory) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	old, exists := p.m[key]
	next := p.used + len(value)
	if exists {
		next -= len(old)
	} else {
		next += len(key)
	}
	if p.quota > 0 && next > p.quota {
		return fmt.Errorf("memory set %q (%d/%d bytes): %w", key, next, p.quota, backend.ErrQuotaExceeded)
	}
	if !exists {
		p.order = append(p.order, key)
	}
	p.m[key] = value
	p.used = next
	return nil
}

func (p *Memory) Remove(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	v, ok := p.m[key]
	if !ok {
		return nil
	}
	delete(p.m, key)
	p.used -= len(key) + len(v)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

func (p *Memory) Len(_ context.Context) (int, error) {
	p.mu.RLock()
	n := len(p.m)
	p.mu.RUnlock()
	return n, nil
}

func (p *Memory) Keys(_ context.Context) ([]string, error) {
	p.mu.RLock()
	out := make([]string, len(p.order))
	copy(out, p.order)
	p.mu.RUnlock()
	return out, nil
}

// Used returns the number of bytes counted against the quota.
func (p *Memory) Used() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.used
}

func (p *Memory) Close(_ context.Context) error { return nil }
