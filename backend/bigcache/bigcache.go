package bigcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/webstore/backend"
)

// entries never age out on their own; webstore tracks expiry itself
const defaultLifeWindow = 10 * 365 * 24 * time.Hour

type BigCache struct {
	c *bc.BigCache
}

var _ backend.Backend = (*BigCache)(nil)

type Config struct {
	LifeWindow         time.Duration // 0 => effectively forever
	Shards             int           // power of two; 0 => bigcache default
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*BigCache, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = defaultLifeWindow
	}
	conf := bc.DefaultConfig(life)
	conf.CleanWindow = 0
	conf.Verbose = false
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &BigCache{c: c}, nil
}

func (p *BigCache) Get(_ context.Context, key string) (string, bool, error) {
	b, err := p.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// Set fails only when the entry cannot fit in a shard, so every error is a
// capacity error.
func (p *BigCache) Set(_ context.Context, key, value string) error {
	if err := p.c.Set(key, []byte(value)); err != nil {
		return fmt.Errorf("bigcache set %q: %w: %v", key, backend.ErrQuotaExceeded, err)
	}
	return nil
}

func (p *BigCache) Remove(_ context.Context, key string) error {
	err := p.c.Delete(key)
	if err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (p *BigCache) Len(context.Context) (int, error) { return p.c.Len(), nil }

// Keys walks shards in hash order; there is no insertion order to preserve.
func (p *BigCache) Keys(context.Context) ([]string, error) {
	out := make([]string, 0, p.c.Len())
	it := p.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			// entry removed while iterating
			continue
		}
		out = append(out, e.Key())
	}
	return out, nil
}

// Stats exposes hit/miss counters (not part of backend.Backend).
func (p *BigCache) Stats() bc.Stats { return p.c.Stats() }

func (p *BigCache) Close(context.Context) error {
	return p.c.Close()
}
