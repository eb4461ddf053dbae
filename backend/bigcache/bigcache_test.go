package bigcache

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/unkn0wn-root/webstore/backend"
)

func newTestCache(t *testing.T, cfg Config) *BigCache {
	t.Helper()
	if cfg.Shards == 0 {
		cfg.Shards = 16
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c
}

func TestBigCacheCRUD(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, Config{})

	if _, ok, err := c.Get(ctx, "nope"); err != nil || ok {
		t.Fatalf("miss expected, ok=%v err=%v", ok, err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, "v-"+k); err != nil {
			t.Fatal(err)
		}
	}
	if v, ok, _ := c.Get(ctx, "b"); !ok || v != "v-b" {
		t.Fatalf("Get b: v=%q ok=%v", v, ok)
	}
	if err := c.Remove(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(ctx, "b"); err != nil {
		t.Fatalf("idempotent remove: %v", err)
	}

	keys, _ := c.Keys(ctx)
	sort.Strings(keys)
	if strings.Join(keys, ",") != "a,c" {
		t.Fatalf("keys=%v want a,c", keys)
	}
	if n, _ := c.Len(ctx); n != 2 {
		t.Fatalf("Len=%d want 2", n)
	}
}

func TestBigCacheOversizedEntryIsQuota(t *testing.T) {
	ctx := context.Background()
	// 1 MB total over 16 shards => 64 KiB per shard
	c := newTestCache(t, Config{HardMaxCacheSizeMB: 1, MaxEntrySize: 256, MaxEntriesInWindow: 16})

	err := c.Set(ctx, "huge", strings.Repeat("x", 256<<10))
	if err == nil {
		t.Fatalf("expected oversized entry to be rejected")
	}
	if !errors.Is(err, backend.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}
