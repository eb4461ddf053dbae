package redis

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

// Requires a Redis server; set WEBSTORE_TEST_REDIS_ADDR (e.g. localhost:6379).
func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("WEBSTORE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WEBSTORE_TEST_REDIS_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	prefix := "webstore:test:" + strings.ReplaceAll(t.Name(), "/", ":") + ":"
	r, err := New(Config{Client: client, Prefix: prefix, CloseClient: true})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := r.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	t.Cleanup(func() {
		keys, _ := r.Keys(ctx)
		for _, k := range keys {
			_ = r.Remove(ctx, k)
		}
		_ = r.Close(ctx)
	})
	return r
}

func TestNewRejectsNilClient(t *testing.T) {
	if _, err := New(Config{}); err != ErrNilClient {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestIsOOM(t *testing.T) {
	if !isOOM(errors.New("OOM command not allowed when used memory > 'maxmemory'.")) {
		t.Fatalf("maxmemory rejection not recognized")
	}
	if isOOM(errors.New("ERR wrong number of arguments")) {
		t.Fatalf("unrelated error treated as OOM")
	}
}

func TestEscapeGlob(t *testing.T) {
	if got := escapeGlob("a*b?[c]"); got != `a\*b\?\[c\]` {
		t.Fatalf("escapeGlob=%q", got)
	}
}

func TestRedisCRUDAndKeys(t *testing.T) {
	ctx := context.Background()
	r := newTestRedis(t)

	for _, k := range []string{"b", "a"} {
		if err := r.Set(ctx, k, "v-"+k); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if v, ok, err := r.Get(ctx, "a"); err != nil || !ok || v != "v-a" {
		t.Fatalf("Get a: v=%q ok=%v err=%v", v, ok, err)
	}
	keys, err := r.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(keys, ",") != "a,b" {
		t.Fatalf("keys=%v", keys)
	}
	if err := r.Remove(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := r.Get(ctx, "a"); ok {
		t.Fatalf("a should be gone")
	}
	if n, _ := r.Len(ctx); n != 1 {
		t.Fatalf("Len=%d want 1", n)
	}
}
