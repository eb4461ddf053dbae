package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/unkn0wn-root/webstore/backend"
)

func TestMemoryOrderAndRemove(t *testing.T) {
	ctx := context.Background()
	m := New(Config{})

	for _, k := range []string{"a", "b", "c"} {
		if err := m.Set(ctx, k, "v"+k); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	// overwrite keeps original position
	if err := m.Set(ctx, "a", "v2"); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove(ctx, "b"); err != nil {
		t.Fatalf("second Remove should be a no-op, got %v", err)
	}

	keys, _ := m.Keys(ctx)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("keys=%v want [a c]", keys)
	}
	if v, ok, _ := m.Get(ctx, "a"); !ok || v != "v2" {
		t.Fatalf("Get a: ok=%v v=%q", ok, v)
	}
	if n, _ := m.Len(ctx); n != 2 {
		t.Fatalf("Len=%d want 2", n)
	}
}

func TestMemoryQuota(t *testing.T) {
	ctx := context.Background()
	m := New(Config{Quota: 10})

	if err := m.Set(ctx, "k", "12345"); err != nil { // 6 bytes
		t.Fatal(err)
	}
	err := m.Set(ctx, "x", "12345")
	if !errors.Is(err, backend.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if !backend.IsQuotaExceeded(err) {
		t.Fatalf("IsQuotaExceeded should recognize memory quota errors")
	}
	// shrinking an existing value always fits
	if err := m.Set(ctx, "k", "1"); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if m.Used() != 2 {
		t.Fatalf("Used=%d want 2", m.Used())
	}
	if err := m.Set(ctx, "x", "12345"); err != nil {
		t.Fatalf("after shrink: %v", err)
	}
}

func TestMemoryUnlimited(t *testing.T) {
	ctx := context.Background()
	m := New(Config{Quota: -1})
	big := make([]byte, DefaultQuota+1)
	if err := m.Set(ctx, "big", string(big)); err != nil {
		t.Fatalf("unlimited set: %v", err)
	}
}
