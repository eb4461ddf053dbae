package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBuf() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	return &buf, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRedactsKeys(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{})
	h.SetRejected("auth~$~token", "quota")
	out := buf.String()
	if strings.Contains(out, "token") {
		t.Fatalf("key leaked: %s", out)
	}
	if !strings.Contains(out, "reason=quota") {
		t.Fatalf("reason missing: %s", out)
	}

	buf.Reset()
	h = New(l, Options{Redact: func(s string) string { return "R" }})
	h.ExpiredOnRead("others~$~k")
	if !strings.Contains(buf.String(), "key=R") {
		t.Fatalf("custom redactor ignored: %s", buf.String())
	}
}

func TestSampling(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{ExpiredEvery: 3})
	for i := 0; i < 9; i++ {
		h.ExpiredOnRead("k")
	}
	if n := strings.Count(buf.String(), "webstore.expired_on_read"); n != 3 {
		t.Fatalf("logged %d of 9, want 3", n)
	}
}

func TestQuotaReclaimLevels(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{})
	h.QuotaReclaim("local", 4, nil)
	h.QuotaReclaim("local", 4, errors.New("still full"))
	out := buf.String()
	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "level=ERROR") {
		t.Fatalf("unexpected levels: %s", out)
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.ProbeResult("local", false)
	h.RogueSwept("local", 1)
}
