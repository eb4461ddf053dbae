package cookie

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMemoryJarExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	j := NewMemory(func() time.Time { return now })

	if err := j.Set("theme", "dark", Options{ExpiresInDays: 1, Path: "/"}); err != nil {
		t.Fatal(err)
	}
	if err := j.Set("sid", "abc", Options{}); err != nil {
		t.Fatal(err)
	}
	if v, ok := j.Get("theme"); !ok || v != "dark" {
		t.Fatalf("Get theme=%q ok=%v", v, ok)
	}

	now = now.Add(24 * time.Hour)
	if _, ok := j.Get("theme"); ok {
		t.Fatalf("theme should have expired")
	}
	if _, ok := j.Get("sid"); !ok {
		t.Fatalf("session cookie must not expire")
	}
}

func TestMemoryJarRemoveIdempotent(t *testing.T) {
	j := NewMemory(nil)
	_ = j.Set("a", "1", Options{})
	if err := j.Remove("a", Options{Path: "/"}); err != nil {
		t.Fatal(err)
	}
	if err := j.Remove("a", Options{Path: "/"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := j.Get("a"); ok {
		t.Fatalf("a should be gone")
	}
}

func TestMemoryJarRejects(t *testing.T) {
	j := NewMemory(nil)
	if err := j.Set("bad name", "v", Options{}); err == nil {
		t.Fatalf("expected invalid name error")
	}
	big := strings.Repeat("x", MaxValueBytes+1)
	if err := j.Set("big", big, Options{}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestHTTPJar(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "en%20US"})
	rec := httptest.NewRecorder()
	j := NewHTTP(rec, req)

	if v, ok := j.Get("lang"); !ok || v != "en US" {
		t.Fatalf("Get lang=%q ok=%v", v, ok)
	}

	if err := j.Set("profile", `{"id":1}`, Options{
		ExpiresInDays: 2, Path: "/", Secure: true, SameSite: http.SameSiteStrictMode,
	}); err != nil {
		t.Fatal(err)
	}
	if v, ok := j.Get("profile"); !ok || v != `{"id":1}` {
		t.Fatalf("pending Get=%q ok=%v", v, ok)
	}
	if err := j.Remove("lang", Options{Path: "/"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := j.Get("lang"); ok {
		t.Fatalf("removed cookie still visible")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d Set-Cookie headers", len(cookies))
	}
	p := cookies[0]
	if p.Name != "profile" || p.MaxAge != 2*24*3600 || !p.Secure || p.SameSite != http.SameSiteStrictMode {
		t.Fatalf("unexpected profile cookie: %+v", p)
	}
	if cookies[1].Name != "lang" || cookies[1].MaxAge >= 0 {
		t.Fatalf("unexpected removal cookie: %+v", cookies[1])
	}
}
