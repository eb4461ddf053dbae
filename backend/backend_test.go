package backend

import (
	"errors"
	"fmt"
	"testing"
)

type codedErr struct{ code int }

func (e codedErr) Error() string { return fmt.Sprintf("code %d", e.code) }
func (e codedErr) Code() int     { return e.code }

type flaggedErr struct{}

func (flaggedErr) Error() string       { return "storage full" }
func (flaggedErr) QuotaExceeded() bool { return true }

func TestIsQuotaExceeded(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrQuotaExceeded, true},
		{"wrapped sentinel", fmt.Errorf("set k: %w", ErrQuotaExceeded), true},
		{"bare code 22", codedErr{22}, false},
		{"bare code 13", codedErr{13}, false},
		{"flagged", flaggedErr{}, true},
		{"dom name", errors.New("QuotaExceededError: setItem failed"), true},
		{"firefox name", errors.New("NS_ERROR_DOM_QUOTA_REACHED"), true},
		{"redis oom is mapped by its backend", errors.New("OOM command not allowed when used memory > 'maxmemory'."), false},
		{"lowercase phrase", errors.New("user quota exceeded for tenant"), false},
		{"unavailable", ErrUnavailable, false},
		{"generic", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsQuotaExceeded(tc.err); got != tc.want {
				t.Fatalf("IsQuotaExceeded(%v)=%v want %v", tc.err, got, tc.want)
			}
		})
	}
}
