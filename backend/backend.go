// Package backend defines the flat string key-value store that webstore
// layers buckets and expiry on top of.
//
// A Backend behaves like a browser Web Storage area: string keys, string
// values, a finite quota, and ordered enumeration. Implementations MUST be
// value-transparent: Get returns exactly the string previously passed to Set.
//
// Keys of the form "<bucket><sep><name>" and "<bucket><sep><name>-exptime" are
// owned by webstore. Keys without the separator are treated as foreign
// ("rogue") and may be removed by webstore's rogue sweep.
package backend

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrQuotaExceeded reports that a write was rejected because the store is full.
	ErrQuotaExceeded = errors.New("backend: quota exceeded")
	// ErrUnavailable reports that the store cannot be reached at all.
	ErrUnavailable = errors.New("backend: unavailable")
)

// Backend is a minimal string store with ordered enumeration.
// Must be safe for concurrent use.
type Backend interface {
	// Get returns (value, true, nil) on hit; ("", false, nil) on miss.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. A write rejected for capacity reasons must
	// return an error for which IsQuotaExceeded reports true.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Len returns the number of stored keys.
	Len(ctx context.Context) (int, error)

	// Keys returns a snapshot of all keys in index order.
	Keys(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close(ctx context.Context) error
}

// Pinger is implemented by backends that can cheaply check reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// quotaNames are the error names browsers attach to a rejected Web Storage
// write. Engine-specific conditions (SQLITE_FULL, Redis OOM) are mapped to
// ErrQuotaExceeded by their backends.
var quotaNames = []string{
	"QuotaExceededError",
	"NS_ERROR_DOM_QUOTA_REACHED",
}

// IsQuotaExceeded reports whether err signals an out-of-space condition.
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	var q interface{ QuotaExceeded() bool }
	if errors.As(err, &q) && q.QuotaExceeded() {
		return true
	}
	msg := err.Error()
	for _, n := range quotaNames {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}
