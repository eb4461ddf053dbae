package webstore

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/webstore/keyspace"
)

var (
	// ErrUnsupported means the capability probe failed for the store.
	ErrUnsupported = errors.New("webstore: storage unsupported")
	// ErrCodecUnavailable means the configured codec failed its probe.
	ErrCodecUnavailable = errors.New("webstore: codec unavailable")
	ErrNotFound         = errors.New("webstore: not found")
	ErrExpired          = errors.New("webstore: expired")
	// ErrEncode wraps a codec failure on write. Nothing was stored.
	ErrEncode     = errors.New("webstore: encode failed")
	ErrInvalidKey = keyspace.ErrInvalidKey
)

// QuotaError reports a write that still failed after one reclaim of the
// Others bucket. RetryErr is nil when no reclaim was attempted (empty backend).
type QuotaError struct {
	Key       string
	WriteErr  error
	RetryErr  error
	Reclaimed int
}

func (e *QuotaError) Error() string {
	switch {
	case e.RetryErr != nil:
		return fmt.Sprintf("set %q: quota exceeded after reclaiming %d entries: write=%v; retry=%v",
			e.Key, e.Reclaimed, e.WriteErr, e.RetryErr)
	case e.WriteErr != nil:
		return fmt.Sprintf("set %q: quota exceeded: %v", e.Key, e.WriteErr)
	default:
		return fmt.Sprintf("set %q: quota exceeded", e.Key)
	}
}

func (e *QuotaError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.WriteErr != nil {
		errs = append(errs, e.WriteErr)
	}
	if e.RetryErr != nil {
		errs = append(errs, e.RetryErr)
	}
	return errs
}
