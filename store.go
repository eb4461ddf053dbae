package webstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/unkn0wn-root/webstore/backend"
	"github.com/unkn0wn-root/webstore/codec"
	"github.com/unkn0wn-root/webstore/keyspace"
)

// Store is one backend with capability probing, expiry markers and bucket
// sweeps. Methods return descriptive errors; the Storage facade collapses
// them to boolean/nil results.
//
// A Store adds no locking of its own: concurrent writers to the same key are
// last-write-wins, and sweeps may race with writers.
type Store struct {
	name  string
	b     backend.Backend
	codec codec.Codec
	log   Logger
	hooks Hooks
	now   func() time.Time
	warn  warnGate

	// immutable after NewStore
	supported bool
	codecOK   bool
}

// NewStore probes b once and returns the store. A nil or failing backend is
// not an error: the store reports Supported() == false and every operation
// returns ErrUnsupported without touching the backend.
func NewStore(ctx context.Context, b backend.Backend, opts StoreOptions) *Store {
	s := &Store{
		name:  coalesce(opts.Name, "store"),
		b:     b,
		codec: opts.Codec,
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
		now:   opts.Now,
	}
	if s.codec == nil {
		s.codec = codec.JSON{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.warn.log = s.log

	s.supported = s.probeBackend(ctx)
	s.codecOK = s.probeCodec()
	s.hooks.ProbeResult(s.name, s.supported)
	s.log.Debug("store probed", Fields{"store": s.name, "supported": s.supported, "codec": s.codecOK})
	return s
}

func (s *Store) Name() string { return s.name }

// Supported reports the memoized probe result.
func (s *Store) Supported() bool { return s.supported }

// SetWarnings toggles warn-level logging of facade failures for this store.
func (s *Store) SetWarnings(on bool) { s.warn.on.Store(on) }

// Close closes the backend (if any).
func (s *Store) Close(ctx context.Context) error {
	if s.b == nil {
		return nil
	}
	return s.b.Close(ctx)
}

// currentMinute is the store clock in whole minutes since the Unix epoch.
func (s *Store) currentMinute() int64 {
	return s.now().UnixMilli() / int64(time.Minute/time.Millisecond)
}

func (s *Store) ready() error {
	if !s.supported {
		return ErrUnsupported
	}
	if !s.codecOK {
		return ErrCodecUnavailable
	}
	return nil
}

// Set encodes value and stores it under k. ttl > 0 attaches an expiry
// marker rounded up to whole minutes; ttl <= 0 removes any previous marker.
//
// If the write exceeds the backend quota and the backend is not empty, the
// Others bucket is flushed once and the write retried once.
func (s *Store) Set(ctx context.Context, k keyspace.Key, value any, ttl time.Duration) error {
	if err := s.ready(); err != nil {
		return err
	}
	b, err := s.codec.Encode(value)
	if err != nil {
		s.hooks.SetRejected(k.String(), "encode")
		return fmt.Errorf("%w: %q: %w", ErrEncode, k.String(), err)
	}
	if err := s.write(ctx, k.String(), string(b)); err != nil {
		return err
	}

	if ttl <= 0 {
		if err := s.removeRaw(ctx, k.Marker()); err != nil {
			return fmt.Errorf("webstore: clear expiry %q: %w", k.String(), err)
		}
		return nil
	}
	exp := s.currentMinute() + ceilMinutes(ttl)
	if err := s.setRaw(ctx, k.Marker(), strconv.FormatInt(exp, 10)); err != nil {
		// a value without its marker would never expire
		_ = s.removeRaw(ctx, k.String())
		s.hooks.SetRejected(k.String(), "expiry")
		return fmt.Errorf("webstore: set expiry %q: %w", k.String(), err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, key, raw string) error {
	err := s.setRaw(ctx, key, raw)
	if err == nil {
		return nil
	}
	if !backend.IsQuotaExceeded(err) {
		s.hooks.SetRejected(key, "backend")
		return fmt.Errorf("webstore: set %q: %w", key, err)
	}
	n, lerr := s.b.Len(ctx)
	if lerr != nil || n == 0 {
		s.hooks.SetRejected(key, "quota")
		return &QuotaError{Key: key, WriteErr: err}
	}

	removed, ferr := s.Flush(ctx, keyspace.Others)
	if ferr != nil {
		s.log.Warn("quota reclaim incomplete", Fields{"store": s.name, "removed": removed, "err": ferr})
	}
	retryErr := s.setRaw(ctx, key, raw)
	s.hooks.QuotaReclaim(s.name, removed, retryErr)
	if retryErr != nil {
		s.hooks.SetRejected(key, "quota")
		return &QuotaError{Key: key, WriteErr: err, RetryErr: retryErr, Reclaimed: removed}
	}
	s.log.Debug("write succeeded after quota reclaim", Fields{"store": s.name, "key": key, "removed": removed})
	return nil
}

// Get returns the decoded value for k. A payload the codec cannot decode is
// returned as the raw string. Expired entries are removed and reported as
// ErrExpired; absent ones as ErrNotFound.
func (s *Store) Get(ctx context.Context, k keyspace.Key) (any, error) {
	raw, err := s.read(ctx, k)
	if err != nil {
		return nil, err
	}
	var v any
	if err := s.codec.Decode([]byte(raw), &v); err != nil {
		if errors.Is(err, codec.ErrTooLarge) {
			return nil, fmt.Errorf("webstore: get %q: %w", k.String(), err)
		}
		return raw, nil
	}
	return v, nil
}

// GetInto decodes the value for k into dst. When decoding fails and dst is a
// *string, dst receives the raw stored string.
func (s *Store) GetInto(ctx context.Context, k keyspace.Key, dst any) error {
	raw, err := s.read(ctx, k)
	if err != nil {
		return err
	}
	derr := s.codec.Decode([]byte(raw), dst)
	if derr == nil {
		return nil
	}
	if sp, ok := dst.(*string); ok && !errors.Is(derr, codec.ErrTooLarge) {
		*sp = raw
		return nil
	}
	return fmt.Errorf("webstore: decode %q: %w", k.String(), derr)
}

func (s *Store) read(ctx context.Context, k keyspace.Key) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	exp, ok, err := s.expiry(ctx, k)
	if err != nil {
		return "", err
	}
	if ok && s.currentMinute() >= exp {
		if err := s.Remove(ctx, k); err != nil {
			s.log.Warn("remove expired entry failed", Fields{"store": s.name, "key": k.String(), "err": err})
		}
		s.hooks.ExpiredOnRead(k.String())
		return "", ErrExpired
	}
	raw, ok, err := s.getRaw(ctx, k.String())
	if err != nil {
		return "", fmt.Errorf("webstore: get %q: %w", k.String(), err)
	}
	if !ok {
		return "", ErrNotFound
	}
	return raw, nil
}

// expiry reads the marker of k. An unparsable marker is ignored, so the
// entry never expires.
func (s *Store) expiry(ctx context.Context, k keyspace.Key) (int64, bool, error) {
	raw, ok, err := s.getRaw(ctx, k.Marker())
	if err != nil {
		return 0, false, fmt.Errorf("webstore: get expiry %q: %w", k.String(), err)
	}
	if !ok {
		return 0, false, nil
	}
	exp, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil {
		s.log.Debug("ignoring malformed expiry marker", Fields{"store": s.name, "key": k.Marker(), "value": raw})
		return 0, false, nil
	}
	return exp, true, nil
}

// ExpiresAt returns when k expires. ok is false for entries without a marker.
func (s *Store) ExpiresAt(ctx context.Context, k keyspace.Key) (time.Time, bool, error) {
	exp, ok, err := s.expiry(ctx, k)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	return time.UnixMilli(exp * int64(time.Minute/time.Millisecond)), true, nil
}

// Remove deletes the value and marker of k. Removing an absent key is not
// an error.
func (s *Store) Remove(ctx context.Context, k keyspace.Key) error {
	if !s.supported {
		return ErrUnsupported
	}
	return errors.Join(s.removeRaw(ctx, k.String()), s.removeRaw(ctx, k.Marker()))
}
