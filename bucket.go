package webstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/unkn0wn-root/webstore/keyspace"
)

// Bucket sweeps take a snapshot of the backend keys, select from it and only
// then delete, so removals never disturb the enumeration.

// Keys lists the user keys stored in bucket b, in backend order.
func (s *Store) Keys(ctx context.Context, b Bucket) ([]keyspace.Key, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: bucket %q", ErrInvalidKey, b)
	}
	raws, err := s.keysRaw(ctx)
	if err != nil {
		return nil, err
	}
	var out []keyspace.Key
	for _, raw := range raws {
		k, marker, ok := keyspace.Parse(raw)
		if !ok || marker || k.Bucket != b {
			continue
		}
		out = append(out, k)
	}
	return out, nil
}

// Flush removes every entry of bucket b, expired or not, including markers
// whose value is already gone. It returns the number of values removed.
func (s *Store) Flush(ctx context.Context, b Bucket) (int, error) {
	if !b.Valid() {
		return 0, fmt.Errorf("%w: bucket %q", ErrInvalidKey, b)
	}
	raws, err := s.keysRaw(ctx)
	if err != nil {
		return 0, err
	}
	var (
		victims []string
		values  int
	)
	for _, raw := range raws {
		if !b.Owns(raw) {
			continue
		}
		victims = append(victims, raw)
		if !keyspace.IsMarker(raw) {
			values++
		}
	}

	var errs []error
	for _, raw := range victims {
		if err := s.removeRaw(ctx, raw); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return values, fmt.Errorf("webstore: flush %s: %w", b, errors.Join(errs...))
	}
	s.log.Debug("bucket flushed", Fields{"store": s.name, "bucket": b.String(), "removed": values})
	return values, nil
}

// FlushExpired removes the entries of bucket b whose marker has passed.
// Unexpired entries and entries without a marker are left alone.
func (s *Store) FlushExpired(ctx context.Context, b Bucket) (int, error) {
	if !b.Valid() {
		return 0, fmt.Errorf("%w: bucket %q", ErrInvalidKey, b)
	}
	raws, err := s.keysRaw(ctx)
	if err != nil {
		return 0, err
	}
	now := s.currentMinute()
	var expired []keyspace.Key
	for _, raw := range raws {
		k, marker, ok := keyspace.Parse(raw)
		if !ok || !marker || k.Bucket != b {
			continue
		}
		v, found, err := s.getRaw(ctx, raw)
		if err != nil || !found {
			continue
		}
		exp, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil || now < exp {
			continue
		}
		expired = append(expired, k)
	}

	var errs []error
	for _, k := range expired {
		if err := s.Remove(ctx, k); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return len(expired), fmt.Errorf("webstore: flush expired %s: %w", b, errors.Join(errs...))
	}
	return len(expired), nil
}

// SweepRogue removes every backend key that belongs to no bucket, i.e. keys
// written by code that does not go through a Store.
func (s *Store) SweepRogue(ctx context.Context) (int, error) {
	raws, err := s.keysRaw(ctx)
	if err != nil {
		return 0, err
	}
	var rogue []string
	for _, raw := range raws {
		if keyspace.IsRogue(raw) {
			rogue = append(rogue, raw)
		}
	}
	var errs []error
	for _, raw := range rogue {
		if err := s.removeRaw(ctx, raw); err != nil {
			errs = append(errs, err)
		}
	}
	if len(rogue) > 0 {
		s.hooks.RogueSwept(s.name, len(rogue))
	}
	if len(errs) > 0 {
		return len(rogue), fmt.Errorf("webstore: sweep rogue keys: %w", errors.Join(errs...))
	}
	return len(rogue), nil
}
