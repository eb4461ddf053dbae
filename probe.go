package webstore

import (
	"context"
	"errors"

	"github.com/unkn0wn-root/webstore/backend"
	"github.com/unkn0wn-root/webstore/codec"
)

// probeKey is written and removed once per Store. It carries no bucket, so a
// leftover copy is swept with the rogue keys.
const probeKey = "__webstore_probe__"

// probeBackend reports whether b accepts writes. A quota failure on a
// non-empty backend still counts as supported: the store works, it is full.
func (s *Store) probeBackend(ctx context.Context) bool {
	if s.b == nil {
		return false
	}
	if p, ok := s.b.(backend.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			s.log.Debug("probe ping failed", Fields{"store": s.name, "err": err})
			return false
		}
	}
	if err := s.b.Set(ctx, probeKey, probeKey); err != nil {
		if backend.IsQuotaExceeded(err) {
			if n, lerr := s.b.Len(ctx); lerr == nil && n > 0 {
				s.log.Debug("probe write hit quota on non-empty backend", Fields{"store": s.name, "len": n})
				return true
			}
		}
		s.log.Debug("probe write failed", Fields{"store": s.name, "err": err})
		return false
	}
	if err := s.b.Remove(ctx, probeKey); err != nil {
		s.log.Debug("probe remove failed", Fields{"store": s.name, "err": err})
		return false
	}
	return true
}

// probeCodec round-trips the codec's sample value. A size limit smaller than
// the sample does not disqualify the codec.
func (s *Store) probeCodec() bool {
	if s.codec == nil {
		return false
	}
	b, err := s.codec.Encode(codec.SampleFor(s.codec))
	if err != nil {
		s.log.Debug("codec probe encode failed", Fields{"store": s.name, "err": err})
		return false
	}
	var v any
	if err := s.codec.Decode(b, &v); err != nil && !errors.Is(err, codec.ErrTooLarge) {
		s.log.Debug("codec probe decode failed", Fields{"store": s.name, "err": err})
		return false
	}
	return true
}
