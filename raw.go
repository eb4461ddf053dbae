package webstore

import "context"

// setRaw removes key before writing it. Some backends misbehave when a key is
// overwritten in place (duplicate index entries, stale sizes).
func (s *Store) setRaw(ctx context.Context, key, value string) error {
	if !s.supported {
		return ErrUnsupported
	}
	if err := s.b.Remove(ctx, key); err != nil {
		return err
	}
	return s.b.Set(ctx, key, value)
}

func (s *Store) getRaw(ctx context.Context, key string) (string, bool, error) {
	if !s.supported {
		return "", false, ErrUnsupported
	}
	return s.b.Get(ctx, key)
}

func (s *Store) removeRaw(ctx context.Context, key string) error {
	if !s.supported {
		return ErrUnsupported
	}
	return s.b.Remove(ctx, key)
}

func (s *Store) keysRaw(ctx context.Context) ([]string, error) {
	if !s.supported {
		return nil, ErrUnsupported
	}
	return s.b.Keys(ctx)
}
