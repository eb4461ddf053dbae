package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/webstore/backend"
)

var ErrNilClient = errors.New("redis backend: nil client")

const scanCount = 256

// Redis stores every key under Prefix. Enumeration order is lexical because
// Redis has no insertion order; webstore never depends on a specific order.
type Redis struct {
	rdb         goredis.UniversalClient
	prefix      string
	closeClient bool
}

var (
	_ backend.Backend = (*Redis)(nil)
	_ backend.Pinger  = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	Prefix      string // e.g. "app:local:"; keys outside it are invisible
	CloseClient bool   // set true only if this backend exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, prefix: cfg.Prefix, closeClient: cfg.CloseClient}, nil
}

// NewFromURL parses a redis:// URL and owns the resulting client.
func NewFromURL(url, prefix string) (*Redis, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return New(Config{Client: goredis.NewClient(opts), Prefix: prefix, CloseClient: true})
}

func (p *Redis) Ping(ctx context.Context) error {
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
	}
	return nil
}

func (p *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := p.rdb.Get(ctx, p.prefix+key).Result()
	if err == goredis.Nil {
		return "", false, nil // miss
	}
	if err != nil {
		return "", false, err // transport/server error
	}
	return v, true, nil
}

func (p *Redis) Set(ctx context.Context, key, value string) error {
	err := p.rdb.Set(ctx, p.prefix+key, value, 0).Err()
	if err == nil {
		return nil
	}
	if isOOM(err) {
		return fmt.Errorf("redis set %q: %w: %v", key, backend.ErrQuotaExceeded, err)
	}
	return err
}

// isOOM reports the error Redis returns when maxmemory is reached under the
// noeviction policy.
func isOOM(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM command not allowed")
}

func (p *Redis) Remove(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, p.prefix+key).Err()
}

func (p *Redis) Len(ctx context.Context) (int, error) {
	keys, err := p.scan(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (p *Redis) Keys(ctx context.Context) ([]string, error) {
	keys, err := p.scan(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (p *Redis) scan(ctx context.Context) ([]string, error) {
	var (
		out    []string
		cursor uint64
	)
	match := escapeGlob(p.prefix) + "*"
	for {
		keys, next, err := p.rdb.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		for _, k := range keys {
			out = append(out, strings.TrimPrefix(k, p.prefix))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	// SCAN may return a key more than once
	seen := make(map[string]struct{}, len(out))
	uniq := out[:0]
	for _, k := range out {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq, nil
}

// Close releases the underlying redis client only when this backend owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
