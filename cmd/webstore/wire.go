package main

import (
	"context"
	"fmt"
	"io"
	stdslog "log/slog"

	"github.com/unkn0wn-root/webstore"
	"github.com/unkn0wn-root/webstore/backend"
	"github.com/unkn0wn-root/webstore/backend/bigcache"
	"github.com/unkn0wn-root/webstore/backend/memory"
	"github.com/unkn0wn-root/webstore/backend/redis"
	"github.com/unkn0wn-root/webstore/backend/ristretto"
	"github.com/unkn0wn-root/webstore/backend/sqlite"
	"github.com/unkn0wn-root/webstore/codec"
	asynchook "github.com/unkn0wn-root/webstore/hooks/async"
	"github.com/unkn0wn-root/webstore/internal/config"
	wslogrus "github.com/unkn0wn-root/webstore/log/logrus"
	wsslog "github.com/unkn0wn-root/webstore/log/slog"
	wszap "github.com/unkn0wn-root/webstore/log/zap"
	"github.com/unkn0wn-root/webstore/sloghooks"
)

// openLocal opens the durable backend. Connection failures are returned;
// a reachable but unusable backend is left for the store probe to reject.
func openLocal(cfg config.Config) (backend.Backend, error) {
	switch cfg.Backend {
	case "redis":
		return redis.NewFromURL(cfg.RedisURL, cfg.RedisPrefix)
	default:
		return sqlite.Open(sqlite.Config{Path: cfg.DBPath, MaxPages: cfg.MaxPages})
	}
}

func openSession(cfg config.Config) (backend.Backend, error) {
	quota := cfg.SessionQuota
	switch cfg.SessionBackend {
	case "bigcache":
		mb := 0
		if quota > 0 {
			mb = max(1, quota>>20)
		}
		return bigcache.New(bigcache.Config{HardMaxCacheSizeMB: mb})
	case "ristretto":
		if quota <= 0 {
			quota = memory.DefaultQuota
		}
		return ristretto.New(ristretto.Config{
			NumCounters: 1e5,
			MaxCost:     int64(quota),
			BufferItems: 64,
		})
	default:
		return memory.New(memory.Config{Quota: quota}), nil
	}
}

func newCodec(cfg config.Config) (codec.Codec, error) {
	var c codec.Codec
	switch cfg.Codec {
	case "cbor":
		cb, err := codec.NewCBOR(true)
		if err != nil {
			return nil, err
		}
		c = cb
	case "msgpack":
		c = codec.Msgpack{}
	default:
		c = codec.JSON{}
	}
	if cfg.MaxValueBytes > 0 {
		c = codec.LimitCodec{Inner: c, MaxDecode: cfg.MaxValueBytes}
	}
	return c, nil
}

func slogLevel(level string) stdslog.Level {
	var lvl stdslog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return stdslog.LevelWarn
	}
	return lvl
}

// newLogger returns the configured logger and a flush func.
func newLogger(cfg config.Config, stderr io.Writer) (webstore.Logger, func(), error) {
	switch cfg.Log {
	case "logrus":
		l, err := wslogrus.New(stderr, cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		return l, func() {}, nil
	case "slog":
		h := stdslog.NewJSONHandler(stderr, &stdslog.HandlerOptions{Level: slogLevel(cfg.LogLevel)})
		return wsslog.New(stdslog.New(h)), func() {}, nil
	default:
		l, err := wszap.New(cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { _ = l.Sync() }, nil
	}
}

type app struct {
	st      *webstore.Storage
	cleanup []func()
}

func (a *app) close(ctx context.Context) error {
	err := a.st.Close(ctx)
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	return err
}

func build(ctx context.Context, cfg config.Config, stderr io.Writer) (*app, error) {
	logger, flush, err := newLogger(cfg, stderr)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	c, err := newCodec(cfg)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	local, err := openLocal(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	session, err := openSession(cfg)
	if err != nil {
		_ = local.Close(ctx)
		return nil, fmt.Errorf("open %s session backend: %w", cfg.SessionBackend, err)
	}

	hl := stdslog.New(stdslog.NewTextHandler(stderr, &stdslog.HandlerOptions{Level: slogLevel(cfg.LogLevel)}))
	hooks := asynchook.New(sloghooks.New(hl, sloghooks.Options{ExpiredEvery: 10}), 1, 256)

	st, err := webstore.New(ctx, webstore.Options{
		Local:   local,
		Session: session,
		Codec:   c,
		Logger:  logger,
		Hooks:   hooks,
	})
	if err != nil {
		hooks.Close()
		_ = local.Close(ctx)
		_ = session.Close(ctx)
		return nil, err
	}
	st.EnableLocalStorageWarning(cfg.Warnings)
	st.EnableSessionStorageWarning(cfg.Warnings)
	return &app{st: st, cleanup: []func(){flush, hooks.Close}}, nil
}
