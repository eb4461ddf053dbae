// Package zap adapts go.uber.org/zap to webstore.Logger.
package zap

import (
	"fmt"
	"sort"

	"github.com/unkn0wn-root/webstore"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ webstore.Logger = (*Logger)(nil)

type Logger struct{ L *zap.Logger }

// New builds a production (JSON, stderr) zap logger at the given level
// ("debug", "info", "warn", "error").
func New(level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("zap: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{L: l.Named("webstore")}, nil
}

func (z *Logger) Debug(msg string, f webstore.Fields) { z.L.Debug(msg, zf(f)...) }
func (z *Logger) Info(msg string, f webstore.Fields)  { z.L.Info(msg, zf(f)...) }
func (z *Logger) Warn(msg string, f webstore.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z *Logger) Error(msg string, f webstore.Fields) { z.L.Error(msg, zf(f)...) }

// Sync flushes buffered entries.
func (z *Logger) Sync() error { return z.L.Sync() }

// zf converts fields in key order; error values use zap's error encoding.
func zf(f webstore.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
