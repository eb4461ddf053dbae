package webstore

import "sync/atomic"

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. Provide an adapter around logging stack
// (see log/zap, log/logrus, log/slog).
// If Logger is nil in Options, logging is disabled.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// warnGate forwards warnings only while enabled. Failures surfaced by the
// facade are silent unless the caller opts in per store.
type warnGate struct {
	on  atomic.Bool
	log Logger
}

func (g *warnGate) warn(msg string, f Fields) {
	if g.on.Load() {
		g.log.Warn(msg, f)
	}
}
