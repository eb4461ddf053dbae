// Package logrus adapts github.com/sirupsen/logrus to webstore.Logger.
package logrus

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/webstore"
)

var _ webstore.Logger = (*Logger)(nil)

type Logger struct{ E *logrus.Entry }

// New returns a JSON logrus logger writing to w at the given level.
func New(w io.Writer, level string) (*Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.JSONFormatter{})
	return &Logger{E: l.WithField("component", "webstore")}, nil
}

func (l *Logger) Debug(msg string, f webstore.Fields) { l.with(f).Debug(msg) }
func (l *Logger) Info(msg string, f webstore.Fields)  { l.with(f).Info(msg) }
func (l *Logger) Warn(msg string, f webstore.Fields)  { l.with(f).Warn(msg) }
func (l *Logger) Error(msg string, f webstore.Fields) { l.with(f).Error(msg) }

func (l *Logger) with(f webstore.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	e := l.E
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			e = e.WithError(err)
			continue
		}
		e = e.WithField(k, v)
	}
	return e
}
