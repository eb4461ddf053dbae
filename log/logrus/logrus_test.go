package logrus

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/unkn0wn-root/webstore"
)

func TestLoggerFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := &Logger{E: logrus.NewEntry(base)}

	l.Warn("clear bucket failed", webstore.Fields{"bucket": "auth", "err": errors.New("boom")})
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.WarnLevel || e.Message != "clear bucket failed" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Data["bucket"] != "auth" {
		t.Fatalf("bucket=%v", e.Data["bucket"])
	}
	if err, _ := e.Data[logrus.ErrorKey].(error); err == nil || err.Error() != "boom" {
		t.Fatalf("error field=%v", e.Data[logrus.ErrorKey])
	}

	l.Debug("probe", nil)
	if len(hook.AllEntries()) != 2 {
		t.Fatalf("entries=%d", len(hook.AllEntries()))
	}
}

func TestNewLevel(t *testing.T) {
	if _, err := New(io.Discard, "chatty"); err == nil {
		t.Fatalf("expected level error")
	}
	l, err := New(io.Discard, "error")
	if err != nil {
		t.Fatal(err)
	}
	if l.E.Logger.IsLevelEnabled(logrus.WarnLevel) {
		t.Fatalf("warn must be disabled at error level")
	}
}
