package slog

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"testing"

	"github.com/unkn0wn-root/webstore"
)

func TestLoggerWritesSortedAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelInfo})
	l := New(stdslog.New(h))

	l.Debug("hidden", webstore.Fields{"k": 1})
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered: %s", buf.String())
	}

	l.Warn("get failed", webstore.Fields{"store": "local", "key": "others~$~k"})
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "get failed" || rec["level"] != "WARN" {
		t.Fatalf("record=%v", rec)
	}
	if rec["component"] != "webstore" || rec["store"] != "local" || rec["key"] != "others~$~k" {
		t.Fatalf("attrs=%v", rec)
	}
	if i, j := bytes.Index(buf.Bytes(), []byte(`"key"`)), bytes.Index(buf.Bytes(), []byte(`"store"`)); i > j {
		t.Fatalf("attrs not in key order: %s", buf.String())
	}
}
