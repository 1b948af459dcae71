package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", zapcore.AddSync(&buf))

	log.InfoObj("balance fetched", "balance_meta", map[string]any{"amount": "55"})
	log.DebugObj("hidden", "k", "v")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected one line at info level, got %d: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["msg"] != "balance fetched" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts key: %v", entry)
	}
	meta, ok := entry["balance_meta"].(map[string]any)
	if !ok || meta["amount"] != "55" {
		t.Fatalf("balance_meta = %#v", entry["balance_meta"])
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if parseLevel("bogus") != zapcore.InfoLevel {
		t.Fatalf("expected info for unknown level")
	}
	if parseLevel("warning") != zapcore.WarnLevel {
		t.Fatalf("expected warn for warning")
	}
}

func TestEnsureReturnsNop(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger")
	}
}
