package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"ERR", zerolog.ErrorLevel},
		{" Debug ", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"something", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("X", "val")
	if v := getenv("X", "def"); v != "val" {
		t.Fatalf("getenv returned %q, want 'val'", v)
	}
	if v := getenv("Y", "def"); v != "def" {
		t.Fatalf("getenv returned %q, want 'def'", v)
	}
}

func TestInitAndL(t *testing.T) {
	Init("info", false)
	if L().GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level, got %v", L().GetLevel())
	}

	Init("debug", true)
	if L().GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", L().GetLevel())
	}
}

func TestNew_WritesJSONWithScope(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn").With().Str("run_id", "abc").Logger()

	l.Info().Msg("dropped")
	l.Warn().Str("file", "x.csv").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one json line, got %q: %v", buf.String(), err)
	}
	if entry["run_id"] != "abc" || entry["file"] != "x.csv" || entry["message"] != "kept" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("missing timestamp: %v", entry)
	}
}

// L() lazily initializes from the environment when Init was never called.
func TestLoggerAccessor_LazyInit(t *testing.T) {
	mu.Lock()
	base, inited = zerolog.Logger{}, false
	mu.Unlock()
	_ = os.Unsetenv("LOG_PRETTY")
	t.Setenv("LOG_LEVEL", "error")

	lg := L()
	if lg == nil {
		t.Fatalf("logger is nil")
	}
	if lg.GetLevel() != zerolog.ErrorLevel {
		t.Fatalf("expected error level from env, got %v", lg.GetLevel())
	}
}

func TestSet_RedirectsGlobal(t *testing.T) {
	var buf bytes.Buffer
	Set(New(&buf, "info"))
	t.Cleanup(func() { Init("info", false) })

	L().Info().Str("mode", "parse").Msg("redirected")
	if !bytes.Contains(buf.Bytes(), []byte(`"mode":"parse"`)) {
		t.Fatalf("global logger not redirected: %q", buf.String())
	}
}
