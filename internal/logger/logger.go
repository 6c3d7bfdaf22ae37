// Package logger owns the process-wide zerolog configuration.
//
// Long-running components (the aggregator, the downloader) receive a scoped
// zerolog.Logger derived from L() instead of reaching for the global.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	base   zerolog.Logger
	inited bool
)

// Init configures the global logger.
//
// Parameters:
//   - level: debug|info|warn|error (anything else means info).
//   - pretty: human-readable console output instead of JSON lines.
func Init(level string, pretty bool) {
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	Set(New(w, level))
}

// Set replaces the global logger, e.g. to redirect process logs to a buffer.
func Set(l zerolog.Logger) {
	mu.Lock()
	base, inited = l, true
	mu.Unlock()
}

// New builds a timestamped logger writing to w.
func New(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
}

// L returns the global logger. If Init was never called it is configured from
// LOG_LEVEL and LOG_PRETTY.
func L() *zerolog.Logger {
	mu.RLock()
	ready := inited
	mu.RUnlock()
	if !ready {
		Init(getenv("LOG_LEVEL", "info"), strings.EqualFold(getenv("LOG_PRETTY", "false"), "true"))
	}

	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
