package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/pcfpulse/internal/logger"
)

func TestToString(t *testing.T) {
	if s := toString(nil); s != "" {
		t.Fatalf("nil -> %q, want empty", s)
	}
	if s := toString("abc"); s != "abc" {
		t.Fatalf("string -> %q, want 'abc'", s)
	}
	if s := toString(123); s != "" {
		t.Fatalf("non-string -> %q, want empty", s)
	}
}

// captureLogs points the global logger at a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Set(logger.New(&buf, "debug"))
	t.Cleanup(func() { logger.Init("info", false) })
	return &buf
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusBadRequest, "warn"},
		{http.StatusInternalServerError, "error"},
	}
	for _, tc := range cases {
		buf := captureLogs(t)
		router := gin.New()
		router.Use(RequestID(), RequestLogger())
		router.GET("/api/v1/pcf/funds", func(c *gin.Context) { c.Status(tc.status) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pcf/funds?date=2025-12-04", nil))
		if w.Code != tc.status {
			t.Fatalf("status %d, want %d", w.Code, tc.status)
		}

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("log line not JSON: %v (%q)", err, buf.String())
		}
		if entry["level"] != tc.level {
			t.Fatalf("status %d logged at %v, want %s", tc.status, entry["level"], tc.level)
		}
		if entry["path"] != "/api/v1/pcf/funds" || entry["query"] != "date=2025-12-04" {
			t.Fatalf("unexpected path/query: %v", entry)
		}
		if entry["status"] != float64(tc.status) {
			t.Fatalf("status field %v", entry["status"])
		}
		if entry["request_id"] != w.Header().Get(RequestIDHeader) || entry["request_id"] == "" {
			t.Fatalf("request_id %v does not match header %q", entry["request_id"], w.Header().Get(RequestIDHeader))
		}
	}
}

func TestRequestLogger_WithoutRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line not JSON: %v", err)
	}
	if entry["request_id"] != "" {
		t.Fatalf("request_id = %v, want empty", entry["request_id"])
	}
	if entry["message"] != "http_request" {
		t.Fatalf("message = %v", entry["message"])
	}
}
