package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestErrorResponse_Error(t *testing.T) {
	cases := []struct {
		name string
		resp ErrorResponse
		want string
	}{
		{"message only", ErrorResponse{Message: "no data found"}, "no data found"},
		{"with details", ErrorResponse{Message: "no data found", ErrorDetails: "no data"}, "no data found: no data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.resp.Error(); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	e := NewErrorResponse("invalid date", nil)
	if e.Message != "invalid date" || e.ErrorDetails != "" {
		t.Fatalf("unexpected %+v", e)
	}
	if e.Timestamp.IsZero() || time.Since(e.Timestamp) > time.Second || e.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not set to UTC now: %v", e.Timestamp)
	}

	e2 := NewErrorResponse("failed to parse PCF archives", errors.New("permission denied"))
	if e2.ErrorDetails != "permission denied" {
		t.Fatalf("unexpected %+v", e2)
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	b, err := json.Marshal(NewErrorResponse("no data found", nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"message":"no data found"`) || !strings.Contains(s, `"timestamp":`) {
		t.Fatalf("unexpected body %s", s)
	}
	if strings.Contains(s, `"error"`) {
		t.Fatalf("empty details must be omitted: %s", s)
	}
}
