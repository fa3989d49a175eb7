package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestWithRequestIDKeepsCallerID(t *testing.T) {
	const incoming = "relay-7f3a"
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/session/user", nil)
	req.Header.Set("X-Request-Id", "  "+incoming+"  ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != incoming {
		t.Fatalf("context request id = %q, want %q", seen, incoming)
	}
	if got := rec.Header().Get("X-Request-Id"); got != incoming {
		t.Fatalf("response request id = %q, want %q", got, incoming)
	}
}

func TestWithRequestIDGeneratesUUID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/materials", nil))

	if seen == "" {
		t.Fatal("expected a generated request id in the context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("generated request id %q is not a uuid: %v", seen, err)
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("response header %q should match context id %q", got, seen)
	}
}

func TestRequestIDFromContextDefaults(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("bare context should yield empty id, got %q", got)
	}
	if got := RequestIDFromRequest(nil); got != "" {
		t.Fatalf("nil request should yield empty id, got %q", got)
	}
}
