package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHeaderEchoMirrorsCallerHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Request-Id", "req_abc")
	req.Header.Set("Idempotency-Key", "idem_xyz")

	HeaderEcho(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if got := rec.Header().Get("Request-Id"); got != "req_abc" {
		t.Fatalf("expected verbatim request id echo, got %q", got)
	}
	if got := rec.Header().Get("Idempotency-Key"); got != "idem_xyz" {
		t.Fatalf("expected verbatim idempotency key echo, got %q", got)
	}
}

func TestHeaderEchoNeverGeneratesIDs(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", nil)

	HeaderEcho(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if got := rec.Header().Get("Request-Id"); got != "" {
		t.Fatalf("absent request id must echo empty, got %q", got)
	}
	if got := rec.Header().Get("Idempotency-Key"); got != "" {
		t.Fatalf("absent idempotency key must echo empty, got %q", got)
	}
}
