package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(":0", nil, nil, nil, nil, nil)
}

func TestHandleFeedback(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(`{"message": "The browser provider is slow"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Thank you for your feedback!") {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestHandleFeedback_EmptyMessage(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(`{"message": "   "}`))
	rec := httptest.NewRecorder()

	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
