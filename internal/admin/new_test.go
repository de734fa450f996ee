package admin

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewServerExposesMetricsAndStats(t *testing.T) {
	src := fakeSources{timers: 2, channel: 0, conns: 7}
	srv := New("127.0.0.1:0", src)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("/metrics status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "nodego_active_timers 2") {
		t.Fatalf("expected nodego_active_timers in output:\n%s", body)
	}
	if !strings.Contains(body, "nodego_connections_accepted_total 7") {
		t.Fatalf("expected nodego_connections_accepted_total in output:\n%s", body)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("GET", "/debug/stats", nil)
	srv.httpServer.Handler.ServeHTTP(w2, req2)
	if w2.Code != 200 {
		t.Fatalf("/debug/stats status = %d, want 200", w2.Code)
	}
}

func TestNewServerAppliesCORSHeaders(t *testing.T) {
	src := fakeSources{}
	srv := New("127.0.0.1:0", src)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/debug/stats", nil)
	req.Header.Set("Origin", "http://example.com")
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected a CORS header on the admin response")
	}
}
