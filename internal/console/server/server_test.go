package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xela07ax/bestcdn-board/internal/console/handler"
	"github.com/xela07ax/bestcdn-board/internal/dashboard"
	"github.com/xela07ax/bestcdn-board/internal/domain"
	"github.com/xela07ax/bestcdn-board/internal/infra"
	"go.uber.org/zap"
)

type stubLoader struct{ snap domain.Snapshot }

func (s stubLoader) Load(ctx context.Context) (domain.Snapshot, error) { return s.snap, nil }

func newTestServer(t *testing.T, cfg infra.ServerConfig) *DashboardServer {
	t.Helper()

	renderer, err := dashboard.NewRenderer(dashboard.WithClock(func() time.Time {
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	h := handler.NewDashboardHandler(
		stubLoader{snap: domain.Snapshot{IPv4: "1.1.1.1,4,4,0,10,12,HKG", IPv4Time: "t4"}},
		renderer,
		dashboard.Settings{Provider: "Cloudflare", Domain: "cname.example.com"},
		nil,
		zap.NewNop(),
	)
	return NewDashboardServer(cfg, zap.NewNop(), nil, h)
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t, infra.ServerConfig{})

	cases := []struct {
		path   string
		status int
		ctype  string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/api/v1/dashboard", http.StatusOK, "application/json"},
		{"/health", http.StatusOK, ""},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

		if rec.Code != tc.status {
			t.Fatalf("%s: status=%d, want %d", tc.path, rec.Code, tc.status)
		}
		if tc.ctype != "" && !strings.HasPrefix(rec.Header().Get("Content-Type"), tc.ctype) {
			t.Fatalf("%s: content type=%q", tc.path, rec.Header().Get("Content-Type"))
		}
		if rec.Header().Get("X-Trace-ID") == "" {
			t.Fatalf("%s: missing X-Trace-ID", tc.path)
		}
	}
}

func TestServer_PostNotAllowed(t *testing.T) {
	srv := newTestServer(t, infra.ServerConfig{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestTracingMiddleware_KeepsIncomingID(t *testing.T) {
	var seen string
	h := TracingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc-123" || rec.Header().Get("X-Trace-ID") != "abc-123" {
		t.Fatalf("seen=%q header=%q", seen, rec.Header().Get("X-Trace-ID"))
	}
	if TraceID(context.Background()) != "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("fallback trace id changed")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	srv := newTestServer(t, infra.ServerConfig{RateLimitRPS: 0.001, RateLimitBurst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes=%v", codes)
	}

	// health не ограничивается
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status=%d", rec.Code)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
	if rec.Body.String() != "error: boom\n" {
		t.Fatalf("body=%q", rec.Body.String())
	}
}
