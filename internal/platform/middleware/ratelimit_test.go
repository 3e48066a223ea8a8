package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestLimiter(t *testing.T, rps float64, burst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: rps, BurstSize: burst})
	t.Cleanup(rl.Close)
	return rl
}

func serve(h echo.HandlerFunc, ip string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRateLimit_RequestsWithinLimit(t *testing.T) {
	h := RateLimit(newTestLimiter(t, 10, 5))(okHandler)

	for i := 0; i < 5; i++ {
		rec, err := serve(h, "10.0.0.1")
		if err != nil {
			t.Fatalf("request %d: expected no error, got %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "10" {
			t.Errorf("request %d: expected X-RateLimit-Limit '10', got %q", i+1, got)
		}
	}
}

func TestRateLimit_ExceedsLimit(t *testing.T) {
	h := RateLimit(newTestLimiter(t, 1, 2))(okHandler)

	for i := 0; i < 2; i++ {
		if _, err := serve(h, "10.0.0.1"); err != nil {
			t.Fatalf("request %d: expected no error, got %v", i+1, err)
		}
	}

	rec, err := serve(h, "10.0.0.1")
	if err == nil {
		t.Fatal("expected rate limit error on third request")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 HTTPError, got %v", err)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("expected Retry-After 1, got %q", rec.Header().Get("Retry-After"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Error("expected X-RateLimit-Remaining 0")
	}
}

func TestRateLimit_PerClient(t *testing.T) {
	h := RateLimit(newTestLimiter(t, 1, 1))(okHandler)

	if _, err := serve(h, "10.0.0.1"); err != nil {
		t.Fatalf("first client: %v", err)
	}
	if _, err := serve(h, "10.0.0.1"); err == nil {
		t.Fatal("expected first client to be limited")
	}
	if _, err := serve(h, "10.0.0.2"); err != nil {
		t.Errorf("second client must have its own bucket, got %v", err)
	}
}

func TestRateLimiter_CleanupForgetsIdleClients(t *testing.T) {
	rl := newTestLimiter(t, 1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")

	now = now.Add(2 * time.Minute)
	rl.Allow("10.0.0.2")

	now = now.Add(2 * time.Minute)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["10.0.0.1"]; ok {
		t.Error("expected idle client to be forgotten")
	}
	if _, ok := rl.clients["10.0.0.2"]; !ok {
		t.Error("expected recently seen client to be kept")
	}
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond != 5 || cfg.BurstSize != 10 || cfg.IdleTTL != 3*time.Minute {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
