package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ease-up/auth-service/internal/ratelimit"
	"github.com/ease-up/auth-service/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedEngine(limiter *ratelimit.Limiter, max int) *gin.Engine {
	r := gin.New()
	r.POST("/limited", middleware.RateLimit("test", limiter, max), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doPost(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/limited", nil)
	req.Header.Set("X-Forwarded-For", ip)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_SetsHeadersAndDeniesWith429(t *testing.T) {
	limiter := ratelimit.New(ratelimit.Config{Window: time.Minute, MaxRequests: 2})
	r := newLimitedEngine(limiter, 2)

	w := doPost(r, "203.0.113.7")
	if w.Code != http.StatusOK {
		t.Fatalf("first call: status = %d", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Errorf("X-RateLimit-Limit = %q, want 2", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "1" {
		t.Errorf("X-RateLimit-Remaining = %q, want 1", got)
	}

	// Burst is off, so the third immediate call is denied.
	doPost(r, "203.0.113.7")
	w = doPost(r, "203.0.113.7")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third call: status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got == "" || got == "0" {
		t.Errorf("Retry-After = %q, want positive seconds", got)
	}
}

func TestRateLimit_IndependentKeysUnaffected(t *testing.T) {
	limiter := ratelimit.New(ratelimit.Config{Window: time.Minute, MaxRequests: 1})
	r := newLimitedEngine(limiter, 1)

	doPost(r, "203.0.113.7")
	if w := doPost(r, "203.0.113.7"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("exhausted key: status = %d, want 429", w.Code)
	}

	if w := doPost(r, "198.51.100.9"); w.Code != http.StatusOK {
		t.Fatalf("fresh key: status = %d, want 200", w.Code)
	}
}
