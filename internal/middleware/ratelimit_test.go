package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func rateLimitedHandler(t *testing.T, requestsPerWindow int) (http.Handler, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	middleware := RateLimitMiddleware(redisClient, RateLimitConfig{
		RequestsPerWindow: requestsPerWindow,
		Window:            1 * time.Second,
		KeyPrefix:         "test_rate_limit",
	}, zap.NewNop())

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cleanup := func() {
		redisClient.Close()
		mr.Close()
	}
	return handler, cleanup
}

func TestRateLimit_BlocksExcessiveRequests(t *testing.T) {
	const limit = 5
	const excess = 3

	handler, cleanup := rateLimitedHandler(t, limit)
	defer cleanup()

	successCount := 0
	blockedCount := 0

	for i := 0; i < limit+excess; i++ {
		req := httptest.NewRequest("POST", "/products", nil)
		req.RemoteAddr = "192.168.1.100:51234"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		switch w.Code {
		case http.StatusOK:
			successCount++
		case http.StatusTooManyRequests:
			blockedCount++
		}
	}

	if successCount != limit {
		t.Errorf("expected %d allowed requests, got %d", limit, successCount)
	}
	if blockedCount != excess {
		t.Errorf("expected %d blocked requests, got %d", excess, blockedCount)
	}
}

func TestRateLimit_IndependentClients(t *testing.T) {
	handler, cleanup := rateLimitedHandler(t, 1)
	defer cleanup()

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest("POST", "/products", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("first request from %s should be allowed, got %d", addr, w.Code)
		}
	}
}

func TestRateLimit_HeadersAreSet(t *testing.T) {
	handler, cleanup := rateLimitedHandler(t, 10)
	defer cleanup()

	req := httptest.NewRequest("POST", "/products", nil)
	req.RemoteAddr = "192.168.1.101:51234"
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("X-RateLimit-Limit header missing")
	}
	if w.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("X-RateLimit-Remaining header missing")
	}
}
