package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLoginRateLimit_AllowsRequestsWithinBurst(t *testing.T) {
	cfg := RateLimiterConfig{
		LoginRate:       1, // 1 req/sec
		LoginBurst:      5,
		CleanupInterval: time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.LoginMiddleware()

	handlerCallCount := 0
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestLoginRateLimit_Returns429WhenExceeded(t *testing.T) {
	cfg := RateLimiterConfig{
		LoginRate:       rate.Limit(0.001), // 実質補充なし
		LoginBurst:      2,
		CleanupInterval: time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.LoginMiddleware()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.2:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		statuses[i] = w.Result().StatusCode
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests: statuses = %v, want first two 200", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want %d", statuses[2], http.StatusTooManyRequests)
	}
}

// IPごとに独立したリミッターが使われることを検証する。
func TestLoginRateLimit_SeparatePerIP(t *testing.T) {
	cfg := RateLimiterConfig{
		LoginRate:       rate.Limit(0.001),
		LoginBurst:      1,
		CleanupInterval: time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.LoginMiddleware()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// IP Aのバーストを使い切る
	reqA := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	reqA.RemoteAddr = "192.0.2.10:1000"
	handler.ServeHTTP(httptest.NewRecorder(), reqA)

	reqA2 := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	reqA2.RemoteAddr = "192.0.2.10:1001"
	wA2 := httptest.NewRecorder()
	handler.ServeHTTP(wA2, reqA2)
	if wA2.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("same IP second request: status = %d, want 429", wA2.Result().StatusCode)
	}

	// IP Bは影響を受けない
	reqB := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	reqB.RemoteAddr = "192.0.2.20:2000"
	wB := httptest.NewRecorder()
	handler.ServeHTTP(wB, reqB)
	if wB.Result().StatusCode != http.StatusOK {
		t.Errorf("different IP: status = %d, want 200", wB.Result().StatusCode)
	}
}

func TestLoginRateLimit_SetsRetryAfterHeader(t *testing.T) {
	cfg := RateLimiterConfig{
		LoginRate:       rate.Limit(0.5), // 2秒に1回
		LoginBurst:      1,
		CleanupInterval: time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.LoginMiddleware()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req1 := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req1.RemoteAddr = "192.0.2.30:3000"
	handler.ServeHTTP(httptest.NewRecorder(), req1)

	req2 := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req2.RemoteAddr = "192.0.2.30:3001"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req2)

	if got := w.Result().Header.Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want %q", got, "2")
	}
}

func TestClientIP_StripsPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:54321"

	if got := clientIP(req); got != "192.0.2.1" {
		t.Errorf("clientIP = %q, want %q", got, "192.0.2.1")
	}
}
