package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(RateLimitConfig{Rate: 5, Burst: 0, Window: time.Minute})
	t.Cleanup(limiter.Stop)

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), RateLimit(limiter))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_RejectsWhenExhausted(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(RateLimitConfig{Rate: 2, Burst: 0, Window: time.Hour})
	t.Cleanup(limiter.Stop)

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), RateLimit(limiter))

	var last *httptest.ResponseRecorder
	for range 3 {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(last, req)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "rate-limit")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: 0, Window: time.Hour})
	t.Cleanup(limiter.Stop)

	allowed, _, _ := limiter.Allow("user:alice")
	assert.True(t, allowed)
	allowed, _, _ = limiter.Allow("user:alice")
	assert.False(t, allowed)

	allowed, _, _ = limiter.Allow("user:bob")
	assert.True(t, allowed)
}
