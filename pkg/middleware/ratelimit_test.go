package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterAllow(t *testing.T) {
	limiter := NewMemoryLimiter(&RateLimitConfig{
		RequestsPerWindow: 2,
		WindowDuration:    time.Minute,
		BurstSize:         0,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		decision, err := limiter.Allow(ctx, "org:1")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	}

	decision, err := limiter.Allow(ctx, "org:1")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, time.Duration(0))

	// Other keys are unaffected.
	decision, err = limiter.Allow(ctx, "org:2")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestMemoryLimiterCleanup(t *testing.T) {
	limiter := NewMemoryLimiter(&RateLimitConfig{
		RequestsPerWindow: 10,
		WindowDuration:    time.Millisecond,
		BurstSize:         0,
	})

	_, err := limiter.Allow(context.Background(), "org:1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	limiter.Cleanup()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Empty(t, limiter.buckets)
}

func TestRedisLimiterAllow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisLimiter(client, &RateLimitConfig{
		RequestsPerWindow: 2,
		WindowDuration:    time.Minute,
		BurstSize:         0,
	}, "test")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		decision, err := limiter.Allow(ctx, "org:1")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	}

	decision, err := limiter.Allow(ctx, "org:1")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	require.NoError(t, limiter.Reset(ctx, "org:1"))
	decision, err = limiter.Allow(ctx, "org:1")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewMemoryLimiter(&RateLimitConfig{
		RequestsPerWindow: 1,
		WindowDuration:    time.Minute,
		BurstSize:         0,
	})

	router := mux.NewRouter()
	router.Use(RateLimit(limiter))
	router.HandleFunc("/api/v1/orgs/{org_id}/quote", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	do := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		return rec
	}

	rec := do("/api/v1/orgs/1/quote")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = do("/api/v1/orgs/1/quote")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A different org has its own bucket.
	rec = do("/api/v1/orgs/2/quote")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisLimiter(client, nil, "")
	mr.Close()

	router := mux.NewRouter()
	router.Use(RateLimit(limiter))
	router.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/items", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
