package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// RateLimitConfig defines how many requests a single organization may issue
// against the pricing API in one window.
type RateLimitConfig struct {
	// RequestsPerWindow is the max requests allowed in the time window.
	RequestsPerWindow int
	// WindowDuration is the time window for rate limiting.
	WindowDuration time.Duration
	// BurstSize allows temporary bursts above the rate.
	BurstSize int
}

// DefaultRateLimitConfig returns default per-organization limits.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerWindow: 600,
		WindowDuration:    time.Minute,
		BurstSize:         60,
	}
}

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a keyed request may proceed. Implementations exist
// for a single process (MemoryLimiter) and for a fleet sharing Redis
// (RedisLimiter).
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Limit() int
}

// MemoryLimiter is a token bucket limiter local to one process.
type MemoryLimiter struct {
	config  *RateLimitConfig
	buckets map[string]*bucket
	mu      sync.Mutex
}

type bucket struct {
	tokens     float64
	lastUpdate time.Time
}

// NewMemoryLimiter creates an in-process token bucket limiter.
func NewMemoryLimiter(config *RateLimitConfig) *MemoryLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	return &MemoryLimiter{
		config:  config,
		buckets: make(map[string]*bucket),
	}
}

// Limit returns the configured requests-per-window ceiling.
func (l *MemoryLimiter) Limit() int { return l.config.RequestsPerWindow }

// Allow consumes one token for the key, refilling based on elapsed time.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	capacity := float64(l.config.RequestsPerWindow + l.config.BurstSize)
	refillPerSecond := float64(l.config.RequestsPerWindow) / l.config.WindowDuration.Seconds()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, lastUpdate: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastUpdate).Seconds() * refillPerSecond
	if b.tokens > capacity {
		b.tokens = capacity
	}
	b.lastUpdate = now

	if b.tokens < 1 {
		wait := time.Duration((1 - b.tokens) / refillPerSecond * float64(time.Second))
		return Decision{Allowed: false, Remaining: 0, RetryAfter: wait}, nil
	}
	b.tokens--
	return Decision{Allowed: true, Remaining: int(b.tokens)}, nil
}

// Cleanup drops buckets idle for more than two windows.
func (l *MemoryLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-2 * l.config.WindowDuration)
	for key, b := range l.buckets {
		if b.lastUpdate.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// StartCleanup runs Cleanup once per window until the context is cancelled.
func (l *MemoryLimiter) StartCleanup(ctx context.Context) {
	ticker := time.NewTicker(l.config.WindowDuration)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RateLimit wraps a handler with per-organization rate limiting. Requests are
// keyed by the org_id path variable when present, falling back to the client
// IP for unscoped routes.
func RateLimit(limiter Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limitKey(r)
			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// Fail open so a broken limiter backend cannot take
				// down the pricing API.
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				retryAfter := decision.RetryAfter.Seconds()
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprintf(w, `{"error":"rate limit exceeded","retry_after":%.0f}`, retryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func limitKey(r *http.Request) string {
	if orgID := mux.Vars(r)["org_id"]; orgID != "" {
		return "org:" + orgID
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
