package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter is a fixed-window limiter backed by Redis so limits hold
// across every fieldquote instance behind the load balancer.
type RedisLimiter struct {
	redis  *redis.Client
	config *RateLimitConfig
	prefix string
}

// NewRedisLimiter creates a Redis-backed limiter. Keys are namespaced under
// the prefix, "ratelimit" by default.
func NewRedisLimiter(client *redis.Client, config *RateLimitConfig, prefix string) *RedisLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{redis: client, config: config, prefix: prefix}
}

// Limit returns the configured requests-per-window ceiling.
func (l *RedisLimiter) Limit() int { return l.config.RequestsPerWindow }

// Allow counts the request against the key's current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	pipe := l.redis.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.config.WindowDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to check rate limit: %w", err)
	}

	count := incr.Val()
	limit := int64(l.config.RequestsPerWindow + l.config.BurstSize)
	if count > limit {
		retryAfter := l.config.WindowDuration
		if ttl, err := l.redis.TTL(ctx, redisKey).Result(); err == nil && ttl > 0 {
			retryAfter = ttl
		}
		return Decision{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	remaining := int(limit - count)
	return Decision{Allowed: true, Remaining: remaining}, nil
}

// Reset clears the current window for a key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.redis.Del(ctx, fmt.Sprintf("%s:%s", l.prefix, key)).Err()
}

// TTL reports how long until the key's window resets.
func (l *RedisLimiter) TTL(ctx context.Context, key string) (time.Duration, error) {
	return l.redis.TTL(ctx, fmt.Sprintf("%s:%s", l.prefix, key)).Result()
}
