// Package throttle provides the rate-shaping primitives shared by the
// dispatch engine and the HTTP surface: a Redis-backed request counter
// with TTL eviction, and a pacer that spaces successful sends.
package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lua script for an atomic check-and-increment on a single counter key.
// Avoids the GET -> check -> INCR race under concurrent invocations.
const counterLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local current = tonumber(redis.call("GET", key) or "0")

if current + 1 > limit then
    return {0, current}
end

local newVal = redis.call("INCR", key)
if newVal == 1 then
    redis.call("EXPIRE", key, ttl)
end

return {1, newVal}
`

// Limiter counts events per identifier inside a rolling window. Counter
// keys expire with the window, so inactive identifiers evict themselves.
type Limiter struct {
	redis  *redis.Client
	script *redis.Script
}

// NewLimiter creates a limiter with a pre-compiled Lua script.
func NewLimiter(redisClient *redis.Client) *Limiter {
	return &Limiter{
		redis:  redisClient,
		script: redis.NewScript(counterLuaScript),
	}
}

// NewLimiterFromURL creates a limiter by connecting to Redis and verifying
// the connection.
func NewLimiterFromURL(redisURL string) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewLimiter(client), nil
}

// Allow atomically checks and increments the counter for identifier within
// the current window bucket. Returns whether the event is allowed and how
// many slots remain.
func (l *Limiter) Allow(ctx context.Context, identifier string, limit int, window time.Duration) (allowed bool, remaining int, err error) {
	now := time.Now()
	bucket := now.Unix() / int64(window.Seconds())
	key := fmt.Sprintf("throttle:%s:%d", identifier, bucket)

	// TTL of two windows keeps the previous bucket around briefly for
	// debugging while still evicting idle identifiers.
	ttl := int(window.Seconds()) * 2

	result, err := l.script.Run(ctx, l.redis, []string{key}, limit, ttl).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowedInt := result[0].(int64)
	current := result[1].(int64)

	if allowedInt == 0 {
		return false, 0, nil
	}
	return true, limit - int(current), nil
}

// Close closes the underlying Redis connection.
func (l *Limiter) Close() error {
	return l.redis.Close()
}
