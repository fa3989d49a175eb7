// Package ratelimit throttles the verification relay with a Redis-backed
// fixed-window counter so limits hold across gateway replicas.
package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisCallTimeout = 2 * time.Second

// countAndExpire bumps the window counter and stamps the TTL on first use,
// atomically, so a crashed caller can never leave a counter that lives
// forever.
var countAndExpire = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// FixedWindowLimiter counts requests per caller key in fixed wall-clock
// windows. When Redis is unreachable it denies the request and logs; the
// verification relay would rather reject a burst than let one through
// unmetered.
type FixedWindowLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration

	now func() time.Time
}

// NewFixedWindowLimiter connects a limiter to Redis. Prefix namespaces the
// counters so independent limiters can share one Redis.
func NewFixedWindowLimiter(addr, password, prefix string, limit int, window time.Duration) (*FixedWindowLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("rate limiter redis addr is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "neetgenie:ratelimit"
	}
	return &FixedWindowLimiter{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		prefix: prefix,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}, nil
}

// Allow reports whether the caller identified by key is still within quota
// for the current window.
func (l *FixedWindowLimiter) Allow(key string) bool {
	if l == nil {
		return false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}
	windowMillis := l.window.Milliseconds()
	slot := l.now().UnixMilli() / windowMillis
	counterKey := l.prefix + ":" + key + ":" + strconv.FormatInt(slot, 10)

	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()
	count, err := countAndExpire.Run(ctx, l.client, []string{counterKey}, windowMillis).Int64()
	if err != nil {
		slog.Warn("rate limiter unavailable, failing closed", "key", key, "err", err)
		return false
	}
	return count <= l.limit
}
