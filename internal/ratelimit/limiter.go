// Package ratelimit provides a fixed-window request limiter keyed by an
// injected identifier such as a wallet address.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describes the quota state of a key after a check.
type Result struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Limiter decides whether a key may perform another request.
type Limiter interface {
	// Allow records one request for key and reports whether it fits the window.
	Allow(ctx context.Context, key string) (Result, error)
	// Status reports the quota for key without consuming it.
	Status(ctx context.Context, key string) (Result, error)
}

// allowScript increments the window counter, starting the window on first use.
var allowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`)

// RedisLimiter is a fixed-window limiter backed by Redis counters.
type RedisLimiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
	prefix      string
	now         func() time.Time
}

// NewRedisLimiter allows maxRequests per window for each key.
func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxRequests: maxRequests,
		window:      window,
		prefix:      "ratelimit:",
		now:         time.Now,
	}
}

func (l *RedisLimiter) key(key string) string {
	return l.prefix + strings.ToLower(strings.TrimSpace(key))
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	values, err := allowScript.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if len(values) != 2 {
		return Result{}, fmt.Errorf("unexpected rate limit reply: %v", values)
	}

	count, ttl := int(values[0]), time.Duration(values[1])*time.Millisecond
	return l.result(count, ttl, count <= l.maxRequests), nil
}

func (l *RedisLimiter) Status(ctx context.Context, key string) (Result, error) {
	redisKey := l.key(key)

	count, err := l.client.Get(ctx, redisKey).Int()
	if err == redis.Nil {
		return Result{Allowed: true, Remaining: l.maxRequests, ResetAt: l.now().Add(l.window)}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read rate limit: %w", err)
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read rate limit ttl: %w", err)
	}
	return l.result(count, ttl, count < l.maxRequests), nil
}

func (l *RedisLimiter) result(count int, ttl time.Duration, allowed bool) Result {
	if ttl < 0 {
		ttl = l.window
	}
	remaining := l.maxRequests - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl),
	}
}
