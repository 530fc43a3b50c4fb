package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"
)

// Limiter decides whether the caller identified by key may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// TokenBucket is a single token bucket refilled once per elapsed interval.
type TokenBucket struct {
	capacity   int64
	tokens     int64
	refillRate int64
	interval   time.Duration
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a full bucket that gains refillRate tokens every interval.
func NewTokenBucket(capacity, refillRate int64, interval time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		interval:   interval,
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) Allow() bool {
	return tb.allowAt(time.Now())
}

func (tb *TokenBucket) allowAt(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	intervals := int64(now.Sub(tb.lastRefill) / tb.interval)
	if intervals > 0 {
		tb.tokens += intervals * tb.refillRate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(intervals) * tb.interval)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// MemoryLimiter keeps one token bucket per key in process memory. Each bucket holds limit
// tokens and refills completely once per window.
type MemoryLimiter struct {
	limit  int64
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*TokenBucket
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   int64(limit),
		window:  window,
		buckets: make(map[string]*TokenBucket),
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	bucket, ok := m.buckets[key]
	if !ok {
		bucket = NewTokenBucket(m.limit, m.limit, m.window)
		m.buckets[key] = bucket
	}
	m.mu.Unlock()
	return bucket.Allow(), nil
}

// RedisLimiter counts requests per key in fixed windows shared by every API instance.
type RedisLimiter struct {
	client radix.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client radix.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (r *RedisLimiter) Allow(_ context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(r.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, slot)

	var count int
	if err := r.client.Do(radix.Cmd(&count, "INCR", redisKey)); err != nil {
		return false, fmt.Errorf("incr %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := r.client.Do(radix.FlatCmd(nil, "PEXPIRE", redisKey, r.window.Milliseconds())); err != nil {
			return false, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}
	return count <= r.limit, nil
}

// RateLimit rejects callers over their budget with 429. Authenticated callers are keyed by user
// id, others by client IP. A failing limiter lets the request through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := UserID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please slow down"})
			return
		}
		c.Next()
	}
}
