package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limit allows Max requests per client per Window.
type Limit struct {
	Name   string
	Max    int64
	Window time.Duration
}

// Counter counts hits on key within a fixed window that starts at the first
// hit.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter shares counters between processes.
type RedisCounter struct {
	Client *redis.Client
}

func (r RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.Client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// MemoryCounter keeps counters in process.
type MemoryCounter struct {
	now func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int64
	resetAt time.Time
}

func NewMemoryCounter(now func() time.Time) *MemoryCounter {
	if now == nil {
		now = time.Now
	}
	return &MemoryCounter{now: now, windows: make(map[string]*window)}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, d time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(d)}
		m.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// RateLimit rejects clients that exceed limit with 429. Counter failures let
// the request through.
func RateLimit(counter Counter, limit Limit, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit.Max <= 0 {
			c.Next()
			return
		}
		key := "rate:" + limit.Name + ":" + c.ClientIP()
		n, err := counter.Incr(c.Request.Context(), key, limit.Window)
		if err != nil {
			logger.Warn("rate limit counter unavailable", zap.String("limit", limit.Name), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit.Max, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(limit.Max-n, 0), 10))
		if n > limit.Max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     fmt.Sprintf("Too many requests. Try again in %d seconds", int(limit.Window.Seconds())),
				"error":       true,
				"retry_after": int(limit.Window.Seconds()),
			})
			return
		}
		c.Next()
	}
}
