package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"recipe-finder/internal/metrics"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// 閒置超過此時間的客戶端限流器會被移除
const limiterIdleTTL = time.Hour

// RateLimiter 以客戶端 IP 區分的令牌桶限流器
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter 創建新的限流器：每個 window 內最多 requests 次
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	return &RateLimiter{
		limiters:  make(map[string]*limiterEntry),
		limit:     rate.Every(window / time.Duration(requests)),
		burst:     requests,
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

// Allow 檢查該客戶端是否還有可用令牌
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	now := rl.now()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastAccess = now
	if now.Sub(rl.lastPrune) > limiterIdleTTL {
		rl.prune(now)
	}
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// prune 移除閒置的限流器，呼叫者需持有鎖
func (rl *RateLimiter) prune(now time.Time) {
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastAccess) > limiterIdleTTL {
			delete(rl.limiters, key)
		}
	}
	rl.lastPrune = now
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return RateLimitWith(NewRateLimiter(requests, window), window)
}

// RateLimitWith 使用既有的限流器
func RateLimitWith(limiter *RateLimiter, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			endpoint := c.FullPath()
			if endpoint == "" {
				endpoint = unmatchedEndpoint
			}
			metrics.RateLimitHits.WithLabelValues(endpoint).Inc()
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				common.ErrTooManyRequests.Response(fmt.Sprintf("retry after %s", window)))
			return
		}

		c.Next()
	}
}
