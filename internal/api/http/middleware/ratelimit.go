package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apitypes "github.com/weisyn/rwaledger/internal/api/http/types"
)

// RateLimit 按客户端 IP 的令牌桶限流
//
// GET/HEAD 视为读，其余方法视为写；限额为 0 的一侧不限流。
type RateLimit struct {
	limiters   map[string]*rateLimiter
	mu         sync.Mutex
	readLimit  int
	writeLimit int
	now        func() time.Time
}

// rateLimiter 简单的令牌桶限流器
type rateLimiter struct {
	tokens     int
	maxTokens  int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimit 创建限流中间件
func NewRateLimit(readLimit, writeLimit int) *RateLimit {
	return &RateLimit{
		limiters:   make(map[string]*rateLimiter),
		readLimit:  readLimit,
		writeLimit: writeLimit,
		now:        time.Now,
	}
}

// Middleware 返回Gin中间件
func (m *RateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		write := c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead
		limit, kind := m.readLimit, "r"
		if write {
			limit, kind = m.writeLimit, "w"
		}
		if limit <= 0 {
			c.Next()
			return
		}

		if !m.allow(kind+"|"+c.ClientIP(), limit) {
			body := apitypes.NewErrorResponse(apitypes.ErrRateLimitExceeded, "request rate limit exceeded", map[string]interface{}{
				"limit":      limit,
				"retryAfter": "1s",
			})
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, body.WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func (m *RateLimit) allow(key string, limit int) bool {
	m.mu.Lock()
	limiter, exists := m.limiters[key]
	if !exists {
		limiter = &rateLimiter{
			tokens:     limit,
			maxTokens:  limit,
			lastRefill: m.now(),
		}
		m.limiters[key] = limiter
	}
	m.mu.Unlock()

	return limiter.consume(m.now())
}

// consume 消费一个令牌，每满一秒补满 maxTokens 个
func (r *rateLimiter) consume(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if elapsed := now.Sub(r.lastRefill); elapsed >= time.Second {
		r.tokens += int(elapsed/time.Second) * r.maxTokens
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = now
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}
