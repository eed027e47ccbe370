package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/pkg/response"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitOptions configures a fixed-window limiter.
type RateLimitOptions struct {
	// Scope separates counters of different limiters sharing one Redis.
	Scope  string
	Max    int64
	Window time.Duration
	Logger *zap.Logger
}

// RateLimit allows at most Max requests per client IP in each Window. Redis
// errors fail open. Authenticated requests are not counted.
func RateLimit(rdb *redis.Client, opts RateLimitOptions) gin.HandlerFunc {
	if opts.Max <= 0 {
		opts.Max = 50
	}
	if opts.Window <= 0 {
		opts.Window = time.Second
	}
	if opts.Scope == "" {
		opts.Scope = "global"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	retryAfter := strconv.Itoa(int((opts.Window + time.Second - 1) / time.Second))

	return func(c *gin.Context) {
		if rdb == nil || IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		window := time.Now().UnixNano() / int64(opts.Window)
		key := fmt.Sprintf("lf:rate_limit:%s:%s:%d", opts.Scope, ip, window)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rdb.PExpire(ctx, key, opts.Window+time.Second)
		}

		if count > opts.Max {
			opts.Logger.Warn("rate limited",
				zap.String("scope", opts.Scope),
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", retryAfter)
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
