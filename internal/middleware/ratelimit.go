package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/pkg/response"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit enforces a per-IP fixed window of max requests per window,
// counted in Redis so every instance shares the budget. Redis failures let
// the request through.
func RateLimit(rdb *redis.Client, scope string, max int64, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if rdb == nil || ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		bucket := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("qv:rate_limit:%s:%s:%d", scope, ip, bucket)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.PExpire(ctx, key, window+time.Second)
		}

		if count > max {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())+1))
			response.TooManyRequests(c, "too many requests, slow down")
			return
		}
		c.Next()
	}
}
