package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/response"
)

// RateLimiter allows limit requests per client IP within period, counted in
// Redis. With a nil client every request passes.
func RateLimiter(rdb *redis.Client, scope string, limit int64, period time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := "rate_limit:" + scope + ":" + c.ClientIP()
		ctx := c.Request.Context()

		// The window key is created with its TTL before INCR, in one MULTI,
		// so a counter never outlives its period.
		var incr *redis.IntCmd
		_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetNX(ctx, key, 0, period)
			incr = pipe.Incr(ctx, key)
			return nil
		})
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}
		count := incr.Val()

		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Envelope{
				Success: false,
				Error:   &response.ErrorBody{Code: "RATE_LIMITED", Message: "too many requests"},
			})
			return
		}
		c.Next()
	}
}
