package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"lifeline/utils"
)

// RateLimitConfig controls the fixed-window rate limiter.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

// DefaultRateLimitConfig limits each client IP to 60 requests per minute.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: 60,
		Window:   time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// IntentRateLimitConfig is the stricter window for state-changing safety
// routes such as check-in, SOS and reset.
func IntentRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return "intent:" + c.ClientIP()
		},
	}
}

// RateLimit returns a redis-backed fixed-window rate limit middleware.
// When the redis client is nil the limiter is disabled.
func RateLimit(client *redis.Client, config RateLimitConfig) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), config.KeyFunc(c))
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			// Fail open so a redis outage does not block safety traffic.
			logrus.Warnf("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, config.Window)
		}

		if count > int64(config.Requests) {
			ttl, _ := client.TTL(ctx, key).Result()
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			utils.TooManyRequestsResponse(c, "Rate limit exceeded, please slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
