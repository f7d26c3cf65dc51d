package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aegiscyber/portal-services/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared across replicas.
// Each window gets a per-caller counter key (INCR + EXPIRE); a request is
// rejected once the counter exceeds floor(rps*window)+burst. Keyed by the
// authenticated subject when present, otherwise by client IP. With a nil
// client it degrades to the in-process token-bucket limiter.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}

	winSecs := int64(window.Seconds())
	if winSecs < 1 {
		winSecs = 1
	}
	limit := int64(rps*float64(winSecs)) + int64(burst)

	return func(c *gin.Context) {
		bucket := time.Now().Unix() / winSecs
		key := "rl:" + limiterKey(c) + ":" + strconv.FormatInt(bucket, 10)

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limit check failed"})
			return
		}
		if count == 1 {
			// first hit in this window; expire a second late to cover skew
			_ = client.Expire(c.Request.Context(), key, time.Duration(winSecs+1)*time.Second).Err()
		}
		if count > limit {
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.Header("Retry-After", strconv.FormatInt(winSecs, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
