package middleware

import (
	"net/http"
	"strconv"

	"github.com/ease-up/auth-service/internal/metrics"
	"github.com/ease-up/auth-service/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit runs the named limiter before the handler. Denials answer 429
// with a Retry-After hint; allowed requests carry the standard
// X-RateLimit-* headers.
func RateLimit(name string, limiter *ratelimit.Limiter, maxRequests int) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := limiter.Check(c.Request)

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.UnixMilli(), 10))

		if !result.Allowed {
			metrics.RateLimitDecisionsTotal.WithLabelValues(name, "denied").Inc()
			c.Header("Retry-After", strconv.Itoa(result.RetryAfterSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":               "Too many requests. Please try again later.",
				"retry_after_seconds": result.RetryAfterSeconds,
			})
			return
		}

		metrics.RateLimitDecisionsTotal.WithLabelValues(name, "allowed").Inc()
		c.Next()
	}
}
