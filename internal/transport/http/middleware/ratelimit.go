package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type keyLimiter interface {
	Allow(key string) bool
}

// RateLimit rejects requests once the client IP exhausts its token bucket.
func RateLimit(limiter keyLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
