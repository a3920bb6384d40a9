package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/yamdb-auth/internal/reqctx"
	"github.com/ErlanBelekov/yamdb-auth/internal/token"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

type tokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// Auth validates a Bearer JWT and sets "userID" and "role" in the gin context.
func Auth(tokens tokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Request = c.Request.WithContext(reqctx.WithUserID(c.Request.Context(), claims.Subject))
		c.Set("userID", claims.Subject)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}
