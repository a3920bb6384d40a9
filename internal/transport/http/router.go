package httptransport

import (
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/yamdb-auth/internal/ratelimit"
	"github.com/ErlanBelekov/yamdb-auth/internal/repository"
	"github.com/ErlanBelekov/yamdb-auth/internal/token"
	"github.com/ErlanBelekov/yamdb-auth/internal/transport/http/handler"
	"github.com/ErlanBelekov/yamdb-auth/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// NewRouter builds the API engine. Only X-Forwarded-For set by a peer listed
// in trustedProxies is believed; with none, the socket address is the client IP.
func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, userHandler *handler.UserHandler, userRepo repository.UserRepository, tokens *token.Issuer, ipLimiter *ratelimit.Limiter, trustedProxies []string) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	api := r.Group("/api/v1")

	// Public, throttled per client IP
	auth := api.Group("/auth", middleware.RateLimit(ipLimiter))
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/token", authHandler.Token)

	users := api.Group("/users", middleware.Auth(tokens), middleware.EnsureUser(userRepo, logger))
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)

	return r, nil
}
