package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/config"
	"github.com/ErlanBelekov/yamdb-auth/internal/confirmcode"
	"github.com/ErlanBelekov/yamdb-auth/internal/email"
	"github.com/ErlanBelekov/yamdb-auth/internal/health"
	"github.com/ErlanBelekov/yamdb-auth/internal/infrastructure/memory"
	"github.com/ErlanBelekov/yamdb-auth/internal/infrastructure/postgres"
	redisstore "github.com/ErlanBelekov/yamdb-auth/internal/infrastructure/redis"
	ctxlog "github.com/ErlanBelekov/yamdb-auth/internal/log"
	"github.com/ErlanBelekov/yamdb-auth/internal/metrics"
	"github.com/ErlanBelekov/yamdb-auth/internal/ratelimit"
	"github.com/ErlanBelekov/yamdb-auth/internal/repository"
	"github.com/ErlanBelekov/yamdb-auth/internal/sweeper"
	"github.com/ErlanBelekov/yamdb-auth/internal/token"
	httptransport "github.com/ErlanBelekov/yamdb-auth/internal/transport/http"
	"github.com/ErlanBelekov/yamdb-auth/internal/transport/http/handler"
	"github.com/ErlanBelekov/yamdb-auth/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.WithApplicationName("yamdb-auth"))
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	deps := map[string]health.Pinger{"postgres": pool}

	// Confirmation code store
	var (
		codes  repository.CodeStore
		purger sweeper.Purger
	)
	switch cfg.CodeStore {
	case "redis":
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		store := redisstore.NewCodeStore(client)
		codes = store
		deps["redis"] = store
	case "postgres":
		store := postgres.NewCodeStore(pool)
		codes, purger = store, store
	default:
		store := memory.NewCodeStore()
		codes, purger = store, store
	}
	logger.Info("code store ready", "kind", cfg.CodeStore)

	if purger != nil && cfg.CodeSweepInProcess {
		sw, err := sweeper.New(purger, cfg.CodeSweepSchedule, logger)
		if err != nil {
			stop()
			log.Fatalf("sweeper: %v", err)
		}
		go sw.Start(ctx)
	}

	sender, err := email.NewSender(cfg.EmailProvider, cfg.EmailFrom, cfg.ResendAPIKey, email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		TLS:      cfg.SMTPTLS,
	}, logger)
	if err != nil {
		stop()
		log.Fatalf("email: %v", err)
	}

	// Users
	userRepo := postgres.NewUserRepository(pool)
	userUsecase := usecase.NewUserUsecase(userRepo)
	userHandler := handler.NewUserHandler(userUsecase, logger)

	// Auth
	tokens := token.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL())
	authOpts := []usecase.AuthOption{
		usecase.WithCodeTTL(cfg.CodeTTL()),
		usecase.WithCodeGenerator(confirmcode.NewGenerator(cfg.CodeLength)),
		usecase.WithLogger(logger),
	}
	if interval := cfg.CodeReissueInterval(); interval > 0 {
		reissue := ratelimit.NewMinInterval(interval)
		go reissue.Run(ctx, time.Minute)
		authOpts = append(authOpts, usecase.WithIssueLimiter(reissue))
	}
	verifyLimiter := ratelimit.New(rate.Every(cfg.CodeVerifyInterval()), cfg.CodeVerifyBurst, cfg.CodeTTL()+cfg.CodeVerifyInterval())
	go verifyLimiter.Run(ctx, time.Minute)
	authOpts = append(authOpts, usecase.WithVerifyLimiter(verifyLimiter))
	authUsecase := usecase.NewAuthUsecase(userRepo, codes, sender, tokens, authOpts...)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	ipLimiter := ratelimit.New(rate.Limit(cfg.AuthRateLimitRPS), cfg.AuthRateLimitBurst, 10*time.Minute)
	go ipLimiter.Run(ctx, time.Minute)

	metrics.Register()
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	router, err := httptransport.NewRouter(logger, authHandler, userHandler, userRepo, tokens, ipLimiter, cfg.TrustedProxies)
	if err != nil {
		stop()
		log.Fatalf("router: %v", err)
	}

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
