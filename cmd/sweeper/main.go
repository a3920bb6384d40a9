// sweeper purges expired confirmation codes from Postgres on a cron
// schedule. Run one instance alongside API replicas started with
// CODE_SWEEP_IN_PROCESS=false.
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
	"github.com/ErlanBelekov/yamdb-auth/internal/health"
	"github.com/ErlanBelekov/yamdb-auth/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/yamdb-auth/internal/log"
	"github.com/ErlanBelekov/yamdb-auth/internal/metrics"
	"github.com/ErlanBelekov/yamdb-auth/internal/sweeper"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel())

	if cfg.CodeStore != "postgres" {
		log.Fatalf("sweeper only serves CODE_STORE=postgres, got %q", cfg.CodeStore)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL,
		postgres.WithApplicationName("yamdb-sweeper"),
		postgres.WithMaxConns(2),
	)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(map[string]health.Pinger{"postgres": pool}, logger, prometheus.DefaultRegisterer)

	sw, err := sweeper.New(postgres.NewCodeStore(pool), cfg.CodeSweepSchedule, logger)
	if err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}
	go sw.Start(ctx)

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("sweeper shut down")
}
