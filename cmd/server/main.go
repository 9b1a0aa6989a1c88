package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"riskscreen/internal/app"
	"riskscreen/internal/platform/config"
	"riskscreen/internal/platform/httpserver"
	"riskscreen/internal/platform/logger"
	httpmetrics "riskscreen/internal/platform/metrics"
	"riskscreen/internal/platform/redis"
	"riskscreen/internal/screening/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("shared entity cache enabled", "redis", true)
	}

	m := metrics.New()
	svc, err := app.BuildService(cfg, redisClient, m, log)
	if err != nil {
		return err
	}

	var draining atomic.Bool
	r := newRouter(routerDeps{
		service:  svc,
		logger:   log,
		metrics:  httpmetrics.New(),
		gatherer: prometheus.DefaultGatherer,
		draining: &draining,
		redis:    redisClient,
	})

	// Batches can wait a full synthesis timeout on top of evidence gathering.
	srv := httpserver.New(cfg.Server.Addr, r, cfg.Pipeline.ComputeTimeout+cfg.Pipeline.SynthesisTimeout+30*time.Second)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting riskscreen", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	draining.Store(true)
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.SynthesisTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
