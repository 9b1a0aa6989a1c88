package main

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpmetrics "riskscreen/internal/platform/metrics"
	"riskscreen/internal/platform/middleware"
	"riskscreen/internal/platform/redis"
	"riskscreen/internal/screening/handler"
	"riskscreen/pkg/platform/httputil"
)

type routerDeps struct {
	service  handler.Service
	logger   *slog.Logger
	metrics  *httpmetrics.Metrics
	gatherer prometheus.Gatherer
	draining *atomic.Bool
	redis    *redis.Client
}

// newRouter wires every public endpoint behind the shared middleware chain.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))

	r.Get("/healthz", healthHandler(d.draining, d.redis))
	r.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))
	handler.New(d.service, d.logger, d.metrics).Register(r)
	return r
}

func healthHandler(draining *atomic.Bool, rc *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if draining.Load() {
			httputil.WriteError(w, httputil.NewError(http.StatusServiceUnavailable, httputil.CodeUnavailable, "shutting down", nil))
			return
		}
		if rc != nil {
			if err := rc.Health(r.Context()); err != nil {
				httputil.WriteError(w, httputil.NewError(http.StatusServiceUnavailable, httputil.CodeUnavailable, "redis unavailable", err))
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
