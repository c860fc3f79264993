package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bookfinder/internal/catalog"
	"bookfinder/internal/history"
	"bookfinder/internal/httpx"
	"bookfinder/internal/metrics"
)

const maxRequestBytes = 1 << 20

type dependencies struct {
	cfg       Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
	upstream  catalog.Upstream
	history   history.Repository
	rateLimit *httpx.RateLimitMiddleware
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	httpx.JSONOK(w, map[string]string{"message": "BookFinder API is running!"})
}

func readyHandler(repo history.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := repo.Ping(ctx); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, httpx.CodeInternal, "Database not ready", nil)
			return
		}
		httpx.JSONOK(w, map[string]string{"status": "ready"})
	}
}

// newRouter also returns the catalog service so shutdown can drain its
// background history writes.
func newRouter(d dependencies) (http.Handler, *catalog.Service) {
	svc := catalog.NewService(d.upstream, d.history, d.logger, d.metrics)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", healthHandler)
	mux.HandleFunc("GET /readyz", readyHandler(d.history))
	mux.Handle("GET /metrics", d.metrics.Handler())

	catalog.NewHTTPHandler(svc, d.logger).RegisterRoutes(mux)
	history.NewHTTPHandler(d.history, d.logger).RegisterRoutes(mux)

	mws := []httpx.Middleware{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.logger, d.metrics),
		httpx.RecoveryMiddleware(d.logger),
		httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS),
		httpx.CORSMiddleware(d.cfg.ClientOrigins),
		httpx.RequestSizeLimitMiddleware(maxRequestBytes),
	}
	if d.rateLimit != nil {
		mws = append(mws, d.rateLimit.Middleware)
	}
	return httpx.Chain(mux, mws...), svc
}
