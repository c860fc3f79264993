package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bookfinder/internal/history"
	"bookfinder/internal/httpx"
	"bookfinder/internal/metrics"
	"bookfinder/internal/platform/openlibrary"
)

const shutdownTimeout = 10 * time.Second

func main() {
	loadEnvFiles()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	client := openlibrary.NewClient(cfg.OpenLibrary,
		openlibrary.WithMetrics(m),
		openlibrary.WithLogger(logger),
	)

	repo := openHistory(ctx, cfg.DatabaseDSN, logger)
	if closer, ok := repo.(interface{ Close() }); ok {
		defer closer.Close()
	}

	var limiter *httpx.RateLimitMiddleware
	if cfg.RateLimitRPS > 0 {
		limiter = httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	handler, svc := newRouter(dependencies{
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		upstream:  client,
		history:   repo,
		rateLimit: limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.OpenLibrary.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.Addr),
			zap.String("openlibrary", client.BaseURL()),
			zap.Strings("cors_origins", cfg.ClientOrigins),
		)
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

	logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	svc.Wait()
	return <-errCh
}

// openHistory connects the search history store. The API keeps serving
// without it when DB_DSN is unset or the database is unreachable.
func openHistory(ctx context.Context, dsn string, logger *zap.Logger) history.Repository {
	if dsn == "" {
		logger.Info("DB_DSN not set, search history disabled")
		return history.NoopRepo{}
	}
	pool, err := history.Open(ctx, dsn, 2*time.Second)
	if err != nil {
		logger.Warn("search history unavailable", zap.Error(err))
		return history.NoopRepo{}
	}
	logger.Info("database connection OK", zap.String("dsn", history.RedactDSN(dsn)))
	return history.NewPostgresRepo(pool, 2*time.Second)
}
