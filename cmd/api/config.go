package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bookfinder/internal/platform/openlibrary"
)

type Config struct {
	Addr          string
	ClientOrigins []string
	EnableHSTS    bool

	OpenLibrary openlibrary.Config

	RateLimitRPS   float64
	RateLimitBurst int

	DatabaseDSN string

	LogLevel  string
	LogFormat string
}

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func loadConfig() (Config, error) {
	var errs []error

	addr := getEnv("APP_ADDR", "")
	if addr == "" {
		addr = ":" + getEnv("PORT", "5000")
	}

	cfg := Config{
		Addr:          addr,
		ClientOrigins: strings.Split(getEnv("CLIENT_ORIGIN", "http://localhost:5173"), ","),
		EnableHSTS:    parseBool("ENABLE_HSTS", false, &errs),
		OpenLibrary: openlibrary.Config{
			BaseURL:    getEnv("OPENLIBRARY_BASE_URL", openlibrary.DefaultBaseURL),
			UserAgent:  getEnv("OPENLIBRARY_USER_AGENT", "BookFinder/1.0 (+https://github.com/bookfinder)"),
			Timeout:    parseDuration("OPENLIBRARY_TIMEOUT", 15*time.Second, &errs),
			RPS:        parseFloat("OPENLIBRARY_RPS", 10, &errs),
			Burst:      parseInt("OPENLIBRARY_BURST", openlibrary.DefaultBurst, &errs),
			MaxRetries: parseInt("OPENLIBRARY_MAX_RETRIES", 0, &errs),
			CacheSize:  parseInt("SEARCH_CACHE_SIZE", 0, &errs),
			CacheTTL:   parseDuration("SEARCH_CACHE_TTL", 5*time.Minute, &errs),
		},
		RateLimitRPS:   parseFloat("RATE_LIMIT_RPS", 20, &errs),
		RateLimitBurst: parseInt("RATE_LIMIT_BURST", 40, &errs),
		DatabaseDSN:    os.Getenv("DB_DSN"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" || c.Addr == ":" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.OpenLibrary.Timeout <= 0 {
		errs = append(errs, errors.New("OPENLIBRARY_TIMEOUT must be positive"))
	}
	if c.OpenLibrary.RPS < 0 {
		errs = append(errs, errors.New("OPENLIBRARY_RPS must not be negative"))
	}
	if c.OpenLibrary.Burst < 1 {
		errs = append(errs, errors.New("OPENLIBRARY_BURST must be positive"))
	}
	if c.OpenLibrary.MaxRetries < 0 {
		errs = append(errs, errors.New("OPENLIBRARY_MAX_RETRIES must not be negative"))
	}
	if c.OpenLibrary.CacheSize < 0 {
		errs = append(errs, errors.New("SEARCH_CACHE_SIZE must not be negative"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limit settings must not be negative"))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst == 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int, errs *[]error) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func parseFloat(key string, def float64, errs *[]error) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func parseBool(key string, def bool, errs *[]error) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func parseDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
