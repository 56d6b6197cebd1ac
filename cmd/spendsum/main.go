package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	_ "github.com/spendsum/spendsum/internal/adapter/anthropic"
	_ "github.com/spendsum/spendsum/internal/adapter/mistral"
	_ "github.com/spendsum/spendsum/internal/adapter/openai"
	_ "github.com/spendsum/spendsum/internal/adapter/placeholder"
	_ "github.com/spendsum/spendsum/internal/adapter/replicate"
	_ "github.com/spendsum/spendsum/internal/adapter/together"

	sshttp "github.com/spendsum/spendsum/internal/adapter/http"
	ssotel "github.com/spendsum/spendsum/internal/adapter/otel"
	"github.com/spendsum/spendsum/internal/adapter/ristretto"
	"github.com/spendsum/spendsum/internal/config"
	"github.com/spendsum/spendsum/internal/logger"
	"github.com/spendsum/spendsum/internal/port/provider"
	"github.com/spendsum/spendsum/internal/pricing"
	"github.com/spendsum/spendsum/internal/resilience"
	"github.com/spendsum/spendsum/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"cache_ttl", cfg.Cache.TTL,
		"max_concurrent", cfg.Aggregator.MaxConcurrent,
	)

	ctx := context.Background()

	// --- Observability ---
	otelShutdown, err := ssotel.Setup(ctx, cfg.Logging.Service, cfg.Otel.Endpoint)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()

	metrics, err := ssotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Aggregation core ---
	catalog := pricing.NewCatalog()
	deps := provider.Deps{
		HTTPClient: &http.Client{
			Timeout:   cfg.HTTPClient.Timeout,
			Transport: ssotel.OutboundTransport(nil),
		},
		Catalog:  catalog,
		BaseURLs: cfg.Providers.BaseURLs,
	}

	opts := []service.AggregatorOption{
		service.WithConcurrency(cfg.Aggregator.MaxConcurrent),
		service.WithMetrics(metrics),
		service.WithBreakers(resilience.NewSet(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)),
	}

	if cfg.Cache.TTL > 0 {
		resultCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		defer resultCache.Close()
		opts = append(opts, service.WithCache(resultCache, cfg.Cache.TTL))
	}

	agg := service.NewAggregator(deps, opts...)
	slog.Info("providers registered", "providers", agg.Providers())

	// --- HTTP ---
	handlers := sshttp.NewHandlers(agg, catalog)

	r := chi.NewRouter()
	r.Use(sshttp.CORS(cfg.Server.CORSOrigin))
	r.Use(sshttp.RequestID)
	r.Use(sshttp.Logger)
	r.Use(sshttp.SecurityHeaders)
	r.Use(ssotel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	sshttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
