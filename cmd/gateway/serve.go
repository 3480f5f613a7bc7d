package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bl1nk-platform/edge-gateway/internal/config"
	"github.com/bl1nk-platform/edge-gateway/internal/forwarder"
	"github.com/bl1nk-platform/edge-gateway/internal/handlers"
	"github.com/bl1nk-platform/edge-gateway/internal/logging"
	"github.com/bl1nk-platform/edge-gateway/internal/maintenance"
	"github.com/bl1nk-platform/edge-gateway/internal/middleware"
	"github.com/bl1nk-platform/edge-gateway/internal/proxy"
	"github.com/bl1nk-platform/edge-gateway/internal/ratelimit"
	"github.com/bl1nk-platform/edge-gateway/internal/server"
	"github.com/bl1nk-platform/edge-gateway/internal/sources"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("edge-gateway"))
	logging.SetDefault(logger)

	slog.Info("Starting edge gateway",
		slog.Int("port", cfg.Server.Port),
		slog.String("downstream", cfg.Downstream.BaseURL),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Rate-limit store: Redis when enabled, in-memory otherwise. The memory
	// store is per-instance; multi-instance deployments need Redis for a
	// shared view.
	var (
		store       ratelimit.Store
		memoryStore *ratelimit.MemoryStore
		limiter     ratelimit.Limiter
	)
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Enabled {
			redisStore, err := ratelimit.NewRedisStore(cfg.Redis.URL)
			if err != nil {
				return fmt.Errorf("failed to initialize redis rate-limit store: %w", err)
			}
			store = redisStore
			slog.Info("Rate limiting enabled",
				slog.String("store", "redis"),
				slog.Int("max_requests", cfg.RateLimit.MaxRequests),
				slog.Duration("window", cfg.RateLimit.Window),
			)
		} else {
			memoryStore = ratelimit.NewMemoryStore()
			store = memoryStore
			slog.Info("Rate limiting enabled",
				slog.String("store", "memory"),
				slog.Int("max_requests", cfg.RateLimit.MaxRequests),
				slog.Duration("window", cfg.RateLimit.Window),
			)
		}
		limiter = ratelimit.NewFixedWindowLimiter(store, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	} else {
		limiter = &ratelimit.NoOpLimiter{}
		slog.Info("Rate limiting disabled in configuration")
	}
	defer limiter.Close()

	registry := sources.Default(&cfg.Webhook)
	slog.Info("Webhook sources registered", slog.Any("sources", registry.Names()))

	fwd := forwarder.New(cfg.Downstream.BaseURL, cfg.Downstream.Timeout)
	passthrough := proxy.New(fwd, cfg.Webhook.MaxPayloadSize)

	webhookHandler := handlers.NewWebhookHandler(registry, limiter, fwd, cfg.Webhook.MaxPayloadSize, logger)
	healthHandler := handlers.NewHealthHandler(fwd, store)

	router := server.NewRouter(server.RouterConfig{
		WebhookHandler: webhookHandler,
		HealthHandler:  healthHandler,
		Proxy:          passthrough,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			MaxAge:         cfg.CORS.MaxAge,
		},
	})

	if cfg.Maintenance.Enabled {
		runner := maintenance.New(cfg.Maintenance.Interval, memoryStore, fwd, logger.Logger)
		runner.Start()
		defer runner.Stop()
		slog.Info("Maintenance loop started", slog.Duration("interval", cfg.Maintenance.Interval))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Gateway listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
