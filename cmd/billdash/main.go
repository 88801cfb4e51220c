package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"billdash/internal/cli"
	apphttp "billdash/internal/http"
	"billdash/internal/log"
	"billdash/internal/metrics"
	"billdash/internal/services"
	"billdash/internal/telemetry"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, "billdash", cfg.TraceEndpoint)
	if err != nil {
		logger.Error("Failed to initialize tracing", log.FieldError, err)
		os.Exit(1)
	}

	res := cli.OpenBackend(ctx, logger, cfg)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	readModel := services.NewReadModel(res.Backend, logger, services.Options{
		PageSize:       cfg.ItemsPerPage,
		LatestInvoices: cfg.LatestInvoicesLimit,
		MaxQueryLength: cfg.MaxQueryLength,
		QueryTimeout:   cfg.QueryTimeout,
		Metrics:        m,
	})

	srv, err := apphttp.NewServer(":"+cfg.Port, readModel, apphttp.Options{
		Logger:             logger,
		Metrics:            m,
		Pinger:             res.Backend,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	})
	if err != nil {
		logger.Error("Failed to configure HTTP server", log.FieldError, err)
		os.Exit(1)
	}

	done := cli.GracefulShutdown(ctx, logger, 30*time.Second, func(ctx context.Context) error {
		return errors.Join(
			srv.Shutdown(ctx),
			shutdownTracing(ctx),
		)
	})

	logger.Info("Starting billdash server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		"page_size", cfg.ItemsPerPage,
		"metrics", cfg.MetricsEnabled)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		if res.Cleanup != nil {
			_ = res.Cleanup()
		}
		os.Exit(1)
	}

	<-done
	if res.Cleanup != nil {
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	}
	logger.Info("Server stopped gracefully")
}
