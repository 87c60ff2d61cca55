package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nathanyu/backtest-venue/internal/algo"
	"github.com/nathanyu/backtest-venue/internal/backtest"
	"github.com/nathanyu/backtest-venue/internal/config"
	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/feed"
	"github.com/nathanyu/backtest-venue/internal/handler"
	"github.com/nathanyu/backtest-venue/internal/journal"
	"github.com/nathanyu/backtest-venue/internal/middleware"
	"github.com/nathanyu/backtest-venue/internal/telemetry"
)

const serviceName = "backtest-venue"

func main() {
	cfg := config.Load()
	telemetry.InitLogger(serviceName)
	logger := telemetry.Logger

	logger.Info("starting backtest venue",
		slog.String("strategy", cfg.Strategy),
		slog.Int("depth", cfg.Depth),
	)

	// --- Tracing ---
	if cfg.Tracing.Enabled {
		shutdown, err := telemetry.InitTracer(context.Background(), serviceName, cfg.Tracing.Endpoint)
		if err != nil {
			logger.Error("failed to init tracer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Warn("tracer shutdown error", slog.String("error", err.Error()))
			}
		}()
	}

	// --- Core components ---
	logic, err := algo.ForName(cfg.Strategy)
	if err != nil {
		logger.Error("unknown strategy", slog.String("error", err.Error()))
		os.Exit(1)
	}

	opts := backtest.Options{
		Logic:  logic,
		Depth:  cfg.Depth,
		Logger: logger,
	}
	if cfg.JournalPath != "" {
		jnl, err := journal.NewJournal(cfg.JournalPath)
		if err != nil {
			logger.Error("failed to open journal", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer jnl.Close()
		opts.Journal = jnl
	}

	venue, err := backtest.NewVenue(opts)
	if err != nil {
		logger.Error("failed to build venue", slog.String("error", err.Error()))
		os.Exit(1)
	}
	runs := backtest.NewRegistry()

	// --- NATS feed ---
	//
	// Ticks arrive on the delivery goroutine; the venue's mutex keeps
	// dispatch single-threaded against the HTTP handlers.
	var feedClient *feed.Client
	if cfg.NATS.Enabled {
		feedClient, err = feed.NewClient(cfg.NATS.URL, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer feedClient.Close()

		_, err = feedClient.SubscribeTicks(cfg.NATS.TickSubject, func(tick domain.Tick) {
			before := len(venue.Executions(0))
			if err := venue.SendTick(tick); err != nil {
				logger.Error("failed to apply tick", slog.String("error", err.Error()))
				return
			}
			for _, exec := range venue.Executions(0)[before:] {
				if err := feedClient.PublishExecution(cfg.NATS.ExecSubject, exec); err != nil {
					logger.Warn("failed to publish execution", slog.String("error", err.Error()))
				}
			}
		})
		if err != nil {
			logger.Error("failed to subscribe to ticks", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("subscribed to tick feed", slog.String("subject", cfg.NATS.TickSubject))
	}

	// --- HTTP server ---
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.PrometheusMiddleware())
	r.Use(middleware.Tracing())

	h := handler.NewHandler(venue, runs)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	// --- Metrics server ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("metrics server listening", slog.String("port", cfg.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", slog.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("HTTP server shutdown error", slog.String("error", err.Error()))
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("backtest venue stopped")
}
