package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/config"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/logging"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/news"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/routes"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/server"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// News feed registry
	feeds, err := news.LoadFromFile(cfg.NewsFeedsPath)
	if err != nil {
		slog.Error("failed to load news feeds", "path", cfg.NewsFeedsPath, "error", err)
		os.Exit(1)
	}
	slog.Info("news feeds loaded", "feeds", len(feeds.Enabled()))

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout, cfg.LogLevel),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	srv := server.New(cfg, database.DB, server.Options{
		RateLimits: routes.DefaultRateLimits,
		Feeds:      feeds,
		Sentry:     cfg.SentryDSN != "",
		AccessLog:  true,
	})

	slog.Info("seeding feature flag defaults")
	if err := srv.Flags.SeedDefaults(); err != nil {
		slog.Error("feature flag seed failed", "error", err)
	}

	// Scheduled news ingestion
	ingestDone := make(chan struct{})
	if cfg.NewsIngestInterval > 0 {
		news.StartIngest(srv.Ingester, cfg.NewsIngestInterval, ingestDone)
		slog.Info("news ingestion scheduled", "interval", cfg.NewsIngestInterval.String())
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.App.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(ingestDone)
	close(cleanupDone)

	if err := srv.App.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(database.DB); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
