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

	"github.com/joho/godotenv"

	"market-ads/internal/adapter/catalog"
	httpadapter "market-ads/internal/adapter/http"
	"market-ads/internal/adapter/media"
	"market-ads/internal/adapter/notifier"
	"market-ads/internal/adapter/payment"
	"market-ads/internal/adapter/postgres"
	"market-ads/internal/adapter/usecase"
	"market-ads/internal/config"
	"market-ads/internal/core/pricing"
	"market-ads/internal/db"
)

// main is the entry point of the market-ads service. It loads configuration,
// optionally runs database migrations, initializes the database pool,
// repositories and the campaign engine, starts the lifecycle scheduler and
// the HTTP server. On receiving a termination signal it gracefully shuts
// everything down.
func main() {
	// Load a local .env if present; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied successfully")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewCampaignRepository(pool)
	pricer := pricing.New(pricing.Default())
	directory := catalog.NewDirectory(cfg.Services.CatalogURL)
	mediaStore := media.NewStore(cfg.Services.MediaURL)
	notify := notifier.NewSlog(logger)
	payments := payment.NewGateway(cfg.Services.PaymentURL)

	svc := usecase.NewCampaignUseCase(repo, pricer, directory, mediaStore, notify, logger)

	if cfg.Scheduler.Enabled {
		sched := usecase.NewScheduler(repo, pricer, payments, notify, logger,
			cfg.Scheduler.Interval, cfg.Scheduler.WarningWindow)
		stop := sched.Start(ctx)
		defer stop()
		logger.Info("lifecycle scheduler started",
			slog.Duration("interval", cfg.Scheduler.Interval))
	}

	handler := httpadapter.NewHandler(svc, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
