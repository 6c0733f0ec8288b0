package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/lawconnect/internal/auth"
	"github.com/hugh/lawconnect/internal/database"
	"github.com/hugh/lawconnect/internal/notify"
	"github.com/hugh/lawconnect/internal/tasks"
	"github.com/hugh/lawconnect/pkg/config"
	"github.com/hugh/lawconnect/pkg/queue"
	"github.com/hugh/lawconnect/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting LawConnect worker")

	if err := util.ValidateCronExpr(cfg.Reset.SweepCron); err != nil {
		logger.Error("invalid RESET_SWEEP_CRON", "cron", cfg.Reset.SweepCron, "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(&cfg.Database, cfg.Server.Env, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ledger := auth.NewLedger(db, cfg.Reset.TTL(), cfg.Reset.ClientURL)
	handler := tasks.NewHandler(ledger, notify.New(cfg.Reset.WebhookURL, logger), logger)

	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	srv := queue.NewServer(&cfg.Redis, 10)
	if err := srv.Start(mux); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	scheduler := queue.NewScheduler(&cfg.Redis)
	entryID, err := scheduler.Register(cfg.Reset.SweepCron, tasks.NewResetSweepTask())
	if err != nil {
		logger.Error("failed to schedule reset sweep", "error", err)
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	nextSweep, _ := util.NextCronTime(cfg.Reset.SweepCron, time.Now())
	logger.Info("worker started, waiting for tasks...",
		"sweep_cron", cfg.Reset.SweepCron,
		"sweep_entry", entryID,
		"next_sweep", nextSweep,
		"notifier", notifierKind(cfg.Reset.WebhookURL),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker...")
	scheduler.Shutdown()
	srv.Shutdown()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("worker stopped")
}

func notifierKind(webhookURL string) string {
	if webhookURL != "" {
		return "webhook"
	}
	return "log"
}
