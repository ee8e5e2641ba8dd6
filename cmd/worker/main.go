package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/storefront/internal/config"
	"github.com/nikhilbhutani/storefront/internal/database"
	"github.com/nikhilbhutani/storefront/internal/payment"
	"github.com/nikhilbhutani/storefront/internal/queue"
	"github.com/nikhilbhutani/storefront/internal/queue/workers"
	"github.com/nikhilbhutani/storefront/internal/webhook"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	// Register workers
	webhookWorker := workers.NewWebhookWorker(webhook.NewDispatcher(db))
	reconcileWorker := workers.NewReconcileWorker(payment.NewPgStore(db))

	registry.Register(queue.TypeWebhookDeliver, asynq.HandlerFunc(webhookWorker.ProcessTask))
	registry.Register(queue.TypePaymentReconcile, asynq.HandlerFunc(reconcileWorker.ProcessTask))

	// Kick a reconciliation pass every hour.
	client := queue.NewClient(cfg.Redis)
	defer client.Close()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := client.EnqueuePaymentReconcile(queue.PaymentReconcilePayload{
				OlderThanHours: cfg.Payment.ReconcileAfterHours,
			}); err != nil {
				slog.Error("failed to enqueue reconcile", "error", err)
			}
		}
	}()

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
