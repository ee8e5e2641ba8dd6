package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/storefront/internal/payment"
	"github.com/nikhilbhutani/storefront/internal/queue"
)

// ReconcileWorker flags payments stuck in PENDING past the cutoff. These
// usually mean a provider call timed out after the attempt was recorded;
// they are surfaced for manual reconciliation, never assumed successful.
type ReconcileWorker struct {
	payments *payment.PgStore
}

func NewReconcileWorker(payments *payment.PgStore) *ReconcileWorker {
	return &ReconcileWorker{payments: payments}
}

func (w *ReconcileWorker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.PaymentReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal reconcile payload: %w", err)
	}
	if payload.OlderThanHours <= 0 {
		payload.OlderThanHours = 24
	}

	cutoff := time.Now().Add(-time.Duration(payload.OlderThanHours) * time.Hour)
	stale, err := w.payments.StalePending(ctx, cutoff, 500)
	if err != nil {
		return fmt.Errorf("list stale payments: %w", err)
	}

	for _, p := range stale {
		slog.Warn("payment needs manual reconciliation",
			"payment_id", p.ID, "order_id", p.OrderID, "tenant_id", p.TenantID,
			"amount", p.Amount, "currency", p.Currency, "created_at", p.CreatedAt)
	}

	slog.Info("payment reconciliation pass complete", "stale_count", len(stale))
	return nil
}
