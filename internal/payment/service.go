package payment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

// amountTolerance is the maximum accepted drift between the order total
// and a payment amount, in currency units.
const amountTolerance = 0.01

// Store is the persistence surface for payment attempts. PendingAttempt
// returns the order's open attempt, or nil once every attempt has settled.
// Complete must atomically mark the payment COMPLETED and advance the order
// to CONFIRMED, enforcing at most one completed payment per order.
type Store interface {
	Order(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	PendingAttempt(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Payment, error)
	CreateAttempt(ctx context.Context, p *models.Payment) error
	Complete(ctx context.Context, paymentID, orderID uuid.UUID, transactionID string, processedAt time.Time) error
	Fail(ctx context.Context, paymentID uuid.UUID, reason string) error
}

type Service struct {
	store    Store
	provider Provider
}

func NewService(store Store, provider Provider) *Service {
	return &Service{store: store, provider: provider}
}

type ProcessRequest struct {
	OrderID  uuid.UUID
	Amount   float64
	Currency string
}

// Process runs one payment attempt for an order. The amount is verified
// against the order total before the provider is contacted; a mismatch
// never reaches the provider. A provider failure records a FAILED attempt
// and leaves the order PENDING so the customer can retry with a fresh
// attempt.
func (s *Service) Process(ctx context.Context, tenantID uuid.UUID, req ProcessRequest) (*models.Payment, error) {
	o, err := s.store.Order(ctx, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}

	if o.Status != models.OrderPending {
		return nil, commerce.Validation("order %s is not awaiting payment", o.OrderNumber)
	}
	if req.Currency != "" && req.Currency != o.Currency {
		return nil, commerce.Validation("currency %s does not match order currency %s", req.Currency, o.Currency)
	}
	if math.Abs(o.Total-req.Amount) > amountTolerance {
		return nil, commerce.AmountMismatch(o.Total, req.Amount)
	}

	// Checkout opens every order with a PENDING payment; the first attempt
	// settles that row rather than stranding it for the reconcile worker.
	// Once an attempt has FAILED the retry gets a fresh row.
	attempt, err := s.store.PendingAttempt(ctx, tenantID, o.ID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		attempt = &models.Payment{
			ID:       uuid.New(),
			TenantID: tenantID,
			OrderID:  o.ID,
			Provider: s.provider.Name(),
			Amount:   req.Amount,
			Currency: o.Currency,
			Status:   models.PaymentPending,
		}
		if err := s.store.CreateAttempt(ctx, attempt); err != nil {
			return nil, fmt.Errorf("create payment attempt: %w", err)
		}
	}

	res, err := s.provider.Process(ctx, Intent{
		PaymentID: attempt.ID,
		OrderID:   o.ID,
		Amount:    req.Amount,
		Currency:  o.Currency,
	})
	if err != nil || !res.Success {
		reason := res.Error
		if err != nil {
			reason = err.Error()
		}
		if failErr := s.store.Fail(ctx, attempt.ID, reason); failErr != nil {
			slog.Error("failed to record payment failure", "payment_id", attempt.ID, "error", failErr)
		}
		attempt.Status = models.PaymentFailed
		attempt.FailureReason = reason
		return attempt, commerce.ProviderFailure(s.provider.Name(), fmt.Errorf("%s", reason))
	}

	now := time.Now()
	if err := s.store.Complete(ctx, attempt.ID, o.ID, res.TransactionID, now); err != nil {
		return nil, err
	}

	attempt.Status = models.PaymentCompleted
	attempt.TransactionID = res.TransactionID
	attempt.ProcessedAt = &now

	slog.Info("payment completed",
		"order_number", o.OrderNumber, "amount", req.Amount, "transaction_id", res.TransactionID)
	return attempt, nil
}
