package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment records one attempt to settle an order. An order may accumulate
// several failed attempts; at most one payment per order is COMPLETED.
type Payment struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	TenantID      uuid.UUID     `json:"tenant_id" db:"tenant_id"`
	OrderID       uuid.UUID     `json:"order_id" db:"order_id"`
	Provider      string        `json:"provider" db:"provider"`
	Amount        float64       `json:"amount" db:"amount"`
	Currency      string        `json:"currency" db:"currency"`
	Status        PaymentStatus `json:"status" db:"status"`
	TransactionID string        `json:"transaction_id,omitempty" db:"transaction_id"`
	FailureReason string        `json:"failure_reason,omitempty" db:"failure_reason"`
	ProcessedAt   *time.Time    `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}
