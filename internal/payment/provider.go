// Package payment settles order totals through provider-agnostic adapters.
package payment

import (
	"context"

	"github.com/google/uuid"
)

type Intent struct {
	PaymentID uuid.UUID
	OrderID   uuid.UUID
	Amount    float64
	Currency  string
}

type Result struct {
	Success       bool
	TransactionID string
	Error         string
}

// Provider is the adapter boundary. Implementations are blocking I/O; the
// caller applies a request-level timeout and treats a timeout as a failed
// attempt, never as success.
type Provider interface {
	Name() string
	Process(ctx context.Context, intent Intent) (Result, error)
}
