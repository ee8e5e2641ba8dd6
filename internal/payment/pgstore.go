package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Order(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, customer_id, order_number, status, customer_name, customer_email,
			shipping_address, subtotal, tax, shipping, total, currency, created_at, updated_at
		 FROM orders WHERE id = $1 AND tenant_id = $2`,
		orderID, tenantID,
	).Scan(&o.ID, &o.TenantID, &o.CustomerID, &o.OrderNumber, &o.Status, &o.CustomerName, &o.CustomerEmail,
		&o.ShippingAddr, &o.Subtotal, &o.Tax, &o.Shipping, &o.Total, &o.Currency, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, commerce.OrderNotFound(orderID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// PendingAttempt returns the oldest open attempt for the order, nil when
// every attempt has settled. Checkout seeds one PENDING row per order, so
// at most one is ever open.
func (s *PgStore) PendingAttempt(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, order_id, provider, amount, currency, status, created_at
		 FROM payments WHERE order_id = $1 AND tenant_id = $2 AND status = 'PENDING'
		 ORDER BY created_at LIMIT 1`,
		orderID, tenantID,
	).Scan(&p.ID, &p.TenantID, &p.OrderID, &p.Provider, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending payment: %w", err)
	}
	return &p, nil
}

func (s *PgStore) CreateAttempt(ctx context.Context, p *models.Payment) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO payments (id, tenant_id, order_id, provider, amount, currency, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		p.ID, p.TenantID, p.OrderID, p.Provider, p.Amount, p.Currency, p.Status,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment attempt: %w", err)
	}
	return nil
}

// Complete marks the attempt COMPLETED and confirms the order in one
// transaction. The order update is conditioned on PENDING and a partial
// unique index on (order_id) WHERE status = 'COMPLETED' backs the
// one-completed-payment invariant at the schema level.
func (s *PgStore) Complete(ctx context.Context, paymentID, orderID uuid.UUID, transactionID string, processedAt time.Time) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE payments SET status = 'COMPLETED', transaction_id = $1, processed_at = $2
		 WHERE id = $3 AND status = 'PENDING'`,
		transactionID, processedAt, paymentID)
	if err != nil {
		return fmt.Errorf("complete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return commerce.Validation("payment attempt already settled")
	}

	tag, err = tx.Exec(ctx,
		`UPDATE orders SET status = 'CONFIRMED', updated_at = now()
		 WHERE id = $1 AND status = 'PENDING'`,
		orderID)
	if err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return commerce.Validation("order already settled")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit payment: %w", err)
	}
	return nil
}

func (s *PgStore) Fail(ctx context.Context, paymentID uuid.UUID, reason string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE payments SET status = 'FAILED', failure_reason = $1
		 WHERE id = $2 AND status = 'PENDING'`,
		reason, paymentID)
	if err != nil {
		return fmt.Errorf("fail payment: %w", err)
	}
	return nil
}

// StalePending lists payments stuck PENDING past the cutoff, for manual
// reconciliation by the worker.
func (s *PgStore) StalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.Payment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, order_id, provider, amount, currency, status, created_at
		 FROM payments WHERE status = 'PENDING' AND created_at < $1
		 ORDER BY created_at LIMIT $2`,
		olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.TenantID, &p.OrderID, &p.Provider, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}
