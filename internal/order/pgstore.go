package order

import (
	"context"
	"errors"
	"fmt"

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

const orderColumns = `id, tenant_id, customer_id, order_number, status, customer_name,
	customer_email, shipping_address, subtotal, tax, shipping, total, currency, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.TenantID, &o.CustomerID, &o.OrderNumber, &o.Status, &o.CustomerName,
		&o.CustomerEmail, &o.ShippingAddr, &o.Subtotal, &o.Tax, &o.Shipping, &o.Total, &o.Currency,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PgStore) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(s.db.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 AND tenant_id = $2",
		orderID, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, commerce.OrderNotFound(orderID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := s.items(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (s *PgStore) items(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, order_id, product_id, name_snapshot, price_snapshot, cart_price, qty, line_total
		 FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.NameSnapshot, &it.PriceSnapshot,
			&it.CartPrice, &it.Qty, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *PgStore) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.Order, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// Transition flips the status only while the row still holds from; zero
// rows means a concurrent writer got there first.
func (s *PgStore) Transition(ctx context.Context, tenantID, orderID uuid.UUID, from, to models.OrderStatus) (*models.Order, bool, error) {
	o, err := scanOrder(s.db.QueryRow(ctx,
		`UPDATE orders SET status = $1, updated_at = now()
		 WHERE id = $2 AND tenant_id = $3 AND status = $4
		 RETURNING `+orderColumns,
		to, orderID, tenantID, from))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("update order status: %w", err)
	}
	return o, true, nil
}
