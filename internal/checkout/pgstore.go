package checkout

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

// UpsertGuestCustomer finds or creates the tenant's customer record for the
// email. The upsert is a single statement so concurrent checkouts from the
// same email cannot race a read-then-create.
func (s *PgStore) UpsertGuestCustomer(ctx context.Context, tenantID uuid.UUID, info CustomerInfo) (*models.Customer, error) {
	var c models.Customer
	err := s.db.QueryRow(ctx,
		`INSERT INTO customers (tenant_id, email, full_name, guest)
		 VALUES ($1, $2, $3, true)
		 ON CONFLICT (tenant_id, email)
		 DO UPDATE SET full_name = EXCLUDED.full_name
		 RETURNING id, tenant_id, email, full_name, guest, created_at`,
		tenantID, info.Email, info.FullName,
	).Scan(&c.ID, &c.TenantID, &c.Email, &c.FullName, &c.Guest, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}
	return &c, nil
}

// ActiveProduct reads the live product row. Draft and inactive products are
// not purchasable and report the same error as a missing product.
func (s *PgStore) ActiveProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, description, price, stock, status, created_at, updated_at
		 FROM products WHERE id = $1 AND tenant_id = $2 AND status = 'active'`,
		productID, tenantID,
	).Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, commerce.ProductNotFound(productID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// CreateOrder commits the whole checkout in one transaction. Each line's
// stock decrement is a conditional UPDATE checked against current stock at
// write time; a miss on any line aborts the transaction, so no partial
// decrement ever survives and two concurrent checkouts cannot oversell.
func (s *PgStore) CreateOrder(ctx context.Context, o *models.Order, p *models.Payment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range o.Items {
		tag, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = now()
			 WHERE id = $2 AND tenant_id = $3 AND stock >= $1`,
			item.Qty, item.ProductID, o.TenantID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return commerce.InsufficientStock(item.ProductID.String(), item.Qty)
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, tenant_id, customer_id, order_number, status, customer_name,
			customer_email, shipping_address, subtotal, tax, shipping, total, currency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING created_at, updated_at`,
		o.ID, o.TenantID, o.CustomerID, o.OrderNumber, o.Status, o.CustomerName,
		o.CustomerEmail, o.ShippingAddr, o.Subtotal, o.Tax, o.Shipping, o.Total, o.Currency,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, name_snapshot, price_snapshot, cart_price, qty, line_total)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			item.OrderID, item.ProductID, item.NameSnapshot, item.PriceSnapshot, item.CartPrice, item.Qty, item.LineTotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO payments (id, tenant_id, order_id, provider, amount, currency, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		p.ID, p.TenantID, p.OrderID, p.Provider, p.Amount, p.Currency, p.Status,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit checkout: %w", err)
	}
	return nil
}
