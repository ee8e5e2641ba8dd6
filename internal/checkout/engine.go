// Package checkout converts a mutable cart into an immutable order with a
// pending payment, against live catalog data. All writes for one checkout
// commit together or not at all.
package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/cart"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
	"github.com/nikhilbhutani/storefront/internal/pricing"
)

type CustomerInfo struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	ShippingAddr string `json:"shipping_address,omitempty"`
}

func (ci CustomerInfo) validate() error {
	if !strings.Contains(ci.Email, "@") {
		return commerce.Validation("valid customer email required")
	}
	if ci.FullName == "" {
		return commerce.Validation("customer name required")
	}
	return nil
}

// TenantResolver resolves slugs to live tenant records. Checkout never uses
// the cached resolution path.
type TenantResolver interface {
	ResolveBySlug(ctx context.Context, slug string) (*models.Tenant, error)
}

// Store is the persistence surface of the engine. CreateOrder must be
// atomic: every line's conditional stock decrement plus the order, item and
// payment inserts commit together or roll back together.
type Store interface {
	UpsertGuestCustomer(ctx context.Context, tenantID uuid.UUID, info CustomerInfo) (*models.Customer, error)
	ActiveProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error)
	CreateOrder(ctx context.Context, o *models.Order, p *models.Payment) error
}

type Engine struct {
	tenants TenantResolver
	store   Store
	policy  pricing.Policy
}

func NewEngine(tenants TenantResolver, store Store, policy pricing.Policy) *Engine {
	return &Engine{tenants: tenants, store: store, policy: policy}
}

// Checkout validates the cart against live products, freezes snapshots,
// decrements stock and creates the order and its pending payment. The
// billed unit price is the live price at checkout time; the cart's stale
// snapshot is recorded alongside for reference. On any failure no order
// exists and no stock has moved.
func (e *Engine) Checkout(ctx context.Context, tenantSlug string, c *cart.Cart, info CustomerInfo) (*models.Order, *models.Payment, error) {
	t, err := e.tenants.ResolveBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, nil, err
	}
	if t.Status != models.TenantActive {
		return nil, nil, commerce.TenantSuspended(tenantSlug)
	}

	if c == nil || c.Empty() {
		return nil, nil, commerce.CartEmpty()
	}
	if err := info.validate(); err != nil {
		return nil, nil, err
	}

	customer, err := e.store.UpsertGuestCustomer(ctx, t.ID, info)
	if err != nil {
		return nil, nil, fmt.Errorf("upsert customer: %w", err)
	}

	items := make([]models.OrderItem, 0, len(c.Items))
	var subtotal float64
	for _, line := range c.Items {
		p, err := e.store.ActiveProduct(ctx, t.ID, line.ProductID)
		if err != nil {
			return nil, nil, err
		}

		lineTotal := p.Price * float64(line.Qty)
		subtotal += lineTotal
		items = append(items, models.OrderItem{
			ProductID:     p.ID,
			NameSnapshot:  p.Name,
			PriceSnapshot: p.Price,
			CartPrice:     line.PriceSnapshot,
			Qty:           line.Qty,
			LineTotal:     lineTotal,
		})
	}

	tax, shipping := e.policy.Quote(subtotal)
	total := subtotal + tax + shipping

	o := &models.Order{
		ID:            uuid.New(),
		TenantID:      t.ID,
		CustomerID:    customer.ID,
		OrderNumber:   newOrderNumber(),
		Status:        models.OrderPending,
		CustomerName:  info.FullName,
		CustomerEmail: info.Email,
		ShippingAddr:  info.ShippingAddr,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Shipping:      shipping,
		Total:         total,
		Currency:      c.Currency,
	}

	p := &models.Payment{
		ID:       uuid.New(),
		TenantID: t.ID,
		OrderID:  o.ID,
		Amount:   total,
		Currency: c.Currency,
		Status:   models.PaymentPending,
	}

	if err := e.store.CreateOrder(ctx, o, p); err != nil {
		return nil, nil, err
	}

	slog.Info("order created",
		"tenant", tenantSlug, "order_number", o.OrderNumber, "total", o.Total, "items", len(o.Items))
	return o, p, nil
}

// newOrderNumber generates a human-readable unique order number.
func newOrderNumber() string {
	var b [4]byte
	rand.Read(b[:])
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().UTC().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(b[:])))
}
