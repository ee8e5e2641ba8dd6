package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/storefront/internal/cart"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
	"github.com/nikhilbhutani/storefront/internal/pricing"
)

type fakeResolver struct {
	tenant *models.Tenant
	err    error
}

func (f *fakeResolver) ResolveBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	return f.tenant, f.err
}

// fakeStore keeps products in memory and mimics the all-or-nothing stock
// decrement of the real transaction.
type fakeStore struct {
	products map[uuid.UUID]*models.Product
	orders   []*models.Order
	payments []*models.Payment
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[uuid.UUID]*models.Product)}
}

func (f *fakeStore) addProduct(name string, price float64, stock int) uuid.UUID {
	id := uuid.New()
	f.products[id] = &models.Product{ID: id, Name: name, Price: price, Stock: stock, Status: models.ProductActive}
	return id
}

func (f *fakeStore) UpsertGuestCustomer(ctx context.Context, tenantID uuid.UUID, info CustomerInfo) (*models.Customer, error) {
	return &models.Customer{ID: uuid.New(), TenantID: tenantID, Email: info.Email, Guest: true}, nil
}

func (f *fakeStore) ActiveProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	p, ok := f.products[productID]
	if !ok || p.Status != models.ProductActive {
		return nil, commerce.ProductNotFound(productID.String())
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, o *models.Order, p *models.Payment) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, item := range o.Items {
		if f.products[item.ProductID].Stock < item.Qty {
			return commerce.InsufficientStock(item.ProductID.String(), item.Qty)
		}
	}
	for _, item := range o.Items {
		f.products[item.ProductID].Stock -= item.Qty
	}
	f.orders = append(f.orders, o)
	f.payments = append(f.payments, p)
	return nil
}

func activeTenant(slug string) *fakeResolver {
	return &fakeResolver{tenant: &models.Tenant{ID: uuid.New(), Slug: slug, Status: models.TenantActive}}
}

func validInfo() CustomerInfo {
	return CustomerInfo{Email: "jo@mail.io", FullName: "Jo Smith"}
}

func TestCheckout_Succeeds(t *testing.T) {
	store := newFakeStore()
	mug := store.addProduct("Mug", 12.50, 10)
	engine := NewEngine(activeTenant("acme"), store, pricing.ZeroPolicy{})

	c := cart.New("acme", "USD")
	c.Add(mug, "Mug", 12.50, 2)

	o, p, err := engine.Checkout(context.Background(), "acme", c, validInfo())
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, o.Status)
	assert.InDelta(t, 25.00, o.Total, 0.001)
	assert.Equal(t, models.PaymentPending, p.Status)
	assert.InDelta(t, o.Total, p.Amount, 0.001)
	assert.Equal(t, 8, store.products[mug].Stock)
	assert.Contains(t, o.OrderNumber, "ORD-")
}

func TestCheckout_BillsLivePriceNotCartSnapshot(t *testing.T) {
	store := newFakeStore()
	mug := store.addProduct("Mug", 15.00, 10)
	engine := NewEngine(activeTenant("acme"), store, pricing.ZeroPolicy{})

	// The cart was filled before a price change and still holds 12.50.
	c := cart.New("acme", "USD")
	c.Add(mug, "Mug", 12.50, 1)

	o, _, err := engine.Checkout(context.Background(), "acme", c, validInfo())
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, 15.00, o.Items[0].PriceSnapshot, "billed at the live price")
	assert.Equal(t, 12.50, o.Items[0].CartPrice, "stale snapshot recorded for reference")
	assert.InDelta(t, 15.00, o.Total, 0.001)
}

func TestCheckout_EmptyCart(t *testing.T) {
	engine := NewEngine(activeTenant("acme"), newFakeStore(), pricing.ZeroPolicy{})

	_, _, err := engine.Checkout(context.Background(), "acme", cart.New("acme", "USD"), validInfo())
	assert.Equal(t, commerce.CodeCartEmpty, commerce.CodeOf(err))

	_, _, err = engine.Checkout(context.Background(), "acme", nil, validInfo())
	assert.Equal(t, commerce.CodeCartEmpty, commerce.CodeOf(err))
}

func TestCheckout_SuspendedTenant(t *testing.T) {
	resolver := &fakeResolver{tenant: &models.Tenant{ID: uuid.New(), Slug: "acme", Status: models.TenantSuspended}}
	store := newFakeStore()
	mug := store.addProduct("Mug", 12.50, 10)
	engine := NewEngine(resolver, store, pricing.ZeroPolicy{})

	c := cart.New("acme", "USD")
	c.Add(mug, "Mug", 12.50, 1)

	_, _, err := engine.Checkout(context.Background(), "acme", c, validInfo())
	assert.Equal(t, commerce.CodeTenantSuspended, commerce.CodeOf(err))
}

func TestCheckout_InvalidCustomerInfo(t *testing.T) {
	store := newFakeStore()
	mug := store.addProduct("Mug", 12.50, 10)
	engine := NewEngine(activeTenant("acme"), store, pricing.ZeroPolicy{})

	c := cart.New("acme", "USD")
	c.Add(mug, "Mug", 12.50, 1)

	_, _, err := engine.Checkout(context.Background(), "acme", c, CustomerInfo{Email: "not-an-email", FullName: "Jo"})
	assert.Equal(t, commerce.CodeValidation, commerce.CodeOf(err))

	_, _, err = engine.Checkout(context.Background(), "acme", c, CustomerInfo{Email: "jo@mail.io"})
	assert.Equal(t, commerce.CodeValidation, commerce.CodeOf(err))
}

func TestCheckout_InsufficientStockLeavesNothingBehind(t *testing.T) {
	store := newFakeStore()
	mug := store.addProduct("Mug", 12.50, 10)
	shirt := store.addProduct("Shirt", 30.00, 1)
	engine := NewEngine(activeTenant("acme"), store, pricing.ZeroPolicy{})

	c := cart.New("acme", "USD")
	c.Add(mug, "Mug", 12.50, 2)
	c.Add(shirt, "Shirt", 30.00, 5)

	_, _, err := engine.Checkout(context.Background(), "acme", c, validInfo())
	assert.Equal(t, commerce.CodeInsufficientStock, commerce.CodeOf(err))

	assert.Equal(t, 10, store.products[mug].Stock, "no partial decrement")
	assert.Equal(t, 1, store.products[shirt].Stock)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.payments)
}

func TestCheckout_InactiveProduct(t *testing.T) {
	store := newFakeStore()
	mug := store.addProduct("Mug", 12.50, 10)
	store.products[mug].Status = models.ProductInactive
	engine := NewEngine(activeTenant("acme"), store, pricing.ZeroPolicy{})

	c := cart.New("acme", "USD")
	c.Add(mug, "Mug", 12.50, 1)

	_, _, err := engine.Checkout(context.Background(), "acme", c, validInfo())
	assert.Equal(t, commerce.CodeProductNotFound, commerce.CodeOf(err))
}

func TestCheckout_PricingPolicyApplied(t *testing.T) {
	store := newFakeStore()
	mug := store.addProduct("Mug", 100.00, 10)
	engine := NewEngine(activeTenant("acme"), store, pricing.FlatRatePolicy{TaxRate: 0.08, Shipping: 5.00})

	c := cart.New("acme", "USD")
	c.Add(mug, "Mug", 100.00, 1)

	o, _, err := engine.Checkout(context.Background(), "acme", c, validInfo())
	require.NoError(t, err)

	assert.InDelta(t, 100.00, o.Subtotal, 0.001)
	assert.InDelta(t, 8.00, o.Tax, 0.001)
	assert.InDelta(t, 5.00, o.Shipping, 0.001)
	assert.InDelta(t, 113.00, o.Total, 0.001)
}
