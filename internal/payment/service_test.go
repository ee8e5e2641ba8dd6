package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

type fakePaymentStore struct {
	order    *models.Order
	orderErr error
	attempts []*models.Payment
	complete int
	failed   int
}

func (f *fakePaymentStore) Order(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.order, nil
}

func (f *fakePaymentStore) PendingAttempt(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Payment, error) {
	for _, p := range f.attempts {
		if p.OrderID == orderID && p.Status == models.PaymentPending {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentStore) CreateAttempt(ctx context.Context, p *models.Payment) error {
	f.attempts = append(f.attempts, p)
	return nil
}

func (f *fakePaymentStore) Complete(ctx context.Context, paymentID, orderID uuid.UUID, transactionID string, processedAt time.Time) error {
	f.complete++
	for _, p := range f.attempts {
		if p.ID == paymentID {
			p.Status = models.PaymentCompleted
		}
	}
	f.order.Status = models.OrderConfirmed
	return nil
}

func (f *fakePaymentStore) Fail(ctx context.Context, paymentID uuid.UUID, reason string) error {
	f.failed++
	for _, p := range f.attempts {
		if p.ID == paymentID {
			p.Status = models.PaymentFailed
		}
	}
	return nil
}

// checkoutSeeded mirrors checkout, which opens every order with a PENDING
// payment for the full total.
func checkoutSeeded(store *fakePaymentStore) *models.Payment {
	opened := &models.Payment{
		ID:       uuid.New(),
		OrderID:  store.order.ID,
		Provider: "mock",
		Amount:   store.order.Total,
		Currency: store.order.Currency,
		Status:   models.PaymentPending,
	}
	store.attempts = append(store.attempts, opened)
	return opened
}

type fakeProvider struct {
	result Result
	err    error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Process(ctx context.Context, intent Intent) (Result, error) {
	return f.result, f.err
}

func pendingOrder(total float64) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20260830-TEST",
		Status:      models.OrderPending,
		Total:       total,
		Currency:    "USD",
	}
}

func TestProcess_Succeeds(t *testing.T) {
	store := &fakePaymentStore{order: pendingOrder(113.00)}
	svc := NewService(store, &fakeProvider{result: Result{Success: true, TransactionID: "txn_1"}})

	p, err := svc.Process(context.Background(), uuid.New(), ProcessRequest{
		OrderID: store.order.ID, Amount: 113.00, Currency: "USD",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.Equal(t, "txn_1", p.TransactionID)
	require.NotNil(t, p.ProcessedAt)
	assert.Equal(t, 1, store.complete)
	assert.Equal(t, models.OrderConfirmed, store.order.Status)
}

func TestProcess_SettlesCheckoutOpenedPayment(t *testing.T) {
	store := &fakePaymentStore{order: pendingOrder(113.00)}
	opened := checkoutSeeded(store)
	svc := NewService(store, &fakeProvider{result: Result{Success: true, TransactionID: "txn_9"}})

	p, err := svc.Process(context.Background(), uuid.New(), ProcessRequest{
		OrderID: store.order.ID, Amount: 113.00,
	})
	require.NoError(t, err)

	assert.Equal(t, opened.ID, p.ID, "the attempt opened at checkout is the one that settles")
	require.Len(t, store.attempts, 1, "no extra attempt row")
	assert.Equal(t, models.PaymentCompleted, store.attempts[0].Status, "nothing left for the reconcile worker")
	assert.Equal(t, models.OrderConfirmed, store.order.Status)
}

func TestProcess_AmountTolerance(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		ok     bool
	}{
		{"exact", 113.00, true},
		{"one cent under", 112.99, true},
		{"one cent over", 113.01, true},
		{"two cents under", 112.98, false},
		{"way off", 50.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakePaymentStore{order: pendingOrder(113.00)}
			svc := NewService(store, &fakeProvider{result: Result{Success: true, TransactionID: "txn"}})

			_, err := svc.Process(context.Background(), uuid.New(), ProcessRequest{
				OrderID: store.order.ID, Amount: tt.amount,
			})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, commerce.CodeAmountMismatch, commerce.CodeOf(err))
				assert.Empty(t, store.attempts, "mismatch never reaches the provider")
			}
		})
	}
}

func TestProcess_OrderNotPending(t *testing.T) {
	o := pendingOrder(50.00)
	o.Status = models.OrderConfirmed
	store := &fakePaymentStore{order: o}
	svc := NewService(store, &fakeProvider{result: Result{Success: true}})

	_, err := svc.Process(context.Background(), uuid.New(), ProcessRequest{OrderID: o.ID, Amount: 50.00})
	assert.Equal(t, commerce.CodeValidation, commerce.CodeOf(err))
	assert.Empty(t, store.attempts)
}

func TestProcess_CurrencyMismatch(t *testing.T) {
	store := &fakePaymentStore{order: pendingOrder(50.00)}
	svc := NewService(store, &fakeProvider{result: Result{Success: true}})

	_, err := svc.Process(context.Background(), uuid.New(), ProcessRequest{
		OrderID: store.order.ID, Amount: 50.00, Currency: "EUR",
	})
	assert.Equal(t, commerce.CodeValidation, commerce.CodeOf(err))
}

func TestProcess_ProviderFailureLeavesOrderPending(t *testing.T) {
	store := &fakePaymentStore{order: pendingOrder(50.00)}
	svc := NewService(store, &fakeProvider{result: Result{Success: false, Error: "card declined"}})

	p, err := svc.Process(context.Background(), uuid.New(), ProcessRequest{OrderID: store.order.ID, Amount: 50.00})
	assert.Equal(t, commerce.CodeProviderFailure, commerce.CodeOf(err))

	require.NotNil(t, p, "failed attempt is returned for the caller to report")
	assert.Equal(t, models.PaymentFailed, p.Status)
	assert.Equal(t, "card declined", p.FailureReason)
	assert.Equal(t, 1, store.failed)
	assert.Equal(t, 0, store.complete)
	assert.Equal(t, models.OrderPending, store.order.Status, "order stays payable")
}

func TestProcess_ProviderErrorRecordsFailure(t *testing.T) {
	store := &fakePaymentStore{order: pendingOrder(50.00)}
	svc := NewService(store, &fakeProvider{err: errors.New("gateway timeout")})

	_, err := svc.Process(context.Background(), uuid.New(), ProcessRequest{OrderID: store.order.ID, Amount: 50.00})
	assert.Equal(t, commerce.CodeProviderFailure, commerce.CodeOf(err))
	assert.Equal(t, 1, store.failed)
}

func TestProcess_RetryCreatesFreshAttempt(t *testing.T) {
	store := &fakePaymentStore{order: pendingOrder(50.00)}
	opened := checkoutSeeded(store)
	failing := NewService(store, &fakeProvider{result: Result{Success: false, Error: "declined"}})

	_, err := failing.Process(context.Background(), uuid.New(), ProcessRequest{OrderID: store.order.ID, Amount: 50.00})
	require.Error(t, err)
	assert.Equal(t, models.PaymentFailed, opened.Status, "first attempt fails the checkout-opened row")

	succeeding := NewService(store, &fakeProvider{result: Result{Success: true, TransactionID: "txn_2"}})
	p, err := succeeding.Process(context.Background(), uuid.New(), ProcessRequest{OrderID: store.order.ID, Amount: 50.00})
	require.NoError(t, err)

	require.Len(t, store.attempts, 2, "retry after a failure mints a fresh row")
	assert.NotEqual(t, store.attempts[0].ID, store.attempts[1].ID)
	assert.Equal(t, models.PaymentCompleted, p.Status)
}

func TestMockProviderAlwaysSucceeds(t *testing.T) {
	p := &MockProvider{}

	res, err := p.Process(context.Background(), Intent{PaymentID: uuid.New(), Amount: 10})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.TransactionID, "mock_")
}
