package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

type fakeOrderStore struct {
	orders      map[uuid.UUID]*models.Order
	stale       bool
	transitions int
}

func (f *fakeOrderStore) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, commerce.OrderNotFound(orderID.String())
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderStore) Transition(ctx context.Context, tenantID, orderID uuid.UUID, from, to models.OrderStatus) (*models.Order, bool, error) {
	f.transitions++
	o := f.orders[orderID]
	if f.stale || o.Status != from {
		return nil, false, nil
	}
	o.Status = to
	cp := *o
	return &cp, true, nil
}

func seededService(status models.OrderStatus) (*Service, *fakeOrderStore, uuid.UUID) {
	id := uuid.New()
	store := &fakeOrderStore{orders: map[uuid.UUID]*models.Order{
		id: {ID: id, OrderNumber: "ORD-20260830-SEED", Status: status},
	}}
	return NewService(store), store, id
}

func TestUpdateStatus_TerminalOrdersAreImmutable(t *testing.T) {
	for _, terminal := range []models.OrderStatus{models.OrderDelivered, models.OrderCancelled, models.OrderRefunded} {
		t.Run(string(terminal), func(t *testing.T) {
			svc, store, id := seededService(terminal)

			_, err := svc.UpdateStatus(context.Background(), uuid.New(), id, models.OrderConfirmed)
			assert.Equal(t, commerce.CodeImmutableOrder, commerce.CodeOf(err))
			assert.Equal(t, terminal, store.orders[id].Status, "status never changes")
			assert.Zero(t, store.transitions, "terminal orders never reach the store")
		})
	}
}

func TestCancel_TerminalOrderIsImmutable(t *testing.T) {
	svc, store, id := seededService(models.OrderDelivered)

	_, err := svc.Cancel(context.Background(), uuid.New(), id)
	assert.Equal(t, commerce.CodeImmutableOrder, commerce.CodeOf(err))
	assert.Equal(t, models.OrderDelivered, store.orders[id].Status)
	assert.Zero(t, store.transitions)
}

func TestCancel_FromShipped(t *testing.T) {
	svc, store, id := seededService(models.OrderShipped)

	o, err := svc.Cancel(context.Background(), uuid.New(), id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, o.Status)
	assert.Equal(t, models.OrderCancelled, store.orders[id].Status)
}

func TestUpdateStatus_IllegalEdge(t *testing.T) {
	svc, store, id := seededService(models.OrderPending)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), id, models.OrderShipped)
	assert.Equal(t, commerce.CodeValidation, commerce.CodeOf(err))
	assert.Equal(t, models.OrderPending, store.orders[id].Status)
	assert.Zero(t, store.transitions)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, _, id := seededService(models.OrderPending)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), id, models.OrderStatus("LOST"))
	assert.Equal(t, commerce.CodeValidation, commerce.CodeOf(err))
}

func TestUpdateStatus_Advances(t *testing.T) {
	svc, store, id := seededService(models.OrderPending)

	o, err := svc.UpdateStatus(context.Background(), uuid.New(), id, models.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, o.Status)
	assert.Equal(t, models.OrderConfirmed, store.orders[id].Status)
	assert.Equal(t, 1, store.transitions)
}

func TestUpdateStatus_ConcurrentChangeLosesCleanly(t *testing.T) {
	svc, store, id := seededService(models.OrderPending)
	store.stale = true

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), id, models.OrderConfirmed)
	assert.Equal(t, commerce.CodeValidation, commerce.CodeOf(err))
	assert.Equal(t, models.OrderPending, store.orders[id].Status)
}

func TestUpdateStatus_MissingOrder(t *testing.T) {
	svc := NewService(&fakeOrderStore{orders: map[uuid.UUID]*models.Order{}})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), models.OrderConfirmed)
	assert.Equal(t, commerce.CodeOrderNotFound, commerce.CodeOf(err))
}
