package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

// Store is the persistence surface for orders. Transition applies a status
// change conditioned on the status the caller read; ok is false when the
// row changed underneath it.
type Store interface {
	Get(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.Order, error)
	Transition(ctx context.Context, tenantID, orderID uuid.UUID, from, to models.OrderStatus) (*models.Order, bool, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the order with its item snapshots, scoped to the tenant.
func (s *Service) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	return s.store.Get(ctx, tenantID, orderID)
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.List(ctx, tenantID, limit, offset)
}

// UpdateStatus advances an order along the status machine. Terminal states
// reject any transition; an illegal forward edge is a validation failure.
// The store transition is conditioned on the status read here, so a
// concurrent change loses cleanly instead of skipping states.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	if !ValidStatus(next) {
		return nil, commerce.Validation("unknown order status %s", next)
	}

	current, err := s.store.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if Terminal(current.Status) {
		return nil, commerce.ImmutableOrder(string(current.Status))
	}
	if !CanTransition(current.Status, next) {
		return nil, commerce.Validation("order status %s cannot change to %s", current.Status, next)
	}

	o, ok, err := s.store.Transition(ctx, tenantID, orderID, current.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, commerce.Validation("order status changed concurrently")
	}
	o.Items = current.Items
	return o, nil
}

// Cancel soft-transitions the order to CANCELLED.
func (s *Service) Cancel(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	current, err := s.store.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if Terminal(current.Status) {
		return nil, commerce.ImmutableOrder(string(current.Status))
	}
	return s.UpdateStatus(ctx, tenantID, orderID, models.OrderCancelled)
}
