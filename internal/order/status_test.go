package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nikhilbhutani/storefront/internal/models"
)

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, s := range []models.OrderStatus{models.OrderDelivered, models.OrderCancelled, models.OrderRefunded} {
		assert.True(t, Terminal(s), string(s))
		for _, next := range []models.OrderStatus{
			models.OrderPending, models.OrderConfirmed, models.OrderProcessing,
			models.OrderShipped, models.OrderDelivered, models.OrderCancelled, models.OrderRefunded,
		} {
			assert.False(t, CanTransition(s, next), "%s -> %s", s, next)
		}
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPending, models.OrderRefunded, false},
		{models.OrderConfirmed, models.OrderProcessing, true},
		{models.OrderConfirmed, models.OrderRefunded, true},
		{models.OrderProcessing, models.OrderShipped, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderCancelled, true},
		{models.OrderConfirmed, models.OrderPending, false},
		{models.OrderShipped, models.OrderProcessing, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(models.OrderPending))
	assert.False(t, ValidStatus(models.OrderStatus("LOST")))
	assert.False(t, Terminal(models.OrderStatus("LOST")), "unknown statuses are not terminal")
}
