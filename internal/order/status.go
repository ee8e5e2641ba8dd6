package order

import (
	"github.com/nikhilbhutani/storefront/internal/models"
)

// transitions is the order status machine as data. DELIVERED, CANCELLED
// and REFUNDED have no outgoing edges and are therefore immutable.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed:  {models.OrderProcessing, models.OrderCancelled, models.OrderRefunded},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled, models.OrderRefunded},
	models.OrderShipped:    {models.OrderDelivered, models.OrderCancelled, models.OrderRefunded},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
	models.OrderRefunded:   {},
}

func ValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition out of s is permitted.
func Terminal(s models.OrderStatus) bool {
	t, ok := transitions[s]
	return ok && len(t) == 0
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
