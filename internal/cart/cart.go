// Package cart holds the ephemeral, session-scoped pre-order state. A cart
// stores price and name snapshots only; it never consults live product
// data. Re-validation against the catalog happens at checkout.
package cart

import (
	"github.com/google/uuid"
)

const (
	MinQty = 1
	MaxQty = 99
)

type Item struct {
	ProductID     uuid.UUID `json:"product_id"`
	NameSnapshot  string    `json:"name"`
	PriceSnapshot float64   `json:"price"`
	Qty           int       `json:"qty"`
}

type Cart struct {
	TenantSlug string `json:"tenant_slug"`
	Items      []Item `json:"items"`
	Currency   string `json:"currency"`
}

func New(tenantSlug, currency string) *Cart {
	return &Cart{TenantSlug: tenantSlug, Currency: currency}
}

func clampQty(qty int) int {
	if qty < MinQty {
		return MinQty
	}
	if qty > MaxQty {
		return MaxQty
	}
	return qty
}

// Add appends a line or bumps the quantity of an existing one. Quantity is
// clamped to [1, 99] after merging.
func (c *Cart) Add(productID uuid.UUID, name string, price float64, qty int) {
	qty = clampQty(qty)
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Qty = clampQty(c.Items[i].Qty + qty)
			c.Items[i].NameSnapshot = name
			c.Items[i].PriceSnapshot = price
			return
		}
	}
	c.Items = append(c.Items, Item{
		ProductID:     productID,
		NameSnapshot:  name,
		PriceSnapshot: price,
		Qty:           qty,
	})
}

// UpdateQty sets a line's quantity; zero removes the line.
func (c *Cart) UpdateQty(productID uuid.UUID, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	qty = clampQty(qty)
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Qty = qty
			return
		}
	}
}

func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// SnapshotSubtotal sums the held snapshots. Display only; billing totals
// are recomputed from live prices at checkout.
func (c *Cart) SnapshotSubtotal() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.PriceSnapshot * float64(it.Qty)
	}
	return sum
}
