package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRefunded   OrderStatus = "REFUNDED"
)

type Order struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	TenantID      uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	CustomerID    uuid.UUID   `json:"customer_id" db:"customer_id"`
	OrderNumber   string      `json:"order_number" db:"order_number"`
	Status        OrderStatus `json:"status" db:"status"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	CustomerEmail string      `json:"customer_email" db:"customer_email"`
	ShippingAddr  string      `json:"shipping_address,omitempty" db:"shipping_address"`
	Items         []OrderItem `json:"items,omitempty"`
	Subtotal      float64     `json:"subtotal" db:"subtotal"`
	Tax           float64     `json:"tax" db:"tax"`
	Shipping      float64     `json:"shipping" db:"shipping"`
	Total         float64     `json:"total" db:"total"`
	Currency      string      `json:"currency" db:"currency"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem is an immutable snapshot of a product at order-creation time.
// PriceSnapshot is the billed unit price; it is never recomputed from the
// live product.
type OrderItem struct {
	ID            uuid.UUID `json:"id" db:"id"`
	OrderID       uuid.UUID `json:"order_id" db:"order_id"`
	ProductID     uuid.UUID `json:"product_id" db:"product_id"`
	NameSnapshot  string    `json:"name" db:"name_snapshot"`
	PriceSnapshot float64   `json:"price" db:"price_snapshot"`
	CartPrice     float64   `json:"cart_price" db:"cart_price"`
	Qty           int       `json:"qty" db:"qty"`
	LineTotal     float64   `json:"line_total" db:"line_total"`
}
