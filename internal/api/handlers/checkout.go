package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/storefront/internal/cart"
	"github.com/nikhilbhutani/storefront/internal/checkout"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/webhook"
)

type CheckoutHandler struct {
	engine   *checkout.Engine
	carts    *cart.Store
	webhooks *webhook.Service
}

func NewCheckoutHandler(engine *checkout.Engine, carts *cart.Store, webhooks *webhook.Service) *CheckoutHandler {
	return &CheckoutHandler{engine: engine, carts: carts, webhooks: webhooks}
}

type checkoutRequest struct {
	Customer checkout.CustomerInfo `json:"customer"`
}

// Checkout converts the session cart into an order. The cart cookie is
// cleared only after the order has committed.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "slug"))

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}

	c := h.carts.Get(r, slug)

	o, p, err := h.engine.Checkout(r.Context(), slug, c, req.Customer)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.carts.Clear(w)

	h.webhooks.Dispatch(r.Context(), o.TenantID, webhook.EventOrderCreated, map[string]interface{}{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"total":        o.Total,
		"currency":     o.Currency,
		"items":        len(o.Items),
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"status":       o.Status,
		"subtotal":     o.Subtotal,
		"tax":          o.Tax,
		"shipping":     o.Shipping,
		"total":        o.Total,
		"currency":     o.Currency,
		"payment_id":   p.ID,
	})
}
