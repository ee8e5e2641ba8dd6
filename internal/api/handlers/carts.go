package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/cart"
	"github.com/nikhilbhutani/storefront/internal/catalog"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/tenant"
)

// CartHandler mutates the session cart. The catalog is consulted only to
// build name/price snapshots at add time; the cart itself never reads live
// product data afterwards.
type CartHandler struct {
	tenants *tenant.Service
	catalog *catalog.Service
	carts   *cart.Store
}

func NewCartHandler(ts *tenant.Service, cs *catalog.Service, carts *cart.Store) *CartHandler {
	return &CartHandler{tenants: ts, catalog: cs, carts: carts}
}

func (h *CartHandler) slug(r *http.Request) string {
	return strings.ToLower(chi.URLParam(r, "slug"))
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(r, h.slug(r))
	writeJSON(w, http.StatusOK, cartView(c))
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	slug := h.slug(r)

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}
	if req.ProductID == uuid.Nil {
		writeDomainError(w, commerce.Validation("product_id required"))
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}

	t, err := h.tenants.ResolveBySlugCached(r.Context(), slug)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	p, err := h.catalog.Get(r.Context(), t.ID, req.ProductID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !p.Purchasable() {
		writeDomainError(w, commerce.ProductNotFound(req.ProductID.String()))
		return
	}

	c := h.carts.Get(r, slug)
	c.Add(p.ID, p.Name, p.Price, req.Qty)
	if err := h.carts.Save(w, c); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cartView(c))
}

type updateQtyRequest struct {
	Qty int `json:"qty"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid product ID"))
		return
	}

	var req updateQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}

	c := h.carts.Get(r, h.slug(r))
	c.UpdateQty(productID, req.Qty)
	if err := h.carts.Save(w, c); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cartView(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid product ID"))
		return
	}

	c := h.carts.Get(r, h.slug(r))
	c.Remove(productID)
	if err := h.carts.Save(w, c); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cartView(c))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.carts.Clear(w)
	writeJSON(w, http.StatusOK, cartView(cart.New(h.slug(r), "")))
}

func cartView(c *cart.Cart) map[string]interface{} {
	return map[string]interface{}{
		"tenant_slug": c.TenantSlug,
		"items":       c.Items,
		"currency":    c.Currency,
		"subtotal":    c.SnapshotSubtotal(),
	}
}
