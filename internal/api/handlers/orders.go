package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/audit"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
	"github.com/nikhilbhutani/storefront/internal/order"
	"github.com/nikhilbhutani/storefront/internal/tenant"
	"github.com/nikhilbhutani/storefront/internal/webhook"
)

type OrderHandler struct {
	tenants  *tenant.Service
	orders   *order.Service
	webhooks *webhook.Service
	audit    *audit.Service
}

func NewOrderHandler(ts *tenant.Service, os *order.Service, ws *webhook.Service, as *audit.Service) *OrderHandler {
	return &OrderHandler{tenants: ts, orders: os, webhooks: ws, audit: as}
}

func (h *OrderHandler) resolveTenant(r *http.Request) (*models.Tenant, error) {
	return h.tenants.ResolveBySlugCached(r.Context(), strings.ToLower(chi.URLParam(r, "slug")))
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.orders.List(r.Context(), t.ID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders, "count": len(orders)})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid order ID"))
		return
	}

	o, err := h.orders.Get(r.Context(), t.ID, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid order ID"))
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), t.ID, orderID, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.audit.Log(r.Context(), audit.LogEntry{
		TenantID:     t.ID,
		Action:       "order.status_changed",
		ResourceType: "order",
		ResourceID:   &o.ID,
		Details:      map[string]interface{}{"status": o.Status},
		IPAddress:    r.RemoteAddr,
	})

	h.webhooks.Dispatch(r.Context(), t.ID, webhook.EventOrderStatusChanged, map[string]interface{}{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"status":       o.Status,
	})

	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid order ID"))
		return
	}

	o, err := h.orders.Cancel(r.Context(), t.ID, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.audit.Log(r.Context(), audit.LogEntry{
		TenantID:     t.ID,
		Action:       "order.cancelled",
		ResourceType: "order",
		ResourceID:   &o.ID,
		IPAddress:    r.RemoteAddr,
	})

	h.webhooks.Dispatch(r.Context(), t.ID, webhook.EventOrderStatusChanged, map[string]interface{}{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"status":       o.Status,
	})

	writeJSON(w, http.StatusOK, o)
}
