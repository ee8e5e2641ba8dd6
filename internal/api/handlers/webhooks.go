package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
	"github.com/nikhilbhutani/storefront/internal/tenant"
	"github.com/nikhilbhutani/storefront/internal/webhook"
)

type WebhookHandler struct {
	tenants *tenant.Service
	svc     *webhook.Service
}

func NewWebhookHandler(ts *tenant.Service, svc *webhook.Service) *WebhookHandler {
	return &WebhookHandler{tenants: ts, svc: svc}
}

func (h *WebhookHandler) resolveTenant(r *http.Request) (*models.Tenant, error) {
	return h.tenants.ResolveBySlugCached(r.Context(), strings.ToLower(chi.URLParam(r, "slug")))
}

func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req webhook.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}
	if req.URL == "" || len(req.Events) == 0 {
		writeDomainError(w, commerce.Validation("url and events required"))
		return
	}

	wh, err := h.svc.Create(r.Context(), t.ID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, wh)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	webhooks, err := h.svc.List(r.Context(), t.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"webhooks": webhooks, "count": len(webhooks)})
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid webhook ID"))
		return
	}

	if err := h.svc.Delete(r.Context(), t.ID, id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
