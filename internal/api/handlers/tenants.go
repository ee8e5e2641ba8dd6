package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
	"github.com/nikhilbhutani/storefront/internal/tenant"
)

// TenantHandler serves the platform-admin tenant surface.
type TenantHandler struct {
	tenants *tenant.Service
}

func NewTenantHandler(ts *tenant.Service) *TenantHandler {
	return &TenantHandler{tenants: ts}
}

type createTenantRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Template string `json:"template"`
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}

	t, err := h.tenants.Create(r.Context(), req.Name, req.Slug, req.Template)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

type tenantStatusRequest struct {
	Status models.TenantStatus `json:"status"`
}

func (h *TenantHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid tenant ID"))
		return
	}

	var req tenantStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}

	t, err := h.tenants.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}
