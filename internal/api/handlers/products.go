package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/audit"
	"github.com/nikhilbhutani/storefront/internal/catalog"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
	"github.com/nikhilbhutani/storefront/internal/tenant"
)

type ProductHandler struct {
	tenants *tenant.Service
	catalog *catalog.Service
	audit   *audit.Service
}

func NewProductHandler(ts *tenant.Service, cs *catalog.Service, as *audit.Service) *ProductHandler {
	return &ProductHandler{tenants: ts, catalog: cs, audit: as}
}

func (h *ProductHandler) resolveTenant(r *http.Request) (*models.Tenant, error) {
	return h.tenants.ResolveBySlugCached(r.Context(), strings.ToLower(chi.URLParam(r, "slug")))
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, err := h.catalog.List(r.Context(), t.ID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products, "count": len(products)})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req catalog.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}

	p, err := h.catalog.Create(r.Context(), t.ID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.audit.Log(r.Context(), audit.LogEntry{
		TenantID:     t.ID,
		Action:       "product.created",
		ResourceType: "product",
		ResourceID:   &p.ID,
		IPAddress:    r.RemoteAddr,
	})

	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid product ID"))
		return
	}

	var req catalog.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}

	p, err := h.catalog.Update(r.Context(), t.ID, productID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.audit.Log(r.Context(), audit.LogEntry{
		TenantID:     t.ID,
		Action:       "product.updated",
		ResourceType: "product",
		ResourceID:   &p.ID,
		IPAddress:    r.RemoteAddr,
	})

	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid product ID"))
		return
	}

	if err := h.catalog.Delete(r.Context(), t.ID, productID); err != nil {
		writeDomainError(w, err)
		return
	}

	h.audit.Log(r.Context(), audit.LogEntry{
		TenantID:     t.ID,
		Action:       "product.deleted",
		ResourceType: "product",
		ResourceID:   &productID,
		IPAddress:    r.RemoteAddr,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
