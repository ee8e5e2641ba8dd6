package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/catalog"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
	"github.com/nikhilbhutani/storefront/internal/tenant"
)

// StorefrontHandler serves the public shop surface: tenant info and the
// purchasable catalog. Reads go through the cache collaborator.
type StorefrontHandler struct {
	tenants *tenant.Service
	catalog *catalog.Service
}

func NewStorefrontHandler(ts *tenant.Service, cs *catalog.Service) *StorefrontHandler {
	return &StorefrontHandler{tenants: ts, catalog: cs}
}

// resolveShop maps the slug param to an open storefront. Suspended and
// archived tenants resolve internally but are not served publicly.
func (h *StorefrontHandler) resolveShop(r *http.Request) (*models.Tenant, error) {
	slug := strings.ToLower(chi.URLParam(r, "slug"))
	t, err := h.tenants.ResolveBySlugCached(r.Context(), slug)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TenantActive {
		return nil, commerce.TenantSuspended(slug)
	}
	return t, nil
}

func (h *StorefrontHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveShop(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":     t.Name,
		"slug":     t.Slug,
		"template": t.Template,
		"settings": t.Settings,
	})
}

func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveShop(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	products, err := h.catalog.ListActive(r.Context(), t.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products, "count": len(products)})
}

func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveShop(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid product ID"))
		return
	}

	p, err := h.catalog.Get(r.Context(), t.ID, productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !p.Purchasable() {
		writeDomainError(w, commerce.ProductNotFound(productID.String()))
		return
	}

	writeJSON(w, http.StatusOK, p)
}
