package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/storefront/internal/audit"
	"github.com/nikhilbhutani/storefront/internal/tenant"
)

type AdminHandler struct {
	tenants *tenant.Service
	audit   *audit.Service
}

func NewAdminHandler(ts *tenant.Service, as *audit.Service) *AdminHandler {
	return &AdminHandler{tenants: ts, audit: as}
}

func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenants.ResolveBySlugCached(r.Context(), strings.ToLower(chi.URLParam(r, "slug")))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	q := audit.Query{Action: r.URL.Query().Get("action")}
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	if v := r.URL.Query().Get("start_date"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			q.StartDate = &ts
		}
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			q.EndDate = &ts
		}
	}

	logs, err := h.audit.List(r.Context(), t.ID, q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": logs, "count": len(logs)})
}
