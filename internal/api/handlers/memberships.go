package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/audit"
	"github.com/nikhilbhutani/storefront/internal/auth"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
	"github.com/nikhilbhutani/storefront/internal/tenant"
)

type MembershipHandler struct {
	tenants *tenant.Service
	audit   *audit.Service
}

func NewMembershipHandler(ts *tenant.Service, as *audit.Service) *MembershipHandler {
	return &MembershipHandler{tenants: ts, audit: as}
}

func (h *MembershipHandler) resolveTenant(r *http.Request) (*models.Tenant, error) {
	return h.tenants.ResolveBySlugCached(r.Context(), strings.ToLower(chi.URLParam(r, "slug")))
}

func (h *MembershipHandler) List(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	members, err := h.tenants.ListMembers(r.Context(), t.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members, "count": len(members)})
}

type inviteRequest struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   models.Role `json:"role"`
}

func (h *MembershipHandler) Invite(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}
	if req.UserID == uuid.Nil {
		writeDomainError(w, commerce.Validation("user_id required"))
		return
	}

	m, err := h.tenants.Invite(r.Context(), t.ID, req.UserID, req.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.audit.Log(r.Context(), audit.LogEntry{
		TenantID:     t.ID,
		Action:       "membership.invited",
		ResourceType: "membership",
		ResourceID:   &m.ID,
		Details:      map[string]interface{}{"user_id": req.UserID, "role": req.Role},
		IPAddress:    r.RemoteAddr,
	})

	writeJSON(w, http.StatusCreated, m)
}

// Accept activates the caller's own pending invite. It sits behind
// authentication only: a pending invitee is not yet an active member, so the
// merchant-admin gate cannot apply here.
func (h *MembershipHandler) Accept(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	uc := auth.UserContextFrom(r.Context())
	if uc == nil {
		writeDomainError(w, commerce.Unauthenticated("no identity"))
		return
	}

	m, err := h.tenants.AcceptInvite(r.Context(), t.ID, uc.UID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

type changeRoleRequest struct {
	Role models.Role `json:"role"`
}

func (h *MembershipHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid user ID"))
		return
	}

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}

	m, err := h.tenants.ChangeRole(r.Context(), t.ID, userID, req.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.audit.Log(r.Context(), audit.LogEntry{
		TenantID:     t.ID,
		Action:       "membership.role_changed",
		ResourceType: "membership",
		ResourceID:   &m.ID,
		Details:      map[string]interface{}{"user_id": userID, "role": req.Role},
		IPAddress:    r.RemoteAddr,
	})

	writeJSON(w, http.StatusOK, m)
}

func (h *MembershipHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolveTenant(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid user ID"))
		return
	}

	if err := h.tenants.Revoke(r.Context(), t.ID, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	h.audit.Log(r.Context(), audit.LogEntry{
		TenantID:     t.ID,
		Action:       "membership.revoked",
		ResourceType: "membership",
		Details:      map[string]interface{}{"user_id": userID},
		IPAddress:    r.RemoteAddr,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}
