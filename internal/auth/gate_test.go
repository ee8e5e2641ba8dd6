package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/identity"
	"github.com/nikhilbhutani/storefront/internal/models"
)

func merchant(role models.Role, slug string) *identity.UserContext {
	return &identity.UserContext{Type: identity.UserTypeMerchantAdmin, Role: role, TenantSlug: slug}
}

func TestCheckAccess_NilIdentity(t *testing.T) {
	d := CheckAccess(nil, identity.UserTypeMerchantAdmin, nil, "acme")
	assert.False(t, d.Allowed)
	assert.Equal(t, commerce.CodeUnauthenticated, d.Err.Code)
}

func TestCheckAccess_UserType(t *testing.T) {
	customer := &identity.UserContext{Type: identity.UserTypeCustomer, TenantSlug: "acme"}

	d := CheckAccess(customer, identity.UserTypeMerchantAdmin, nil, "acme")
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyWrongUserType, d.Reason)
	assert.Equal(t, commerce.CodeWrongUserType, d.Err.Code)

	d = CheckAccess(customer, identity.UserTypeCustomer, nil, "acme")
	assert.True(t, d.Allowed)
}

func TestCheckAccess_TenantBinding(t *testing.T) {
	uc := merchant(models.RoleOwner, "acme")

	d := CheckAccess(uc, identity.UserTypeMerchantAdmin, nil, "other-shop")
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyWrongTenant, d.Reason)
	assert.Equal(t, commerce.CodeWrongTenant, d.Err.Code)

	// An OWNER elsewhere is still an outsider here; the role check never runs.
	d = CheckAccess(uc, identity.UserTypeMerchantAdmin, []models.Role{models.RoleViewer}, "other-shop")
	assert.Equal(t, DenyWrongTenant, d.Reason)
}

func TestCheckAccess_RoleFloor(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		required []models.Role
		allowed  bool
	}{
		{"staff denied owner/admin endpoint", models.RoleStaff, []models.Role{models.RoleOwner, models.RoleAdmin}, false},
		{"admin allowed owner/admin endpoint", models.RoleAdmin, []models.Role{models.RoleOwner, models.RoleAdmin}, true},
		{"owner allowed owner/admin endpoint", models.RoleOwner, []models.Role{models.RoleOwner, models.RoleAdmin}, true},
		{"viewer denied staff endpoint", models.RoleViewer, []models.Role{models.RoleStaff}, false},
		{"editor allowed staff endpoint", models.RoleEditor, []models.Role{models.RoleStaff}, true},
		{"staff allowed editor endpoint", models.RoleStaff, []models.Role{models.RoleEditor}, true},
		{"viewer allowed when no floor", models.RoleViewer, nil, true},
		{"viewer allowed viewer endpoint", models.RoleViewer, []models.Role{models.RoleViewer}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CheckAccess(merchant(tt.role, "acme"), identity.UserTypeMerchantAdmin, tt.required, "acme")
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, DenyInsufficientRole, d.Reason)
				assert.Equal(t, commerce.CodeInsufficientRole, d.Err.Code)
			}
		})
	}
}

func TestCheckAccess_PlatformAdminBypass(t *testing.T) {
	admin := &identity.UserContext{Type: identity.UserTypePlatformAdmin}

	// Bypasses user type, tenant binding and role floor.
	d := CheckAccess(admin, identity.UserTypeMerchantAdmin, []models.Role{models.RoleOwner}, "any-shop")
	assert.True(t, d.Allowed)

	d = CheckAccess(admin, identity.UserTypeCustomer, nil, "any-shop")
	assert.True(t, d.Allowed)
}

func TestCheckAccess_CustomerTenantBinding(t *testing.T) {
	uc := &identity.UserContext{Type: identity.UserTypeCustomer, TenantSlug: "acme"}

	d := CheckAccess(uc, identity.UserTypeCustomer, nil, "other-shop")
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyWrongTenant, d.Reason)
}
