// Package auth is the single choke point for tenant-scoped authorization.
// Every operation that touches tenant data must obtain an Allow decision
// from CheckAccess before querying storage.
package auth

import (
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/identity"
	"github.com/nikhilbhutani/storefront/internal/models"
)

type DenyReason string

const (
	DenyWrongUserType    DenyReason = "WrongUserType"
	DenyWrongTenant      DenyReason = "WrongTenant"
	DenyInsufficientRole DenyReason = "InsufficientRole"
)

type Decision struct {
	Allowed bool
	Reason  DenyReason
	Err     *commerce.Error
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason, err *commerce.Error) Decision {
	return Decision{Reason: reason, Err: err}
}

// CheckAccess decides whether uc may perform an operation that requires
// requiredType (and at least the weakest of requiredRoles) against the
// tenant identified by targetSlug. Platform admins hold no membership role,
// so they bypass all three checks: user type, tenant binding and role floor.
//
// Rules are applied in order: user type, tenant binding, role.
func CheckAccess(uc *identity.UserContext, requiredType identity.UserType, requiredRoles []models.Role, targetSlug string) Decision {
	if uc == nil {
		return deny(DenyWrongUserType, commerce.Unauthenticated("no identity"))
	}

	isPlatform := uc.Type == identity.UserTypePlatformAdmin

	if uc.Type != requiredType && !isPlatform {
		return deny(DenyWrongUserType, commerce.WrongUserType(string(uc.Type), string(requiredType)))
	}

	if (requiredType == identity.UserTypeMerchantAdmin || requiredType == identity.UserTypeCustomer) && !isPlatform {
		if uc.TenantSlug != targetSlug {
			return deny(DenyWrongTenant, commerce.WrongTenant(targetSlug))
		}
	}

	if len(requiredRoles) > 0 && !isPlatform {
		min := minRole(requiredRoles)
		if !uc.Role.AtLeast(min) {
			return deny(DenyInsufficientRole, commerce.InsufficientRole(string(uc.Role), string(min)))
		}
	}

	return allow()
}

// minRole picks the weakest role from the accepted set; holding at least
// that role satisfies the check.
func minRole(roles []models.Role) models.Role {
	min := roles[0]
	for _, r := range roles[1:] {
		if r.Rank() < min.Rank() {
			min = r
		}
	}
	return min
}
