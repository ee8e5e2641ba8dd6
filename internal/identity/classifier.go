// Package identity resolves request credentials into exactly one of three
// disjoint user types: customer, merchant_admin or platform_admin. The
// classification is a pure mapping over verified claims and directory
// lookups; downstream code trusts the resulting UserContext without
// re-verifying the credential.
package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

type UserType string

const (
	UserTypeCustomer      UserType = "customer"
	UserTypeMerchantAdmin UserType = "merchant_admin"
	UserTypePlatformAdmin UserType = "platform_admin"
)

// UserContext is the classified identity for one request. Only the fields
// relevant to the user type are populated: merchant admins carry a role and
// tenant binding, customers carry a tenant binding, platform admins carry
// permissions and no tenant.
type UserContext struct {
	UID         uuid.UUID
	Email       string
	Type        UserType
	Role        models.Role
	TenantID    uuid.UUID
	TenantSlug  string
	Permissions []string
}

// Directory is the lookup surface the classifier needs.
type Directory interface {
	PlatformAdmin(ctx context.Context, uid uuid.UUID) (*models.PlatformAdmin, error)
	ActiveMembership(ctx context.Context, uid uuid.UUID) (*models.Membership, string, error)
}

type Classifier struct {
	verifier Verifier
	dir      Directory
}

func NewClassifier(verifier Verifier, dir Directory) *Classifier {
	return &Classifier{verifier: verifier, dir: dir}
}

// Classify verifies the credential and assigns exactly one user type.
// Platform-admin and merchant-admin bindings win over the customer default;
// an unverifiable credential is always an authentication failure, never a
// fallback type.
func (c *Classifier) Classify(ctx context.Context, token string) (*UserContext, error) {
	if token == "" {
		return nil, commerce.Unauthenticated("missing credentials")
	}

	claims, err := c.verifier.Verify(ctx, token)
	if err != nil {
		return nil, commerce.Unauthenticated("invalid token")
	}

	admin, err := c.dir.PlatformAdmin(ctx, claims.UID)
	if err != nil {
		return nil, fmt.Errorf("platform admin lookup: %w", err)
	}
	if admin != nil {
		return &UserContext{
			UID:         claims.UID,
			Email:       claims.Email,
			Type:        UserTypePlatformAdmin,
			Permissions: admin.Permissions,
		}, nil
	}

	membership, slug, err := c.dir.ActiveMembership(ctx, claims.UID)
	if err != nil {
		return nil, fmt.Errorf("membership lookup: %w", err)
	}
	if membership != nil {
		return &UserContext{
			UID:        claims.UID,
			Email:      claims.Email,
			Type:       UserTypeMerchantAdmin,
			Role:       membership.Role,
			TenantID:   membership.TenantID,
			TenantSlug: slug,
		}, nil
	}

	return &UserContext{
		UID:        claims.UID,
		Email:      claims.Email,
		Type:       UserTypeCustomer,
		TenantSlug: claims.TenantSlug,
	}, nil
}
