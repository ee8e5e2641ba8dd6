package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikhilbhutani/storefront/internal/models"
)

type PgDirectory struct {
	db *pgxpool.Pool
}

func NewPgDirectory(db *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{db: db}
}

func (d *PgDirectory) PlatformAdmin(ctx context.Context, uid uuid.UUID) (*models.PlatformAdmin, error) {
	var pa models.PlatformAdmin
	err := d.db.QueryRow(ctx,
		"SELECT user_id, permissions, created_at FROM platform_admins WHERE user_id = $1", uid,
	).Scan(&pa.UserID, &pa.Permissions, &pa.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get platform admin: %w", err)
	}
	return &pa, nil
}

// ActiveMembership returns the caller's ACTIVE membership and its tenant
// slug, or nil when none exists. Revoked and pending memberships never
// classify a caller as merchant admin.
func (d *PgDirectory) ActiveMembership(ctx context.Context, uid uuid.UUID) (*models.Membership, string, error) {
	var m models.Membership
	var slug string
	err := d.db.QueryRow(ctx,
		`SELECT m.id, m.tenant_id, m.user_id, m.role, m.status, m.created_at, m.updated_at, t.slug
		 FROM memberships m
		 JOIN tenants t ON t.id = m.tenant_id
		 WHERE m.user_id = $1 AND m.status = 'ACTIVE'`,
		uid,
	).Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt, &slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get membership: %w", err)
	}
	return &m, slug, nil
}
