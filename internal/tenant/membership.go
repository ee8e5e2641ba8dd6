package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

const membershipColumns = "id, tenant_id, user_id, role, status, created_at, updated_at"

func scanMembership(row pgx.Row) (*models.Membership, error) {
	var m models.Membership
	err := row.Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Invite creates a PENDING membership for the user. One membership exists
// per (tenant, user) pair; re-inviting a revoked member reopens it.
func (s *Service) Invite(ctx context.Context, tenantID, userID uuid.UUID, role models.Role) (*models.Membership, error) {
	if !role.Valid() {
		return nil, commerce.Validation("unknown role %s", role)
	}

	m, err := scanMembership(s.db.QueryRow(ctx,
		`INSERT INTO memberships (tenant_id, user_id, role, status)
		 VALUES ($1, $2, $3, 'PENDING')
		 ON CONFLICT (tenant_id, user_id)
		 DO UPDATE SET role = EXCLUDED.role, status = 'PENDING', updated_at = now()
		 RETURNING `+membershipColumns,
		tenantID, userID, role))
	if err != nil {
		return nil, fmt.Errorf("invite member: %w", err)
	}
	return m, nil
}

// AcceptInvite flips a PENDING membership to ACTIVE.
func (s *Service) AcceptInvite(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error) {
	m, err := scanMembership(s.db.QueryRow(ctx,
		`UPDATE memberships SET status = 'ACTIVE', updated_at = now()
		 WHERE tenant_id = $1 AND user_id = $2 AND status = 'PENDING'
		 RETURNING `+membershipColumns,
		tenantID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, commerce.NotFound("pending invite")
	}
	if err != nil {
		return nil, fmt.Errorf("accept invite: %w", err)
	}
	return m, nil
}

func (s *Service) ChangeRole(ctx context.Context, tenantID, userID uuid.UUID, role models.Role) (*models.Membership, error) {
	if !role.Valid() {
		return nil, commerce.Validation("unknown role %s", role)
	}

	m, err := scanMembership(s.db.QueryRow(ctx,
		`UPDATE memberships SET role = $1, updated_at = now()
		 WHERE tenant_id = $2 AND user_id = $3 AND status = 'ACTIVE'
		 RETURNING `+membershipColumns,
		role, tenantID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, commerce.NotFound("membership")
	}
	if err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}
	return m, nil
}

// Revoke flips the membership status to REVOKED. Memberships are never
// hard-deleted.
func (s *Service) Revoke(ctx context.Context, tenantID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE memberships SET status = 'REVOKED', updated_at = now()
		 WHERE tenant_id = $1 AND user_id = $2 AND status != 'REVOKED'`,
		tenantID, userID)
	if err != nil {
		return fmt.Errorf("revoke membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return commerce.NotFound("membership")
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, tenantID uuid.UUID) ([]models.Membership, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE tenant_id = $1 ORDER BY created_at",
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		members = append(members, *m)
	}
	return members, nil
}
