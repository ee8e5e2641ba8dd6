package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/storefront/internal/cache"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

// resolveAttempts bounds retries on transient storage errors during slug
// resolution. A resolver false-negative cascades into a denial for the
// whole request, so transient failures are worth a couple of retries.
const resolveAttempts = 3

const tenantCacheTTL = 5 * time.Minute

type Service struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewService(db *pgxpool.Pool, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

const tenantColumns = "id, name, slug, status, template, settings, created_at, updated_at"

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Status, &t.Template, &t.Settings, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ResolveBySlug maps a slug to its tenant record. Slugs are normalized to
// lowercase. Suspended tenants still resolve; suspension is enforced by the
// access gate, not by hiding the tenant.
func (s *Service) ResolveBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, commerce.TenantNotFound(slug)
	}

	var lastErr error
	for attempt := 1; attempt <= resolveAttempts; attempt++ {
		t, err := scanTenant(s.db.QueryRow(ctx,
			"SELECT "+tenantColumns+" FROM tenants WHERE slug = $1", slug))
		if err == nil {
			return t, nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, commerce.TenantNotFound(slug)
		}

		lastErr = err
		slog.Warn("tenant resolve retry", "slug", slug, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}

	return nil, commerce.Storage(fmt.Errorf("resolve tenant %s: %w", slug, lastErr))
}

// ResolveBySlugCached serves read-mostly lookups through the cache
// collaborator. Checkout and other transactional paths must use
// ResolveBySlug directly.
func (s *Service) ResolveBySlugCached(ctx context.Context, slug string) (*models.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if s.cache == nil {
		return s.ResolveBySlug(ctx, slug)
	}

	var t models.Tenant
	err := s.cache.GetOrFetch(ctx, "tenant:slug:"+slug, tenantCacheTTL, &t,
		func(ctx context.Context) (interface{}, error) {
			return s.ResolveBySlug(ctx, slug)
		})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t, err := scanTenant(s.db.QueryRow(ctx,
		"SELECT "+tenantColumns+" FROM tenants WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, commerce.NotFound("tenant")
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, name, slug, template string) (*models.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || name == "" {
		return nil, commerce.Validation("name and slug required")
	}

	t, err := scanTenant(s.db.QueryRow(ctx,
		`INSERT INTO tenants (name, slug, status, template)
		 VALUES ($1, $2, 'ACTIVE', $3)
		 RETURNING `+tenantColumns,
		name, slug, template))
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	s.invalidate(ctx, slug)
	return t, nil
}

// UpdateStatus applies a tenant status transition. ARCHIVED is terminal.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, next models.TenantStatus) (*models.Tenant, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(next) {
		return nil, commerce.Validation("tenant status %s cannot change to %s", current.Status, next)
	}

	t, err := scanTenant(s.db.QueryRow(ctx,
		`UPDATE tenants SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3
		 RETURNING `+tenantColumns,
		next, id, current.Status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, commerce.Validation("tenant status changed concurrently")
	}
	if err != nil {
		return nil, fmt.Errorf("update tenant status: %w", err)
	}
	s.invalidate(ctx, t.Slug)
	return t, nil
}

func (s *Service) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "tenant:slug:"+slug); err != nil {
		slog.Warn("tenant cache invalidation failed", "slug", slug, "error", err)
	}
}
