package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/storefront/internal/cache"
	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

const productCacheTTL = time.Minute

type Service struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewService(db *pgxpool.Pool, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

const productColumns = "id, tenant_id, name, description, price, stock, status, created_at, updated_at"

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Status,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Get(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1 AND tenant_id = $2",
		productID, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, commerce.ProductNotFound(productID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListActive returns the storefront's purchasable products, served through
// the cache collaborator. Checkout never reads through this path.
func (s *Service) ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error) {
	if s.cache == nil {
		return s.listActiveLive(ctx, tenantID)
	}

	var products []models.Product
	err := s.cache.GetOrFetch(ctx, "products:active:"+tenantID.String(), productCacheTTL, &products,
		func(ctx context.Context) (interface{}, error) {
			return s.listActiveLive(ctx, tenantID)
		})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) listActiveLive(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE tenant_id = $1 AND status = 'active' ORDER BY name",
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, nil
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, nil
}

type CreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Status      string  `json:"status"`
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, commerce.Validation("product name required")
	}
	if req.Price < 0 || req.Stock < 0 {
		return nil, commerce.Validation("price and stock must be non-negative")
	}
	status := models.ProductStatus(req.Status)
	if status == "" {
		status = models.ProductDraft
	}
	if status != models.ProductActive && status != models.ProductDraft && status != models.ProductInactive {
		return nil, commerce.Validation("unknown product status %s", req.Status)
	}

	p, err := scanProduct(s.db.QueryRow(ctx,
		`INSERT INTO products (tenant_id, name, description, price, stock, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+productColumns,
		tenantID, req.Name, req.Description, req.Price, req.Stock, status))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.invalidate(ctx, tenantID)
	return p, nil
}

type UpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

func (s *Service) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateRequest) (*models.Product, error) {
	current, err := s.Get(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, commerce.Validation("price must be non-negative")
		}
		current.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, commerce.Validation("stock must be non-negative")
		}
		current.Stock = *req.Stock
	}
	if req.Status != nil {
		status := models.ProductStatus(*req.Status)
		if status != models.ProductActive && status != models.ProductDraft && status != models.ProductInactive {
			return nil, commerce.Validation("unknown product status %s", *req.Status)
		}
		current.Status = status
	}

	p, err := scanProduct(s.db.QueryRow(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3, stock = $4, status = $5, updated_at = now()
		 WHERE id = $6 AND tenant_id = $7
		 RETURNING `+productColumns,
		current.Name, current.Description, current.Price, current.Stock, current.Status, productID, tenantID))
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, tenantID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE products SET status = 'inactive', updated_at = now() WHERE id = $1 AND tenant_id = $2",
		productID, tenantID)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return commerce.ProductNotFound(productID.String())
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "products:active:"+tenantID.String()); err != nil {
		slog.Warn("product cache invalidation failed", "tenant_id", tenantID, "error", err)
	}
}
