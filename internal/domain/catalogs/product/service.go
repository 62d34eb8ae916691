package product

import (
	"context"

	"ordina/internal/core/id"
	"ordina/internal/domain/stock"
)

// Service exposes product reads to the rest of the engine.
type Service struct {
	repo Repository
}

// NewService creates a product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns a product.
func (s *Service) GetByID(ctx context.Context, tenantID, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, tenantID, productID)
}

// List returns products for a tenant.
func (s *Service) List(ctx context.Context, tenantID id.ID, limit, offset int) ([]Product, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.List(ctx, tenantID, limit, offset)
}

// GetProductInfo implements stock.ProductLookup.
func (s *Service) GetProductInfo(ctx context.Context, tenantID, productID id.ID) (stock.ProductInfo, error) {
	p, err := s.repo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return stock.ProductInfo{}, err
	}
	return stock.ProductInfo{
		ID:         p.ID,
		Label:      p.Name,
		TrackStock: p.TrackStock,
	}, nil
}

var _ stock.ProductLookup = (*Service)(nil)
