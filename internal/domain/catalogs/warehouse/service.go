package warehouse

import (
	"context"
	"fmt"

	"ordina/internal/core/id"
	"ordina/internal/core/tenant"
	"ordina/internal/domain/stock"
)

// Service exposes warehouse reads and the default-warehouse designation.
type Service struct {
	repo    Repository
	tenants tenant.Repository
}

// NewService creates a warehouse service.
func NewService(repo Repository, tenants tenant.Repository) *Service {
	return &Service{repo: repo, tenants: tenants}
}

// GetByID returns a warehouse.
func (s *Service) GetByID(ctx context.Context, tenantID, warehouseID id.ID) (*Warehouse, error) {
	return s.repo.GetByID(ctx, tenantID, warehouseID)
}

// List returns all warehouses of a tenant.
func (s *Service) List(ctx context.Context, tenantID id.ID) ([]Warehouse, error) {
	return s.repo.List(ctx, tenantID)
}

// DefaultWarehouseID implements stock.DefaultWarehouseLookup.
// The designation lives on the tenant record; the engine never writes it.
func (s *Service) DefaultWarehouseID(ctx context.Context, tenantID id.ID) (*id.ID, error) {
	// fast path: tenant already resolved by middleware
	if t := tenant.GetTenant(ctx); t != nil && t.ID == tenantID {
		return t.DefaultWarehouseID, nil
	}

	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
	return t.DefaultWarehouseID, nil
}

var _ stock.DefaultWarehouseLookup = (*Service)(nil)
