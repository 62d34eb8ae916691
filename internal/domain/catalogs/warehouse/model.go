// Package warehouse provides the warehouse catalog and the tenant
// default-warehouse rule used by the balance aggregator.
package warehouse

import (
	"context"

	"ordina/internal/core/entity"
	"ordina/internal/core/id"
)

// Warehouse is a storage location within a tenant.
type Warehouse struct {
	entity.BaseEntity

	TenantID id.ID  `db:"tenant_id" json:"tenantId"`
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	Address  string `db:"address" json:"address,omitempty"`
}

// Repository provides read access to warehouses.
type Repository interface {
	GetByID(ctx context.Context, tenantID, warehouseID id.ID) (*Warehouse, error)
	List(ctx context.Context, tenantID id.ID) ([]Warehouse, error)
}

// Validate implements entity.Validatable.
func (w *Warehouse) Validate(ctx context.Context) error {
	return nil
}
