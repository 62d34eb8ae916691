// Package product provides the product catalog consumed by the stock engine.
// CRUD screens for products live elsewhere; the engine only reads.
package product

import (
	"context"

	"ordina/internal/core/entity"
	"ordina/internal/core/id"
)

// Product is a catalog item.
type Product struct {
	entity.BaseEntity

	TenantID id.ID  `db:"tenant_id" json:"tenantId"`
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	Unit     string `db:"unit" json:"unit,omitempty"`

	// TrackStock is false for service items; the availability guard
	// skips those entirely.
	TrackStock bool `db:"track_stock" json:"trackStock"`
}

// Repository provides read access to products.
type Repository interface {
	GetByID(ctx context.Context, tenantID, productID id.ID) (*Product, error)
	GetByCode(ctx context.Context, tenantID id.ID, code string) (*Product, error)
	List(ctx context.Context, tenantID id.ID, limit, offset int) ([]Product, error)
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	return nil
}
