package stock

import (
	"context"
	"time"

	"ordina/internal/core/id"
	"ordina/internal/core/types"
)

// BalanceQuery scopes a balance computation.
type BalanceQuery struct {
	TenantID  id.ID
	ProductID id.ID

	// WarehouseID narrows the balance to one warehouse when set.
	WarehouseID *id.ID

	// IncludeUnscoped also counts movements recorded without a warehouse.
	// Set only when WarehouseID is the tenant's configured default
	// (legacy data compatibility rule).
	IncludeUnscoped bool
}

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	WarehouseID *id.ID
	Type        *MovementType
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// Repository defines storage operations for the ledger.
// Append-only: no update or delete is exposed.
type Repository interface {
	// CreateMovements batch inserts ledger entries.
	CreateMovements(ctx context.Context, movements []Movement) error

	// SumBalance aggregates sum(IN) - sum(OUT) + sum(ADJUST) over
	// matching movements. Returns 0 on empty result, never errors on it.
	SumBalance(ctx context.Context, q BalanceQuery) (types.Quantity, error)

	// GetMovementsBySource returns all movements recorded by a document.
	GetMovementsBySource(ctx context.Context, tenantID id.ID, sourceKind SourceKind, sourceID id.ID) ([]Movement, error)

	// GetMovementHistory returns movement history for a product,
	// newest first.
	GetMovementHistory(ctx context.Context, tenantID, productID id.ID, filter MovementFilter) ([]Movement, error)
}

// ProductInfo is what the guard needs to know about a product.
type ProductInfo struct {
	ID    id.ID
	Label string

	// TrackStock is false for service items; the guard skips those.
	TrackStock bool
}

// ProductLookup resolves products. Backed by the product catalog.
type ProductLookup interface {
	GetProductInfo(ctx context.Context, tenantID, productID id.ID) (ProductInfo, error)
}

// DefaultWarehouseLookup resolves the tenant's configured default
// warehouse, or nil when none is designated.
type DefaultWarehouseLookup interface {
	DefaultWarehouseID(ctx context.Context, tenantID id.ID) (*id.ID, error)
}
