// Package stock provides the stock movement ledger, the derived balance
// aggregator and the availability guard.
package stock

import (
	"context"
	"time"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
)

// MovementType is the direction of a ledger entry.
type MovementType string

const (
	// MovementIn increases balance (receipt)
	MovementIn MovementType = "IN"
	// MovementOut decreases balance (shipment, return to supplier)
	MovementOut MovementType = "OUT"
	// MovementAdjust carries a signed correction from an inventory count
	MovementAdjust MovementType = "ADJUST"
)

// SourceKind identifies the document type that originated a movement.
type SourceKind string

const (
	SourceGoodsReceipt SourceKind = "goods_receipt"
	SourceStockReturn  SourceKind = "stock_return"
	SourceAdjustment   SourceKind = "adjustment"
)

// Movement is one append-only ledger entry. Movements are immutable:
// corrections append an offsetting movement, never edit or delete.
type Movement struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// WarehouseID is optional; movements recorded without one attach to
	// the tenant's default warehouse for balance purposes.
	WarehouseID *id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`

	Type MovementType `db:"type" json:"type"`

	// Quantity is strictly positive for IN and OUT; ADJUST carries a
	// signed non-zero quantity that is added to the balance as stored.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// OccurredAt is the business date of the movement
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	SourceKind SourceKind `db:"source_kind" json:"sourceKind"`
	SourceID   id.ID      `db:"source_id" json:"sourceId"`

	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with generated ID and timestamp.
func NewMovement(tenantID, productID id.ID, warehouseID *id.ID, mt MovementType, qty types.Quantity, occurredAt time.Time, sourceKind SourceKind, sourceID id.ID) Movement {
	return Movement{
		ID:          id.New(),
		TenantID:    tenantID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Type:        mt,
		Quantity:    qty,
		OccurredAt:  occurredAt,
		SourceKind:  sourceKind,
		SourceID:    sourceID,
		CreatedAt:   time.Now().UTC(),
	}
}

// SignedQuantity returns the movement's contribution to the balance:
// balance = sum(IN) - sum(OUT) + sum(ADJUST).
func (m *Movement) SignedQuantity() types.Quantity {
	if m.Type == MovementOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// Validate implements entity.Validatable.
func (m *Movement) Validate(ctx context.Context) error {
	if id.IsNil(m.TenantID) {
		return apperror.NewValidation("tenant is required").WithDetail("field", "tenantId")
	}
	if id.IsNil(m.ProductID) {
		return apperror.NewValidation("product is required").WithDetail("field", "productId")
	}
	if id.IsNil(m.SourceID) || m.SourceKind == "" {
		return apperror.NewValidation("source document is required").WithDetail("field", "source")
	}
	if m.OccurredAt.IsZero() {
		return apperror.NewValidation("occurred_at is required").WithDetail("field", "occurredAt")
	}

	switch m.Type {
	case MovementIn, MovementOut:
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "quantity").
				WithDetail("type", string(m.Type))
		}
	case MovementAdjust:
		if m.Quantity.IsZero() {
			return apperror.NewValidation("adjustment quantity must be non-zero").
				WithDetail("field", "quantity")
		}
	default:
		return apperror.NewValidation("unknown movement type").
			WithDetail("type", string(m.Type))
	}

	return nil
}
