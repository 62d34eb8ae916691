// Package adjustment provides the inventory adjustment document:
// signed corrections from a physical count, recorded as ADJUST movements.
package adjustment

import (
	"context"
	"time"

	"ordina/internal/core/apperror"
	"ordina/internal/core/entity"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
)

// Adjustment records inventory count corrections.
type Adjustment struct {
	entity.Document

	WarehouseID *id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`

	Lines []AdjustmentLine `db:"-" json:"lines"`
}

// AdjustmentLine is a signed correction for one product.
type AdjustmentLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// Delta is signed: positive for surplus, negative for shortage.
	Delta types.Quantity `db:"delta" json:"delta"`
	Notes string         `db:"notes" json:"notes,omitempty"`
}

// NewAdjustment creates an adjustment document.
func NewAdjustment(tenantID id.ID, warehouseID *id.ID) *Adjustment {
	return &Adjustment{
		Document:    entity.NewDocument(tenantID),
		WarehouseID: warehouseID,
		Lines:       make([]AdjustmentLine, 0),
	}
}

// AddLine appends a correction line.
func (a *Adjustment) AddLine(productID id.ID, delta types.Quantity, notes string) {
	a.Lines = append(a.Lines, AdjustmentLine{
		LineID:    id.New(),
		LineNo:    len(a.Lines) + 1,
		ProductID: productID,
		Delta:     delta,
		Notes:     notes,
	})
}

// OccurredAt is the business date used for ledger movements.
func (a *Adjustment) OccurredAt() time.Time {
	return a.Date
}

// Validate implements entity.Validatable.
func (a *Adjustment) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}

	if len(a.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range a.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Delta.IsZero() {
			return apperror.NewValidation("delta must be non-zero").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// Repository defines storage operations for adjustments.
type Repository interface {
	Create(ctx context.Context, a *Adjustment) error
	SaveLines(ctx context.Context, adjustmentID id.ID, lines []AdjustmentLine) error
	GetByID(ctx context.Context, tenantID, adjustmentID id.ID) (*Adjustment, error)
	GetLines(ctx context.Context, adjustmentID id.ID) ([]AdjustmentLine, error)
	List(ctx context.Context, tenantID id.ID, limit, offset int) ([]Adjustment, error)
}
