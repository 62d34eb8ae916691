// Package stock_return provides the purchase return document
// (goods sent back to a supplier). Returns deplete stock, so every line
// passes the availability guard before its OUT movement is recorded.
package stock_return

import (
	"context"
	"time"

	"ordina/internal/core/apperror"
	"ordina/internal/core/entity"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
)

// StockReturn records goods returned to a supplier.
type StockReturn struct {
	entity.Document

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// WarehouseID the goods leave from; nil targets the tenant's
	// default warehouse.
	WarehouseID *id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`

	// Reason for the return (damaged, wrong item, overstock)
	Reason string `db:"reason" json:"reason,omitempty"`

	Lines []ReturnLine `db:"-" json:"lines"`
}

// ReturnLine is one returned product.
type ReturnLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	Notes     string         `db:"notes" json:"notes,omitempty"`
}

// NewStockReturn creates a return document.
func NewStockReturn(tenantID, supplierID id.ID, warehouseID *id.ID) *StockReturn {
	return &StockReturn{
		Document:    entity.NewDocument(tenantID),
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Lines:       make([]ReturnLine, 0),
	}
}

// AddLine appends a return line.
func (r *StockReturn) AddLine(productID id.ID, qty types.Quantity, notes string) {
	r.Lines = append(r.Lines, ReturnLine{
		LineID:    id.New(),
		LineNo:    len(r.Lines) + 1,
		ProductID: productID,
		Quantity:  qty,
		Notes:     notes,
	})
}

// OccurredAt is the business date used for ledger movements.
func (r *StockReturn) OccurredAt() time.Time {
	return r.Date
}

// Validate implements entity.Validatable.
func (r *StockReturn) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if len(r.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range r.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// ListFilter narrows return listings.
type ListFilter struct {
	SupplierID *id.ID
	Limit      int
	Offset     int
}

// Repository defines storage operations for stock returns.
type Repository interface {
	Create(ctx context.Context, r *StockReturn) error
	SaveLines(ctx context.Context, returnID id.ID, lines []ReturnLine) error
	GetByID(ctx context.Context, tenantID, returnID id.ID) (*StockReturn, error)
	GetLines(ctx context.Context, returnID id.ID) ([]ReturnLine, error)
	List(ctx context.Context, tenantID id.ID, filter ListFilter) ([]StockReturn, error)
}
