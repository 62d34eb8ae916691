// Package goods_receipt provides the goods receipt document
// (incoming stock from a supplier). Receipts only add stock, so no
// availability guard is involved.
package goods_receipt

import (
	"context"
	"time"

	"ordina/internal/core/apperror"
	"ordina/internal/core/entity"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
)

// GoodsReceipt records incoming goods.
type GoodsReceipt struct {
	entity.Document

	SupplierID  id.ID  `db:"supplier_id" json:"supplierId"`
	WarehouseID *id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`

	Lines []ReceiptLine `db:"-" json:"lines"`
}

// ReceiptLine is one received product.
type ReceiptLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	Notes     string         `db:"notes" json:"notes,omitempty"`
}

// NewGoodsReceipt creates a receipt document.
func NewGoodsReceipt(tenantID, supplierID id.ID, warehouseID *id.ID) *GoodsReceipt {
	return &GoodsReceipt{
		Document:    entity.NewDocument(tenantID),
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Lines:       make([]ReceiptLine, 0),
	}
}

// AddLine appends a receipt line.
func (g *GoodsReceipt) AddLine(productID id.ID, qty types.Quantity, notes string) {
	g.Lines = append(g.Lines, ReceiptLine{
		LineID:    id.New(),
		LineNo:    len(g.Lines) + 1,
		ProductID: productID,
		Quantity:  qty,
		Notes:     notes,
	})
}

// OccurredAt is the business date used for ledger movements.
func (g *GoodsReceipt) OccurredAt() time.Time {
	return g.Date
}

// Validate implements entity.Validatable.
func (g *GoodsReceipt) Validate(ctx context.Context) error {
	if err := g.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(g.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if len(g.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range g.Lines {
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

// Repository defines storage operations for goods receipts.
type Repository interface {
	Create(ctx context.Context, g *GoodsReceipt) error
	SaveLines(ctx context.Context, receiptID id.ID, lines []ReceiptLine) error
	GetByID(ctx context.Context, tenantID, receiptID id.ID) (*GoodsReceipt, error)
	GetLines(ctx context.Context, receiptID id.ID) ([]ReceiptLine, error)
	List(ctx context.Context, tenantID id.ID, limit, offset int) ([]GoodsReceipt, error)
}
