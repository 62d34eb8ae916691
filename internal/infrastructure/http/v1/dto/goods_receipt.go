package dto

import (
	"time"

	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/internal/domain/documents/goods_receipt"
)

// --- Request DTOs ---

// CreateGoodsReceiptRequest represents a request to create a goods receipt.
type CreateGoodsReceiptRequest struct {
	Number      string               `json:"number,omitempty"`
	Date        time.Time            `json:"date" binding:"required"`
	SupplierID  string               `json:"supplierId" binding:"required"`
	WarehouseID *string              `json:"warehouseId,omitempty"`
	Comment     string               `json:"comment,omitempty"`
	Lines       []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReceiptLineRequest represents a line in a create request.
type ReceiptLineRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	Notes     string         `json:"notes,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateGoodsReceiptRequest) ToEntity(tenantID id.ID) *goods_receipt.GoodsReceipt {
	supplierID, _ := id.Parse(r.SupplierID)
	warehouseID := parseOptionalID(r.WarehouseID)

	doc := goods_receipt.NewGoodsReceipt(tenantID, supplierID, warehouseID)
	doc.Number = r.Number
	doc.Date = r.Date
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		doc.AddLine(productID, line.Quantity, line.Notes)
	}

	return doc
}

// --- Response DTOs ---

// GoodsReceiptResponse represents a goods receipt in API responses.
type GoodsReceiptResponse struct {
	ID          string                `json:"id"`
	Number      string                `json:"number"`
	Date        time.Time             `json:"date"`
	SupplierID  string                `json:"supplierId"`
	WarehouseID *string               `json:"warehouseId,omitempty"`
	Comment     string                `json:"comment,omitempty"`
	Voided      bool                  `json:"voided,omitempty"`
	Lines       []ReceiptLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// ReceiptLineResponse represents a line in API responses.
type ReceiptLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ProductID string         `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	Notes     string         `json:"notes,omitempty"`
}

// FromGoodsReceipt converts domain entity to response DTO.
func FromGoodsReceipt(doc *goods_receipt.GoodsReceipt) *GoodsReceiptResponse {
	resp := &GoodsReceiptResponse{
		ID:          doc.ID.String(),
		Number:      doc.Number,
		Date:        doc.Date,
		SupplierID:  doc.SupplierID.String(),
		WarehouseID: optionalIDString(doc.WarehouseID),
		Comment:     doc.Comment,
		Voided:      doc.Voided,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}

	resp.Lines = make([]ReceiptLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = ReceiptLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			Notes:     line.Notes,
		}
	}

	return resp
}

// GoodsReceiptListResponse represents a page of receipts.
type GoodsReceiptListResponse struct {
	Items  []*GoodsReceiptResponse `json:"items"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}
