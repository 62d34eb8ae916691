package dto

import (
	"time"

	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/internal/domain/documents/stock_return"
)

// --- Request DTOs ---

// CreateStockReturnRequest represents a request to create a purchase return.
type CreateStockReturnRequest struct {
	Number      string              `json:"number,omitempty"`
	Date        time.Time           `json:"date" binding:"required"`
	SupplierID  string              `json:"supplierId" binding:"required"`
	WarehouseID *string             `json:"warehouseId,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	Comment     string              `json:"comment,omitempty"`
	Lines       []ReturnLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReturnLineRequest represents a line in a create request.
type ReturnLineRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	Notes     string         `json:"notes,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateStockReturnRequest) ToEntity(tenantID id.ID) *stock_return.StockReturn {
	supplierID, _ := id.Parse(r.SupplierID)
	warehouseID := parseOptionalID(r.WarehouseID)

	doc := stock_return.NewStockReturn(tenantID, supplierID, warehouseID)
	doc.Number = r.Number
	doc.Date = r.Date
	doc.Reason = r.Reason
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		doc.AddLine(productID, line.Quantity, line.Notes)
	}

	return doc
}

// --- Response DTOs ---

// StockReturnResponse represents a purchase return in API responses.
type StockReturnResponse struct {
	ID          string               `json:"id"`
	Number      string               `json:"number"`
	Date        time.Time            `json:"date"`
	SupplierID  string               `json:"supplierId"`
	WarehouseID *string              `json:"warehouseId,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	Comment     string               `json:"comment,omitempty"`
	Voided      bool                 `json:"voided,omitempty"`
	Lines       []ReturnLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ReturnLineResponse represents a line in API responses.
type ReturnLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ProductID string         `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	Notes     string         `json:"notes,omitempty"`
}

// FromStockReturn converts domain entity to response DTO.
func FromStockReturn(doc *stock_return.StockReturn) *StockReturnResponse {
	resp := &StockReturnResponse{
		ID:          doc.ID.String(),
		Number:      doc.Number,
		Date:        doc.Date,
		SupplierID:  doc.SupplierID.String(),
		WarehouseID: optionalIDString(doc.WarehouseID),
		Reason:      doc.Reason,
		Comment:     doc.Comment,
		Voided:      doc.Voided,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}

	resp.Lines = make([]ReturnLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = ReturnLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			Notes:     line.Notes,
		}
	}

	return resp
}

// StockReturnListResponse represents a page of returns.
type StockReturnListResponse struct {
	Items  []*StockReturnResponse `json:"items"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

func parseOptionalID(s *string) *id.ID {
	if s == nil || *s == "" {
		return nil
	}
	parsed, err := id.Parse(*s)
	if err != nil {
		return nil
	}
	return &parsed
}

func optionalIDString(i *id.ID) *string {
	if i == nil {
		return nil
	}
	s := i.String()
	return &s
}
