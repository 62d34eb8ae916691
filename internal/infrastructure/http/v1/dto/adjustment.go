package dto

import (
	"time"

	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/internal/domain/documents/adjustment"
)

// --- Request DTOs ---

// CreateAdjustmentRequest represents a request to create an inventory
// adjustment. Line deltas are signed: positive surplus, negative shortage.
type CreateAdjustmentRequest struct {
	Number      string                  `json:"number,omitempty"`
	Date        time.Time               `json:"date" binding:"required"`
	WarehouseID *string                 `json:"warehouseId,omitempty"`
	Comment     string                  `json:"comment,omitempty"`
	Lines       []AdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// AdjustmentLineRequest represents a line in a create request.
type AdjustmentLineRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Delta     types.Quantity `json:"delta" binding:"required"`
	Notes     string         `json:"notes,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateAdjustmentRequest) ToEntity(tenantID id.ID) *adjustment.Adjustment {
	warehouseID := parseOptionalID(r.WarehouseID)

	doc := adjustment.NewAdjustment(tenantID, warehouseID)
	doc.Number = r.Number
	doc.Date = r.Date
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		doc.AddLine(productID, line.Delta, line.Notes)
	}

	return doc
}

// --- Response DTOs ---

// AdjustmentResponse represents an adjustment in API responses.
type AdjustmentResponse struct {
	ID          string                   `json:"id"`
	Number      string                   `json:"number"`
	Date        time.Time                `json:"date"`
	WarehouseID *string                  `json:"warehouseId,omitempty"`
	Comment     string                   `json:"comment,omitempty"`
	Voided      bool                     `json:"voided,omitempty"`
	Lines       []AdjustmentLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// AdjustmentLineResponse represents a line in API responses.
type AdjustmentLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ProductID string         `json:"productId"`
	Delta     types.Quantity `json:"delta"`
	Notes     string         `json:"notes,omitempty"`
}

// FromAdjustment converts domain entity to response DTO.
func FromAdjustment(doc *adjustment.Adjustment) *AdjustmentResponse {
	resp := &AdjustmentResponse{
		ID:          doc.ID.String(),
		Number:      doc.Number,
		Date:        doc.Date,
		WarehouseID: optionalIDString(doc.WarehouseID),
		Comment:     doc.Comment,
		Voided:      doc.Voided,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}

	resp.Lines = make([]AdjustmentLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = AdjustmentLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			Delta:     line.Delta,
			Notes:     line.Notes,
		}
	}

	return resp
}

// AdjustmentListResponse represents a page of adjustments.
type AdjustmentListResponse struct {
	Items  []*AdjustmentResponse `json:"items"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}
