package dto

import (
	"time"

	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/internal/domain/documents/payment"
)

// --- Request DTOs ---

// CreatePaymentRequest represents a request to create a supplier payment.
// Number is optional: empty means a number is allocated automatically.
type CreatePaymentRequest struct {
	Number     string      `json:"number,omitempty"`
	Date       time.Time   `json:"date" binding:"required"`
	SupplierID string      `json:"supplierId" binding:"required"`
	Amount     types.Money `json:"amount"`
	Currency   string      `json:"currency" binding:"required,len=3"`
	Method     string      `json:"method,omitempty"`
	Reference  string      `json:"reference,omitempty"`
	Comment    string      `json:"comment,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreatePaymentRequest) ToEntity(tenantID id.ID) *payment.Payment {
	supplierID, _ := id.Parse(r.SupplierID)

	p := payment.NewPayment(tenantID, supplierID, r.Amount, r.Currency)
	p.Number = r.Number
	p.Date = r.Date
	p.Method = r.Method
	p.Reference = r.Reference
	p.Comment = r.Comment

	return p
}

// --- Response DTOs ---

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID         string      `json:"id"`
	Number     string      `json:"number"`
	Date       time.Time   `json:"date"`
	SupplierID string      `json:"supplierId"`
	Amount     types.Money `json:"amount"`
	Currency   string      `json:"currency"`
	Method     string      `json:"method,omitempty"`
	Reference  string      `json:"reference,omitempty"`
	Comment    string      `json:"comment,omitempty"`
	Voided     bool        `json:"voided,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// FromPayment converts domain entity to response DTO.
func FromPayment(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:         p.ID.String(),
		Number:     p.Number,
		Date:       p.Date,
		SupplierID: p.SupplierID.String(),
		Amount:     p.Amount,
		Currency:   p.Currency,
		Method:     p.Method,
		Reference:  p.Reference,
		Comment:    p.Comment,
		Voided:     p.Voided,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// PaymentListResponse represents a page of payments.
type PaymentListResponse struct {
	Items  []*PaymentResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
