// Package payment provides the supplier payment document.
// Payment numbering runs through the collision-resolving allocator:
// manually entered numbers and imports make this the highest-contention
// series in the system.
package payment

import (
	"context"

	"ordina/internal/core/apperror"
	"ordina/internal/core/entity"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/internal/domain/numbering"
)

// Payment records money paid to a supplier.
type Payment struct {
	entity.Document

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	Amount   types.Money `db:"amount" json:"amount"`
	Currency string      `db:"currency" json:"currency"`

	// Method is the payment instrument (transfer, cash, cheque)
	Method string `db:"method" json:"method,omitempty"`

	// Reference is the bank/cheque reference
	Reference string `db:"reference" json:"reference,omitempty"`
}

// NewPayment creates a payment document.
func NewPayment(tenantID, supplierID id.ID, amount types.Money, currency string) *Payment {
	return &Payment{
		Document:   entity.NewDocument(tenantID),
		SupplierID: supplierID,
		Amount:     amount,
		Currency:   currency,
	}
}

// Validate implements entity.Validatable.
func (p *Payment) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if !p.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}

	if len(p.Currency) != 3 {
		return apperror.NewValidation("currency must be a 3-letter code").
			WithDetail("field", "currency")
	}

	return nil
}

// ListFilter narrows payment listings.
type ListFilter struct {
	SupplierID *id.ID
	Limit      int
	Offset     int
}

// Repository defines storage operations for payments.
// Create must return numbering.ErrDuplicateNumber (wrapped is fine) when
// the (tenant_id, number) unique index rejects the insert.
type Repository interface {
	numbering.NumberIndex

	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, tenantID, paymentID id.ID) (*Payment, error)
	List(ctx context.Context, tenantID id.ID, filter ListFilter) ([]Payment, error)
}
