package entity

import (
	"context"
	"time"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
)

// Document is the base type for business documents
// (payments, returns, receipts, adjustments).
type Document struct {
	BaseEntity

	// TenantID is the owning tenant; every document table carries it and
	// a compound unique index (tenant_id, number) guards number uniqueness.
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	// Number is the human-readable document number. Assigned once at
	// creation time, immutable thereafter, never reassigned even if the
	// document is later voided.
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Voided documents keep their number and movements history
	Voided bool `db:"voided" json:"voided"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(tenantID id.ID) Document {
	return Document{
		BaseEntity: NewBaseEntity(),
		TenantID:   tenantID,
		Date:       time.Now().UTC(),
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.TenantID) {
		return apperror.NewValidation("tenant is required").
			WithDetail("field", "tenantId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}
