package dto

import (
	"time"

	"ordina/internal/core/types"
	"ordina/internal/domain/stock"
)

// BalanceResponse is the current on-hand quantity for a product.
type BalanceResponse struct {
	ProductID   string         `json:"productId"`
	WarehouseID *string        `json:"warehouseId,omitempty"`
	Quantity    types.Quantity `json:"quantity"`
}

// AvailabilityResponse reports whether a requested quantity can be taken.
type AvailabilityResponse struct {
	ProductID string         `json:"productId"`
	Requested types.Quantity `json:"requested"`
	Available types.Quantity `json:"available"`
	// Sufficient is false when the request would overdraw the balance.
	Sufficient bool `json:"sufficient"`
}

// MovementResponse represents one ledger entry in API responses.
type MovementResponse struct {
	ID          string         `json:"id"`
	ProductID   string         `json:"productId"`
	WarehouseID *string        `json:"warehouseId,omitempty"`
	Type        string         `json:"type"`
	Quantity    types.Quantity `json:"quantity"`
	OccurredAt  time.Time      `json:"occurredAt"`
	SourceKind  string         `json:"sourceKind"`
	SourceID    string         `json:"sourceId"`
	Notes       string         `json:"notes,omitempty"`
	CreatedBy   string         `json:"createdBy,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// FromMovement converts a ledger entry to response DTO.
func FromMovement(m stock.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		WarehouseID: optionalIDString(m.WarehouseID),
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		OccurredAt:  m.OccurredAt,
		SourceKind:  string(m.SourceKind),
		SourceID:    m.SourceID.String(),
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// MovementListResponse represents a page of ledger entries.
type MovementListResponse struct {
	Items  []MovementResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// FromMovements converts a slice of ledger entries.
func FromMovements(movements []stock.Movement) []MovementResponse {
	items := make([]MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = FromMovement(m)
	}
	return items
}
