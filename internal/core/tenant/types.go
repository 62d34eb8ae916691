// Package tenant provides the tenant model and request-scoped tenant access.
// All numbering and stock state is partitioned by tenant; rows carry an
// explicit tenant_id column and every repository filters on it.
package tenant

import (
	"time"

	"ordina/internal/core/id"
)

// Status represents tenant lifecycle state.
type Status string

const (
	// StatusActive - tenant can accept requests
	StatusActive Status = "active"

	// StatusSuspended - tenant is temporarily disabled
	StatusSuspended Status = "suspended"
)

// Tenant represents an isolated customer organization.
type Tenant struct {
	ID          id.ID     `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Status      Status    `db:"status" json:"status"`

	// DefaultWarehouseID designates the warehouse that absorbs legacy
	// movements recorded without an explicit warehouse.
	DefaultWarehouseID *id.ID `db:"default_warehouse_id" json:"defaultWarehouseId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// IsActive returns true if tenant can accept requests.
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}
