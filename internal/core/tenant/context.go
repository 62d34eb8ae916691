package tenant

import (
	"context"
	"errors"

	"ordina/internal/core/id"
)

type ctxKey int

const tenantKey ctxKey = iota

// ErrNoTenantInContext is returned when a request reaches tenant-scoped
// code without the tenant middleware having run.
var ErrNoTenantInContext = errors.New("tenant not found in context")

// WithTenant stores tenant info in context.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// GetTenant retrieves tenant from context, or nil.
func GetTenant(ctx context.Context) *Tenant {
	t, _ := ctx.Value(tenantKey).(*Tenant)
	return t
}

// MustGetTenant retrieves tenant from context or panics.
// Use where a missing tenant is a programming error (behind middleware).
func MustGetTenant(ctx context.Context) *Tenant {
	t := GetTenant(ctx)
	if t == nil {
		panic(ErrNoTenantInContext)
	}
	return t
}

// GetTenantID returns tenant ID or the nil UUID.
func GetTenantID(ctx context.Context) id.ID {
	if t := GetTenant(ctx); t != nil {
		return t.ID
	}
	return id.Nil()
}

// Repository provides read access to tenant records.
// The engine never writes tenant configuration.
type Repository interface {
	GetByID(ctx context.Context, tenantID id.ID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}
