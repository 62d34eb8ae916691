package numbering

import (
	"context"
	"errors"

	"ordina/internal/core/id"
)

// ErrDuplicateNumber is returned by persist callbacks and document
// repositories when the storage-level uniqueness constraint on
// (tenant_id, number) rejects a write. The allocator treats it exactly
// like a failed existence check.
var ErrDuplicateNumber = errors.New("document number already exists")

// SeriesTemplate is a tenant's numbering configuration for one series.
type SeriesTemplate struct {
	TenantID   id.ID  `db:"tenant_id" json:"tenantId"`
	SeriesCode string `db:"series_code" json:"seriesCode"`
	Pattern    string `db:"pattern" json:"pattern"`

	// StartingValue is the configured counter floor; the first number
	// issued for the series renders StartingValue+1.
	StartingValue int64 `db:"starting_value" json:"startingValue"`
}

// TemplateStore provides read-only access to tenant numbering templates.
type TemplateStore interface {
	// GetTemplate returns the template for (tenant, series) or a
	// not-found app error when none is configured.
	GetTemplate(ctx context.Context, tenantID id.ID, seriesCode string) (*SeriesTemplate, error)
}

// CounterStore persists per-tenant-per-series counters.
type CounterStore interface {
	// ReserveNext atomically increments and returns the counter for
	// (tenant, series), seeding it at startingValue when uninitialized.
	// The returned value is never reissued for the same pair.
	// Transient storage failures surface as RETRYABLE_STORAGE app errors.
	ReserveNext(ctx context.Context, tenantID id.ID, seriesCode string, startingValue int64) (int64, error)
}

// NumberIndex exposes the existing numbers of one document collection.
// Each document repository implements it for its own table; the allocator
// only ever sees numbers from the collection it allocates for.
type NumberIndex interface {
	// RecentNumbers returns up to limit numbers ordered by creation
	// time descending (newest first).
	RecentNumbers(ctx context.Context, tenantID id.ID, limit int) ([]string, error)

	// NumberExists reports whether a document already holds number.
	NumberExists(ctx context.Context, tenantID id.ID, number string) (bool, error)

	// HighestWithPrefix returns the single highest existing number with
	// the given prefix, or "" when none exists. A string-descending sort
	// is sufficient because numeric suffixes are zero-padded to equal
	// width within a series.
	HighestWithPrefix(ctx context.Context, tenantID id.ID, prefix string) (string, error)
}
