// Package audit defines the audit trail contract.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"ordina/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate   Action = "create"
	ActionAllocate Action = "allocate"
	ActionMovement Action = "movement"
	ActionAdjust   Action = "adjust"
)

// Entry represents a single audit log entry.
type Entry struct {
	ID         id.ID           `db:"id"`
	TenantID   id.ID           `db:"tenant_id"`
	EntityType string          `db:"entity_type"`
	EntityID   id.ID           `db:"entity_id"`
	Action     Action          `db:"action"`
	UserID     string          `db:"user_id"`
	Changes    json.RawMessage `db:"changes"`
	CreatedAt  time.Time       `db:"created_at"`
}

// Recorder writes audit entries. Implementations must not fail the
// business operation: callers log and continue on error.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Nop is a Recorder that discards entries. Used in tests and when the
// audit trail is disabled by configuration.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(ctx context.Context, entry Entry) error { return nil }
