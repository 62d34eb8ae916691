// Package numbering_repo provides PostgreSQL implementations for the
// numbering stores: the per-series counter and the template catalog.
package numbering_repo

import (
	"context"
	"fmt"

	"ordina/internal/core/id"
	"ordina/internal/domain/numbering"
	"ordina/internal/infrastructure/storage/postgres"
)

const countersTable = "sys_series_counters"

// Compile-time check.
var _ numbering.CounterStore = (*CounterRepo)(nil)

// CounterRepo implements numbering.CounterStore on a counter row per
// (tenant, series). Reservation is one atomic UPSERT: concurrent callers
// serialize on the row and each RETURNING yields a distinct value, so no
// two reservations ever observe the same number.
type CounterRepo struct {
	txManager *postgres.TxManager
}

// NewCounterRepo creates a counter repository.
func NewCounterRepo(txManager *postgres.TxManager) *CounterRepo {
	return &CounterRepo{txManager: txManager}
}

// ReserveNext atomically increments and returns the series counter.
// A missing row is seeded at startingValue, so the first reservation of
// a configured series returns startingValue+1.
func (r *CounterRepo) ReserveNext(ctx context.Context, tenantID id.ID, seriesCode string, startingValue int64) (int64, error) {
	querier := r.txManager.GetQuerier(ctx)

	var val int64
	err := querier.QueryRow(ctx, `
        INSERT INTO `+countersTable+` (tenant_id, series_code, current_val)
        VALUES ($1, $2, $3 + 1)
        ON CONFLICT (tenant_id, series_code)
        DO UPDATE SET current_val = `+countersTable+`.current_val + 1
        RETURNING current_val
	`, tenantID, seriesCode, startingValue).Scan(&val)
	if err != nil {
		return 0, fmt.Errorf("reserve next for %s: %w", seriesCode, postgres.MapError(err))
	}

	return val, nil
}
