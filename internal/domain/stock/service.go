package stock

import (
	"context"
	"encoding/json"
	"fmt"

	"ordina/internal/core/apperror"
	"ordina/internal/core/audit"
	appctx "ordina/internal/core/context"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/pkg/logger"
)

// Service provides the ledger operations: append movements, compute
// balances and guard stock-depleting operations.
//
// The balance is always recomputed by full aggregation over the ledger;
// the ledger is the single source of truth and there is no cached
// projection to invalidate.
type Service struct {
	repo       Repository
	products   ProductLookup
	warehouses DefaultWarehouseLookup
	auditor    audit.Recorder
}

// NewService creates a stock service. auditor may be nil.
func NewService(repo Repository, products ProductLookup, warehouses DefaultWarehouseLookup, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{
		repo:       repo,
		products:   products,
		warehouses: warehouses,
		auditor:    auditor,
	}
}

// Record appends movements to the ledger. Movements are validated but
// never checked against the balance here: the availability guard runs
// before OUT movements are constructed, as part of the owning workflow.
//
// A write failure after a passed guard is wrapped as MOVEMENT_WRITE_FAILURE
// and is not retried: re-issuing a stock mutation risks double-counting.
func (s *Service) Record(ctx context.Context, movements []Movement) error {
	if len(movements) == 0 {
		return nil
	}

	for i := range movements {
		if err := movements[i].Validate(ctx); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("movement", i)
			}
			return err
		}
		if movements[i].CreatedBy == "" {
			movements[i].CreatedBy = appctx.GetUserID(ctx)
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		logger.Error(ctx, "ledger append failed",
			"count", len(movements),
			"source_id", movements[0].SourceID,
			"error", err,
		)
		return apperror.NewMovementWriteFailure(err)
	}

	s.auditMovements(ctx, movements)

	logger.Info(ctx, "recorded stock movements",
		"count", len(movements),
		"source_kind", movements[0].SourceKind,
		"source_id", movements[0].SourceID,
	)
	return nil
}

// BalanceOf computes the current on-hand quantity for a product.
//
// When warehouseID is the tenant's configured default warehouse, movements
// recorded without a warehouse are included (legacy movements attach to
// the default). Any other warehouse matches exactly. A nil warehouseID
// aggregates over all movements of the product.
func (s *Service) BalanceOf(ctx context.Context, tenantID, productID id.ID, warehouseID *id.ID) (types.Quantity, error) {
	q := BalanceQuery{
		TenantID:    tenantID,
		ProductID:   productID,
		WarehouseID: warehouseID,
	}

	if warehouseID != nil {
		defaultWH, err := s.warehouses.DefaultWarehouseID(ctx, tenantID)
		if err != nil {
			return 0, fmt.Errorf("resolve default warehouse: %w", err)
		}
		q.IncludeUnscoped = defaultWH != nil && *defaultWH == *warehouseID
	}

	balance, err := s.repo.SumBalance(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("aggregate balance: %w", err)
	}
	return balance, nil
}

// EnsureAvailable is the pre-flight check before any OUT movement.
// Skips products that are not stock-tracked (service items); otherwise
// fails with INSUFFICIENT_STOCK when requested exceeds the current balance.
//
// The check is a best-effort gate: no lock serializes it with the
// subsequent ledger write, and a concurrent depletion in that window is
// accepted as a rare, logged anomaly rather than re-validated post-write.
func (s *Service) EnsureAvailable(ctx context.Context, tenantID, productID id.ID, warehouseID *id.ID, requested types.Quantity) error {
	if !requested.IsPositive() {
		return apperror.NewValidation("requested quantity must be positive").
			WithDetail("field", "quantity")
	}

	product, err := s.products.GetProductInfo(ctx, tenantID, productID)
	if err != nil {
		return fmt.Errorf("lookup product %s: %w", productID, err)
	}
	if !product.TrackStock {
		return nil
	}

	available, err := s.BalanceOf(ctx, tenantID, productID, warehouseID)
	if err != nil {
		return err
	}

	if requested > available {
		logger.Info(ctx, "availability guard rejected operation",
			"product_id", productID,
			"requested", requested.Float64(),
			"available", available.Float64(),
		)
		return apperror.NewInsufficientStock(product.Label, requested.Float64(), available.Float64())
	}

	return nil
}

// MovementsBySource returns the ledger entries a document produced.
func (s *Service) MovementsBySource(ctx context.Context, tenantID id.ID, kind SourceKind, sourceID id.ID) ([]Movement, error) {
	return s.repo.GetMovementsBySource(ctx, tenantID, kind, sourceID)
}

// History returns movement history for a product, newest first.
func (s *Service) History(ctx context.Context, tenantID, productID id.ID, filter MovementFilter) ([]Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.GetMovementHistory(ctx, tenantID, productID, filter)
}

func (s *Service) auditMovements(ctx context.Context, movements []Movement) {
	changes, err := json.Marshal(movements)
	if err != nil {
		return
	}
	entry := audit.Entry{
		TenantID:   movements[0].TenantID,
		EntityType: "stock_movement",
		EntityID:   movements[0].SourceID,
		Action:     audit.ActionMovement,
		Changes:    changes,
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		// the audit trail must not fail the business operation
		logger.Warn(ctx, "audit record failed", "error", err)
	}
}
