package stock_return

import (
	"context"
	"fmt"

	"ordina/internal/core/id"
	"ordina/internal/core/tx"
	"ordina/internal/core/types"
	"ordina/internal/domain/numbering"
	"ordina/internal/domain/stock"
	"ordina/pkg/logger"
)

// Service provides business operations for purchase returns.
type Service struct {
	repo      Repository
	numbering *numbering.Service
	stock     *stock.Service
	txManager tx.Manager
}

// NewService creates a stock return service.
func NewService(repo Repository, num *numbering.Service, stockSvc *stock.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numbering: num,
		stock:     stockSvc,
		txManager: txManager,
	}
}

// Create persists a return and its OUT movements all-or-nothing.
//
// Requested quantities are summed per product before the guard runs, so
// lines that individually fit but together exceed the balance are
// rejected; a single INSUFFICIENT_STOCK aborts the whole multi-line
// operation with no partial application. The guard and the ledger write
// share one transaction, which narrows (but does not close) the window
// for a concurrent depletion; a losing race is logged, not re-validated.
func (s *Service) Create(ctx context.Context, r *StockReturn) error {
	if err := r.Validate(ctx); err != nil {
		return err
	}

	if r.Number == "" {
		number, err := s.numbering.Next(ctx, r.TenantID, numbering.SeriesReturn)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		r.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		totals := make(map[id.ID]types.Quantity, len(r.Lines))
		order := make([]id.ID, 0, len(r.Lines))
		for _, line := range r.Lines {
			if _, seen := totals[line.ProductID]; !seen {
				order = append(order, line.ProductID)
			}
			totals[line.ProductID] += line.Quantity
		}
		for _, productID := range order {
			if err := s.stock.EnsureAvailable(ctx, r.TenantID, productID, r.WarehouseID, totals[productID]); err != nil {
				return err
			}
		}

		if err := s.repo.Create(ctx, r); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, r.ID, r.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		movements := make([]stock.Movement, 0, len(r.Lines))
		for _, line := range r.Lines {
			mv := stock.NewMovement(
				r.TenantID, line.ProductID, r.WarehouseID,
				stock.MovementOut, line.Quantity, r.OccurredAt(),
				stock.SourceStockReturn, r.ID,
			)
			mv.Notes = line.Notes
			movements = append(movements, mv)
		}
		return s.stock.Record(ctx, movements)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock return created",
		"id", r.ID,
		"number", r.Number,
		"lines", len(r.Lines),
	)
	return nil
}

// GetByID retrieves a return with lines.
func (s *Service) GetByID(ctx context.Context, tenantID, returnID id.ID) (*StockReturn, error) {
	doc, err := s.repo.GetByID(ctx, tenantID, returnID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, returnID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves returns with filtering.
func (s *Service) List(ctx context.Context, tenantID id.ID, filter ListFilter) ([]StockReturn, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, tenantID, filter)
}
