package adjustment

import (
	"context"
	"fmt"

	"ordina/internal/core/id"
	"ordina/internal/core/tx"
	"ordina/internal/domain/numbering"
	"ordina/internal/domain/stock"
	"ordina/pkg/logger"
)

// Service provides business operations for inventory adjustments.
type Service struct {
	repo      Repository
	numbering *numbering.Service
	stock     *stock.Service
	txManager tx.Manager
}

// NewService creates an adjustment service.
func NewService(repo Repository, num *numbering.Service, stockSvc *stock.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numbering: num,
		stock:     stockSvc,
		txManager: txManager,
	}
}

// Create persists an adjustment and its ADJUST movements atomically.
// Adjustments bypass the availability guard: a count correction states
// reality and may legitimately drive the balance down.
func (s *Service) Create(ctx context.Context, a *Adjustment) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}

	if a.Number == "" {
		number, err := s.numbering.Next(ctx, a.TenantID, numbering.SeriesAdjustment)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		a.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, a); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, a.ID, a.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		movements := make([]stock.Movement, 0, len(a.Lines))
		for _, line := range a.Lines {
			mv := stock.NewMovement(
				a.TenantID, line.ProductID, a.WarehouseID,
				stock.MovementAdjust, line.Delta, a.OccurredAt(),
				stock.SourceAdjustment, a.ID,
			)
			mv.Notes = line.Notes
			movements = append(movements, mv)
		}
		return s.stock.Record(ctx, movements)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "inventory adjustment created",
		"id", a.ID,
		"number", a.Number,
		"lines", len(a.Lines),
	)
	return nil
}

// GetByID retrieves an adjustment with lines.
func (s *Service) GetByID(ctx context.Context, tenantID, adjustmentID id.ID) (*Adjustment, error) {
	doc, err := s.repo.GetByID(ctx, tenantID, adjustmentID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves adjustments.
func (s *Service) List(ctx context.Context, tenantID id.ID, limit, offset int) ([]Adjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, tenantID, limit, offset)
}
