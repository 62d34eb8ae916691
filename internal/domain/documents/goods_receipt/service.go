package goods_receipt

import (
	"context"
	"fmt"

	"ordina/internal/core/id"
	"ordina/internal/core/tx"
	"ordina/internal/domain/numbering"
	"ordina/internal/domain/stock"
	"ordina/pkg/logger"
)

// Service provides business operations for goods receipts.
type Service struct {
	repo      Repository
	numbering *numbering.Service
	stock     *stock.Service
	txManager tx.Manager
}

// NewService creates a goods receipt service.
func NewService(repo Repository, num *numbering.Service, stockSvc *stock.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numbering: num,
		stock:     stockSvc,
		txManager: txManager,
	}
}

// Create persists a receipt and its IN movements atomically.
func (s *Service) Create(ctx context.Context, g *GoodsReceipt) error {
	if err := g.Validate(ctx); err != nil {
		return err
	}

	if g.Number == "" {
		number, err := s.numbering.Next(ctx, g.TenantID, numbering.SeriesReceipt)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		g.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, g); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, g.ID, g.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		movements := make([]stock.Movement, 0, len(g.Lines))
		for _, line := range g.Lines {
			mv := stock.NewMovement(
				g.TenantID, line.ProductID, g.WarehouseID,
				stock.MovementIn, line.Quantity, g.OccurredAt(),
				stock.SourceGoodsReceipt, g.ID,
			)
			mv.Notes = line.Notes
			movements = append(movements, mv)
		}
		return s.stock.Record(ctx, movements)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "goods receipt created",
		"id", g.ID,
		"number", g.Number,
		"lines", len(g.Lines),
	)
	return nil
}

// GetByID retrieves a receipt with lines.
func (s *Service) GetByID(ctx context.Context, tenantID, receiptID id.ID) (*GoodsReceipt, error) {
	doc, err := s.repo.GetByID(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves receipts.
func (s *Service) List(ctx context.Context, tenantID id.ID, limit, offset int) ([]GoodsReceipt, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, tenantID, limit, offset)
}
