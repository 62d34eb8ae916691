package payment

import (
	"context"
	"encoding/json"
	"errors"

	"ordina/internal/core/apperror"
	"ordina/internal/core/audit"
	"ordina/internal/core/id"
	"ordina/internal/domain/numbering"
	"ordina/pkg/logger"
)

// Service provides business operations for supplier payments.
type Service struct {
	repo      Repository
	allocator *numbering.Allocator
	auditor   audit.Recorder
}

// NewService creates a payment service. auditor may be nil.
func NewService(repo Repository, allocator *numbering.Allocator, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		allocator: allocator,
		auditor:   auditor,
	}
}

// Create persists a payment with a unique document number.
//
// When no number is supplied, allocation and persistence are a single
// operation: the allocator retries the insert itself on collisions, so a
// returned payment always holds the number it was stored under. On
// ALLOCATION_EXHAUSTED the document is not created and the caller must
// surface a retryable error.
func (s *Service) Create(ctx context.Context, p *Payment) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if p.Number != "" {
		return s.createWithManualNumber(ctx, p)
	}

	number, err := s.allocator.AllocateUnique(ctx, p.TenantID, numbering.SeriesPayment,
		func(ctx context.Context, candidate string) error {
			p.Number = candidate
			return s.repo.Create(ctx, p)
		})
	if err != nil {
		p.Number = ""
		return err
	}

	s.auditCreate(ctx, p)
	logger.Info(ctx, "payment created", "id", p.ID, "number", number)
	return nil
}

// createWithManualNumber handles externally supplied numbers (manual
// entry, imports). The number must match the series pattern; uniqueness
// is left to the index, so a duplicate becomes a 409 instead of a retry.
func (s *Service) createWithManualNumber(ctx context.Context, p *Payment) error {
	if err := s.allocator.ValidateManual(ctx, p.TenantID, numbering.SeriesPayment, p.Number); err != nil {
		return err
	}

	err := s.repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, numbering.ErrDuplicateNumber) {
			return apperror.NewDuplicate("payment", "number", p.Number).WithCause(err)
		}
		return err
	}

	s.auditCreate(ctx, p)
	logger.Info(ctx, "payment created with manual number", "id", p.ID, "number", p.Number)
	return nil
}

// GetByID retrieves a payment.
func (s *Service) GetByID(ctx context.Context, tenantID, paymentID id.ID) (*Payment, error) {
	return s.repo.GetByID(ctx, tenantID, paymentID)
}

// List retrieves payments with filtering.
func (s *Service) List(ctx context.Context, tenantID id.ID, filter ListFilter) ([]Payment, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, tenantID, filter)
}

func (s *Service) auditCreate(ctx context.Context, p *Payment) {
	changes, err := json.Marshal(p)
	if err != nil {
		return
	}
	entry := audit.Entry{
		TenantID:   p.TenantID,
		EntityType: "payment",
		EntityID:   p.ID,
		Action:     audit.ActionAllocate,
		Changes:    changes,
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit record failed", "error", err)
	}
}
