package numbering

import (
	"context"
	"fmt"
	"time"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/pkg/logger"
)

// Built-in default patterns per series, used when a tenant has no
// template configured. Keyed by series code.
var defaultPatterns = map[string]string{
	SeriesPayment:    "PAFO-{{YYYY}}-{{SEQ:5}}",
	SeriesReturn:     "DEV-{{YYYY}}-{{SEQ:5}}",
	SeriesReceipt:    "REC-{{YYYY}}-{{SEQ:5}}",
	SeriesAdjustment: "AJI-{{YYYY}}-{{SEQ:5}}",
}

// Well-known series codes.
const (
	SeriesPayment    = "payment"
	SeriesReturn     = "stock_return"
	SeriesAdjustment = "adjustment"
	SeriesReceipt    = "goods_receipt"
)

// DefaultPattern returns the built-in pattern for a series.
// Unknown series get a generic pattern derived from the code.
func DefaultPattern(seriesCode string) string {
	if p, ok := defaultPatterns[seriesCode]; ok {
		return p
	}
	return fmt.Sprintf("%s-{{YYYY}}-{{SEQ:5}}", seriesCode)
}

// Service produces the next document number for a tenant/series pair.
// This is the default path for series without heavy concurrent contention;
// strict uniqueness under contention needs the Allocator instead.
type Service struct {
	templates TemplateStore
	counters  CounterStore

	// now is swappable for tests
	now func() time.Time
}

// NewService creates a numbering service.
func NewService(templates TemplateStore, counters CounterStore) *Service {
	return &Service{
		templates: templates,
		counters:  counters,
		now:       time.Now,
	}
}

// Next reserves the next sequence value and renders the document number.
//
// The counter reservation is a single atomic read-modify-write at the
// storage layer; two concurrent callers can never receive the same value.
// Next does not check the rendered string against existing documents.
func (s *Service) Next(ctx context.Context, tenantID id.ID, seriesCode string) (string, error) {
	tpl, err := s.resolveTemplate(ctx, tenantID, seriesCode)
	if err != nil {
		return "", err
	}

	parsed, err := ParseTemplate(tpl.Pattern)
	if err != nil {
		return "", fmt.Errorf("series %s: %w", seriesCode, err)
	}

	seq, err := s.counters.ReserveNext(ctx, tenantID, seriesCode, tpl.StartingValue)
	if err != nil {
		return "", fmt.Errorf("reserve counter %s: %w", seriesCode, err)
	}

	at := s.now().UTC()
	return parsed.Render(at.Year(), int(at.Month()), seq), nil
}

// ValidateNumber checks an externally supplied number against the
// effective pattern for the series. Uniqueness is not checked here; the
// document table's unique index stays the authority on that.
func (s *Service) ValidateNumber(ctx context.Context, tenantID id.ID, seriesCode, number string) error {
	tpl, err := s.resolveTemplate(ctx, tenantID, seriesCode)
	if err != nil {
		return err
	}

	parsed, err := ParseTemplate(tpl.Pattern)
	if err != nil {
		return fmt.Errorf("series %s: %w", seriesCode, err)
	}

	if !parsed.Matches(number) {
		return apperror.NewValidation("document number does not match the series pattern").
			WithDetail("number", number).
			WithDetail("pattern", tpl.Pattern)
	}
	return nil
}

// resolveTemplate loads the tenant template, falling back to the built-in
// default pattern when none is configured.
func (s *Service) resolveTemplate(ctx context.Context, tenantID id.ID, seriesCode string) (*SeriesTemplate, error) {
	tpl, err := s.templates.GetTemplate(ctx, tenantID, seriesCode)
	if err == nil {
		return tpl, nil
	}

	if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("load template %s: %w", seriesCode, err)
	}

	cfgErr := apperror.NewConfigurationMissing(tenantID.String(), seriesCode)
	logger.Warn(ctx, "numbering template missing, using default pattern",
		"series", seriesCode,
		"code", cfgErr.Code,
	)

	return &SeriesTemplate{
		TenantID:   tenantID,
		SeriesCode: seriesCode,
		Pattern:    DefaultPattern(seriesCode),
	}, nil
}
