package numbering

import (
	"context"
	"sync"
	"testing"
	"time"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
)

// memTemplates is an in-memory TemplateStore.
type memTemplates struct {
	templates map[string]*SeriesTemplate // key: tenant|series
}

func (m *memTemplates) GetTemplate(ctx context.Context, tenantID id.ID, series string) (*SeriesTemplate, error) {
	if tpl, ok := m.templates[tenantID.String()+"|"+series]; ok {
		return tpl, nil
	}
	return nil, apperror.NewNotFound("numbering_template", series)
}

// memCounters is an in-memory CounterStore with the same seeding
// semantics as the Postgres UPSERT.
type memCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func newMemCounters() *memCounters {
	return &memCounters{values: make(map[string]int64)}
}

func (m *memCounters) ReserveNext(ctx context.Context, tenantID id.ID, series string, startingValue int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := tenantID.String() + "|" + series
	if _, ok := m.values[key]; !ok {
		m.values[key] = startingValue
	}
	m.values[key]++
	return m.values[key], nil
}

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestNextUsesConfiguredTemplate(t *testing.T) {
	tenantID := id.New()
	templates := &memTemplates{templates: map[string]*SeriesTemplate{
		tenantID.String() + "|payment": {
			TenantID:   tenantID,
			SeriesCode: "payment",
			Pattern:    "FAC-{{YYYY}}-{{SEQ:5}}",
		},
	}}

	svc := NewService(templates, newMemCounters())
	svc.now = fixedClock(2025, time.March)

	num, err := svc.Next(context.Background(), tenantID, "payment")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if num != "FAC-2025-00001" {
		t.Errorf("Next() = %q, want FAC-2025-00001", num)
	}
}

func TestNextFallsBackToDefaultPattern(t *testing.T) {
	tenantID := id.New()
	svc := NewService(&memTemplates{templates: map[string]*SeriesTemplate{}}, newMemCounters())
	svc.now = fixedClock(2025, time.June)

	num, err := svc.Next(context.Background(), tenantID, SeriesPayment)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if num != "PAFO-2025-00001" {
		t.Errorf("Next() = %q, want PAFO-2025-00001", num)
	}
}

func TestNextSequenceIsStrictlyMonotonic(t *testing.T) {
	tenantID := id.New()
	counters := newMemCounters()
	svc := NewService(&memTemplates{templates: map[string]*SeriesTemplate{}}, counters)
	svc.now = fixedClock(2025, time.January)

	ctx := context.Background()
	prev := ""
	for i := 0; i < 20; i++ {
		num, err := svc.Next(ctx, tenantID, SeriesReturn)
		if err != nil {
			t.Fatalf("Next #%d: %v", i, err)
		}
		if prev != "" && num <= prev {
			// equal pad width makes string order match numeric order
			t.Fatalf("sequence not strictly increasing: %q after %q", num, prev)
		}
		prev = num
	}
}

func TestNextSeedsFromStartingValue(t *testing.T) {
	tenantID := id.New()
	templates := &memTemplates{templates: map[string]*SeriesTemplate{
		tenantID.String() + "|payment": {
			TenantID:      tenantID,
			SeriesCode:    "payment",
			Pattern:       "P-{{SEQ:3}}",
			StartingValue: 100,
		},
	}}

	svc := NewService(templates, newMemCounters())
	svc.now = fixedClock(2025, time.January)

	num, err := svc.Next(context.Background(), tenantID, "payment")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if num != "P-101" {
		t.Errorf("Next() = %q, want P-101", num)
	}
}

func TestNextCountersIsolatedPerTenantAndSeries(t *testing.T) {
	tenantA := id.New()
	tenantB := id.New()
	counters := newMemCounters()
	svc := NewService(&memTemplates{templates: map[string]*SeriesTemplate{}}, counters)
	svc.now = fixedClock(2025, time.January)

	ctx := context.Background()
	a1, _ := svc.Next(ctx, tenantA, SeriesPayment)
	b1, _ := svc.Next(ctx, tenantB, SeriesPayment)
	a2, _ := svc.Next(ctx, tenantA, SeriesReturn)

	if a1 != "PAFO-2025-00001" || b1 != "PAFO-2025-00001" {
		t.Errorf("per-tenant counters leaked: a1=%q b1=%q", a1, b1)
	}
	if a2 != "DEV-2025-00001" {
		t.Errorf("per-series counters leaked: a2=%q", a2)
	}
}
