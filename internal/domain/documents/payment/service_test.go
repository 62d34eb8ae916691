package payment

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/internal/domain/numbering"
)

// memPaymentRepo simulates a table with a unique index on (tenant_id, number).
type memPaymentRepo struct {
	mu       sync.Mutex
	payments []*Payment
}

func (m *memPaymentRepo) key(tenantID id.ID, number string) string {
	return tenantID.String() + "|" + number
}

func (m *memPaymentRepo) Create(ctx context.Context, p *Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.payments {
		if existing.TenantID == p.TenantID && existing.Number == p.Number {
			return numbering.ErrDuplicateNumber
		}
	}
	cp := *p
	m.payments = append(m.payments, &cp)
	return nil
}

func (m *memPaymentRepo) GetByID(ctx context.Context, tenantID, paymentID id.ID) (*Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TenantID == tenantID && p.ID == paymentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("payment", paymentID)
}

func (m *memPaymentRepo) List(ctx context.Context, tenantID id.ID, filter ListFilter) ([]Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Payment
	for _, p := range m.payments {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPaymentRepo) RecentNumbers(ctx context.Context, tenantID id.ID, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for i := len(m.payments) - 1; i >= 0 && len(out) < limit; i-- {
		if m.payments[i].TenantID == tenantID {
			out = append(out, m.payments[i].Number)
		}
	}
	return out, nil
}

func (m *memPaymentRepo) NumberExists(ctx context.Context, tenantID id.ID, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TenantID == tenantID && p.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPaymentRepo) HighestWithPrefix(ctx context.Context, tenantID id.ID, prefix string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var highest string
	for _, p := range m.payments {
		if p.TenantID == tenantID && strings.HasPrefix(p.Number, prefix) && p.Number > highest {
			highest = p.Number
		}
	}
	return highest, nil
}

type emptyTemplates struct{}

func (emptyTemplates) GetTemplate(ctx context.Context, tenantID id.ID, series string) (*numbering.SeriesTemplate, error) {
	return nil, apperror.NewNotFound("numbering_template", series)
}

type seqCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func (c *seqCounters) ReserveNext(ctx context.Context, tenantID id.ID, series string, starting int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = map[string]int64{}
	}
	key := tenantID.String() + "|" + series
	if _, ok := c.values[key]; !ok {
		c.values[key] = starting
	}
	c.values[key]++
	return c.values[key], nil
}

func newTestService(repo *memPaymentRepo) *Service {
	num := numbering.NewService(emptyTemplates{}, &seqCounters{})
	alloc := numbering.NewAllocator(repo, num, numbering.AllocatorOptions{
		RetryDelay: time.Microsecond,
	})
	return NewService(repo, alloc, nil)
}

func newValidPayment(tenantID id.ID) *Payment {
	return NewPayment(tenantID, id.New(), types.MustMoney("150.00"), "EUR")
}

func TestCreateAllocatesNumber(t *testing.T) {
	repo := &memPaymentRepo{}
	svc := newTestService(repo)
	tenantID := id.New()

	p := newValidPayment(tenantID)
	require.NoError(t, svc.Create(context.Background(), p))

	assert.Regexp(t, `^PAFO-\d{4}-\d{5}$`, p.Number)

	stored, err := svc.GetByID(context.Background(), tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Number, stored.Number, "returned number must match the stored one")
}

func TestCreateContinuesExistingSeries(t *testing.T) {
	repo := &memPaymentRepo{}
	svc := newTestService(repo)
	tenantID := id.New()
	year := time.Now().UTC().Year()

	seeded := newValidPayment(tenantID)
	seeded.Number = "PAFO-" + itoa(year) + "-00041"
	require.NoError(t, svc.Create(context.Background(), seeded))

	p := newValidPayment(tenantID)
	require.NoError(t, svc.Create(context.Background(), p))
	assert.Equal(t, "PAFO-"+itoa(year)+"-00042", p.Number)
}

func TestCreateManualNumberDuplicateConflicts(t *testing.T) {
	repo := &memPaymentRepo{}
	svc := newTestService(repo)
	tenantID := id.New()

	first := newValidPayment(tenantID)
	first.Number = "PAFO-2026-00100"
	require.NoError(t, svc.Create(context.Background(), first))

	second := newValidPayment(tenantID)
	second.Number = "PAFO-2026-00100"
	err := svc.Create(context.Background(), second)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestCreateManualNumberMustMatchSeriesPattern(t *testing.T) {
	repo := &memPaymentRepo{}
	svc := newTestService(repo)
	tenantID := id.New()

	for _, number := range []string{"FREEFORM", "PAFO-26-00100", "PAFO-2026-17"} {
		p := newValidPayment(tenantID)
		p.Number = number
		err := svc.Create(context.Background(), p)
		require.Error(t, err, "number %q must be rejected", number)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
	assert.Empty(t, repo.payments, "rejected numbers must not be stored")
}

func TestCreateConcurrentCallersGetDistinctNumbers(t *testing.T) {
	repo := &memPaymentRepo{}
	svc := newTestService(repo)
	tenantID := id.New()

	const callers = 10
	var wg sync.WaitGroup
	errs := make([]error, callers)
	created := make([]*Payment, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := newValidPayment(tenantID)
			errs[i] = svc.Create(context.Background(), p)
			created[i] = p
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotEmpty(t, created[i].Number)
		assert.False(t, seen[created[i].Number], "number %s handed out twice", created[i].Number)
		seen[created[i].Number] = true
	}
}

func TestCreateRejectsInvalidPayment(t *testing.T) {
	repo := &memPaymentRepo{}
	svc := newTestService(repo)

	p := NewPayment(id.New(), id.New(), types.ZeroMoney(), "EUR")
	err := svc.Create(context.Background(), p)
	require.Error(t, err)
	assert.Empty(t, repo.payments, "invalid payments must not be stored")
}

func TestCreateFailedAllocationLeavesNumberEmpty(t *testing.T) {
	repo := &collidingRepo{}
	num := numbering.NewService(emptyTemplates{}, &seqCounters{})
	alloc := numbering.NewAllocator(repo, num, numbering.AllocatorOptions{
		MaxAttempts: 3,
		RetryDelay:  time.Microsecond,
	})
	svc := NewService(repo, alloc, nil)

	p := newValidPayment(id.New())
	err := svc.Create(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperror.IsAllocationExhausted(err))
	assert.Empty(t, p.Number, "a failed allocation must not leave a number on the document")
}

// collidingRepo rejects every insert as a duplicate, as if another
// process grabs each candidate between the existence check and the write.
type collidingRepo struct {
	memPaymentRepo
}

func (c *collidingRepo) Create(ctx context.Context, p *Payment) error {
	return numbering.ErrDuplicateNumber
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
