package stock_return

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/internal/domain/numbering"
	"ordina/internal/domain/stock"
)

// --- test doubles ---

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memReturnRepo struct {
	docs  map[id.ID]*StockReturn
	lines map[id.ID][]ReturnLine
}

func newMemReturnRepo() *memReturnRepo {
	return &memReturnRepo{docs: map[id.ID]*StockReturn{}, lines: map[id.ID][]ReturnLine{}}
}

func (m *memReturnRepo) Create(ctx context.Context, r *StockReturn) error {
	cp := *r
	m.docs[r.ID] = &cp
	return nil
}

func (m *memReturnRepo) SaveLines(ctx context.Context, returnID id.ID, lines []ReturnLine) error {
	m.lines[returnID] = lines
	return nil
}

func (m *memReturnRepo) GetByID(ctx context.Context, tenantID, returnID id.ID) (*StockReturn, error) {
	if d, ok := m.docs[returnID]; ok && d.TenantID == tenantID {
		return d, nil
	}
	return nil, apperror.NewNotFound("stock_return", returnID)
}

func (m *memReturnRepo) GetLines(ctx context.Context, returnID id.ID) ([]ReturnLine, error) {
	return m.lines[returnID], nil
}

func (m *memReturnRepo) List(ctx context.Context, tenantID id.ID, filter ListFilter) ([]StockReturn, error) {
	var out []StockReturn
	for _, d := range m.docs {
		if d.TenantID == tenantID {
			out = append(out, *d)
		}
	}
	return out, nil
}

type memLedger struct {
	movements []stock.Movement
}

func (m *memLedger) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	m.movements = append(m.movements, movements...)
	return nil
}

func (m *memLedger) SumBalance(ctx context.Context, q stock.BalanceQuery) (types.Quantity, error) {
	var total types.Quantity
	for _, mv := range m.movements {
		if mv.TenantID != q.TenantID || mv.ProductID != q.ProductID {
			continue
		}
		total += mv.SignedQuantity()
	}
	return total, nil
}

func (m *memLedger) GetMovementsBySource(ctx context.Context, tenantID id.ID, kind stock.SourceKind, sourceID id.ID) ([]stock.Movement, error) {
	var out []stock.Movement
	for _, mv := range m.movements {
		if mv.SourceID == sourceID && mv.SourceKind == kind {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *memLedger) GetMovementHistory(ctx context.Context, tenantID, productID id.ID, filter stock.MovementFilter) ([]stock.Movement, error) {
	return nil, nil
}

type trackedProducts struct{}

func (trackedProducts) GetProductInfo(ctx context.Context, tenantID, productID id.ID) (stock.ProductInfo, error) {
	return stock.ProductInfo{ID: productID, Label: "Product " + productID.String()[:8], TrackStock: true}, nil
}

type noDefaultWarehouse struct{}

func (noDefaultWarehouse) DefaultWarehouseID(ctx context.Context, tenantID id.ID) (*id.ID, error) {
	return nil, nil
}

type memTemplates struct{}

func (memTemplates) GetTemplate(ctx context.Context, tenantID id.ID, series string) (*numbering.SeriesTemplate, error) {
	return nil, apperror.NewNotFound("numbering_template", series)
}

type memCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func (m *memCounters) ReserveNext(ctx context.Context, tenantID id.ID, series string, starting int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]int64{}
	}
	key := tenantID.String() + "|" + series
	if _, ok := m.values[key]; !ok {
		m.values[key] = starting
	}
	m.values[key]++
	return m.values[key], nil
}

type fixture struct {
	svc      *Service
	repo     *memReturnRepo
	ledger   *memLedger
	stockSvc *stock.Service
	tenantID id.ID
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMemReturnRepo(),
		ledger:   &memLedger{},
		tenantID: id.New(),
	}
	f.stockSvc = stock.NewService(f.ledger, trackedProducts{}, noDefaultWarehouse{}, nil)
	num := numbering.NewService(memTemplates{}, &memCounters{})
	f.svc = NewService(f.repo, num, f.stockSvc, passthroughTx{})
	return f
}

func (f *fixture) receive(t *testing.T, productID id.ID, qty float64) {
	t.Helper()
	mv := stock.NewMovement(f.tenantID, productID, nil, stock.MovementIn,
		types.NewQuantityFromFloat64(qty), time.Now().UTC(), stock.SourceGoodsReceipt, id.New())
	require.NoError(t, f.stockSvc.Record(context.Background(), []stock.Movement{mv}))
}

// --- tests ---

func TestCreateRecordsOutMovements(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	productID := id.New()
	f.receive(t, productID, 20)

	r := NewStockReturn(f.tenantID, id.New(), nil)
	r.AddLine(productID, types.NewQuantityFromFloat64(5), "damaged")

	require.NoError(t, f.svc.Create(ctx, r))
	assert.NotEmpty(t, r.Number)
	assert.Contains(t, r.Number, "DEV-")

	moves, err := f.stockSvc.MovementsBySource(ctx, f.tenantID, stock.SourceStockReturn, r.ID)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, stock.MovementOut, moves[0].Type)

	balance, err := f.stockSvc.BalanceOf(ctx, f.tenantID, productID, nil)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(15), balance)
}

func TestCreateAbortsWholeOperationOnInsufficientStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	okProduct := id.New()
	shortProduct := id.New()
	f.receive(t, okProduct, 100)
	f.receive(t, shortProduct, 2)

	r := NewStockReturn(f.tenantID, id.New(), nil)
	r.AddLine(okProduct, types.NewQuantityFromFloat64(10), "")
	r.AddLine(shortProduct, types.NewQuantityFromFloat64(3), "")

	err := f.svc.Create(ctx, r)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 3.0, appErr.Details["requested"])
	assert.Equal(t, 2.0, appErr.Details["available"])

	// no partial application: no document, no movements for either line
	assert.Empty(t, f.repo.docs)
	moves, _ := f.stockSvc.MovementsBySource(ctx, f.tenantID, stock.SourceStockReturn, r.ID)
	assert.Empty(t, moves)
}

func TestCreateRejectsLinesThatTogetherExceedBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	productID := id.New()
	f.receive(t, productID, 10)

	// each line fits on its own; the sum does not
	r := NewStockReturn(f.tenantID, id.New(), nil)
	r.AddLine(productID, types.NewQuantityFromFloat64(6), "")
	r.AddLine(productID, types.NewQuantityFromFloat64(6), "")

	err := f.svc.Create(ctx, r)
	require.Error(t, err, "return of 12 against balance 10 must be rejected")
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 12.0, appErr.Details["requested"])
	assert.Equal(t, 10.0, appErr.Details["available"])

	assert.Empty(t, f.repo.docs)
	balance, err := f.stockSvc.BalanceOf(ctx, f.tenantID, productID, nil)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(10), balance)
}

func TestCreateValidatesBeforeNumbering(t *testing.T) {
	f := newFixture()

	r := NewStockReturn(f.tenantID, id.New(), nil)
	// no lines

	err := f.svc.Create(context.Background(), r)
	require.Error(t, err)
	assert.Empty(t, r.Number, "invalid documents must not consume sequence values")
}

func TestSequentialReturnsGetIncreasingNumbers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	productID := id.New()
	f.receive(t, productID, 100)

	var prev string
	for i := 0; i < 3; i++ {
		r := NewStockReturn(f.tenantID, id.New(), nil)
		r.AddLine(productID, types.NewQuantityFromFloat64(1), "")
		require.NoError(t, f.svc.Create(ctx, r))
		if prev != "" {
			assert.Greater(t, r.Number, prev)
		}
		prev = r.Number
	}
}
