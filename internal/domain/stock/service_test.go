package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
)

// memLedger is an in-memory Repository that aggregates the same way the
// SQL implementation does.
type memLedger struct {
	movements []Movement
}

func (m *memLedger) CreateMovements(ctx context.Context, movements []Movement) error {
	m.movements = append(m.movements, movements...)
	return nil
}

func (m *memLedger) SumBalance(ctx context.Context, q BalanceQuery) (types.Quantity, error) {
	var total types.Quantity
	for _, mv := range m.movements {
		if mv.TenantID != q.TenantID || mv.ProductID != q.ProductID {
			continue
		}
		if q.WarehouseID != nil {
			switch {
			case mv.WarehouseID != nil && *mv.WarehouseID == *q.WarehouseID:
			case mv.WarehouseID == nil && q.IncludeUnscoped:
			default:
				continue
			}
		}
		total += mv.SignedQuantity()
	}
	return total, nil
}

func (m *memLedger) GetMovementsBySource(ctx context.Context, tenantID id.ID, kind SourceKind, sourceID id.ID) ([]Movement, error) {
	var out []Movement
	for _, mv := range m.movements {
		if mv.TenantID == tenantID && mv.SourceKind == kind && mv.SourceID == sourceID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *memLedger) GetMovementHistory(ctx context.Context, tenantID, productID id.ID, filter MovementFilter) ([]Movement, error) {
	var out []Movement
	for _, mv := range m.movements {
		if mv.TenantID == tenantID && mv.ProductID == productID {
			out = append(out, mv)
		}
	}
	return out, nil
}

type memProducts struct {
	products map[id.ID]ProductInfo
}

func (m *memProducts) GetProductInfo(ctx context.Context, tenantID, productID id.ID) (ProductInfo, error) {
	if p, ok := m.products[productID]; ok {
		return p, nil
	}
	return ProductInfo{}, apperror.NewNotFound("product", productID)
}

type memWarehouses struct {
	defaultWH *id.ID
}

func (m *memWarehouses) DefaultWarehouseID(ctx context.Context, tenantID id.ID) (*id.ID, error) {
	return m.defaultWH, nil
}

type fixture struct {
	svc       *Service
	ledger    *memLedger
	tenantID  id.ID
	productID id.ID
	defaultWH id.ID
	otherWH   id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ledger:    &memLedger{},
		tenantID:  id.New(),
		productID: id.New(),
		defaultWH: id.New(),
		otherWH:   id.New(),
	}

	products := &memProducts{products: map[id.ID]ProductInfo{
		f.productID: {ID: f.productID, Label: "Widget A", TrackStock: true},
	}}

	f.svc = NewService(f.ledger, products, &memWarehouses{defaultWH: &f.defaultWH}, nil)
	return f
}

func (f *fixture) seed(t *testing.T, mt MovementType, qty float64, warehouseID *id.ID) {
	t.Helper()
	mv := NewMovement(
		f.tenantID, f.productID, warehouseID, mt,
		types.NewQuantityFromFloat64(qty),
		time.Now().UTC(), SourceGoodsReceipt, id.New(),
	)
	require.NoError(t, f.svc.Record(context.Background(), []Movement{mv}))
}

func TestBalanceFormula(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, MovementIn, 100, &f.defaultWH)
	f.seed(t, MovementOut, 30, &f.defaultWH)
	f.seed(t, MovementAdjust, -5, &f.defaultWH)

	balance, err := f.svc.BalanceOf(ctx, f.tenantID, f.productID, &f.defaultWH)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(65), balance)
}

func TestBalanceOfEmptyLedgerIsZero(t *testing.T) {
	f := newFixture(t)

	balance, err := f.svc.BalanceOf(context.Background(), f.tenantID, f.productID, nil)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestDefaultWarehouseFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// legacy movement without a warehouse
	f.seed(t, MovementIn, 40, nil)
	f.seed(t, MovementIn, 10, &f.defaultWH)
	f.seed(t, MovementIn, 7, &f.otherWH)

	defaultBalance, err := f.svc.BalanceOf(ctx, f.tenantID, f.productID, &f.defaultWH)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(50), defaultBalance,
		"unscoped movements attach to the default warehouse")

	otherBalance, err := f.svc.BalanceOf(ctx, f.tenantID, f.productID, &f.otherWH)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(7), otherBalance,
		"unscoped movements must not leak into other warehouses")
}

func TestBalanceReadsAreIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, MovementIn, 12.5, &f.defaultWH)

	first, err := f.svc.BalanceOf(ctx, f.tenantID, f.productID, &f.defaultWH)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := f.svc.BalanceOf(ctx, f.tenantID, f.productID, &f.defaultWH)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEnsureAvailableBlocksOverWithdrawal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, MovementIn, 10, &f.defaultWH)

	err := f.svc.EnsureAvailable(ctx, f.tenantID, f.productID, &f.defaultWH, types.NewQuantityFromFloat64(11))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 11.0, appErr.Details["requested"])
	assert.Equal(t, 10.0, appErr.Details["available"])
	assert.Equal(t, "Widget A", appErr.Details["product"])

	// exactly the available quantity passes
	err = f.svc.EnsureAvailable(ctx, f.tenantID, f.productID, &f.defaultWH, types.NewQuantityFromFloat64(10))
	assert.NoError(t, err)
}

func TestEnsureAvailableSkipsServiceItems(t *testing.T) {
	f := newFixture(t)
	serviceItem := id.New()
	products := &memProducts{products: map[id.ID]ProductInfo{
		serviceItem: {ID: serviceItem, Label: "Consulting hour", TrackStock: false},
	}}
	svc := NewService(f.ledger, products, &memWarehouses{}, nil)

	// zero on hand, still passes: service items are never stock-checked
	err := svc.EnsureAvailable(context.Background(), f.tenantID, serviceItem, nil, types.NewQuantityFromFloat64(100))
	assert.NoError(t, err)
}

func TestRecordValidatesMovements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out := NewMovement(f.tenantID, f.productID, nil, MovementOut,
		types.NewQuantityFromFloat64(-3), time.Now().UTC(), SourceStockReturn, id.New())
	err := f.svc.Record(ctx, []Movement{out})
	require.Error(t, err)

	adjust := NewMovement(f.tenantID, f.productID, nil, MovementAdjust,
		0, time.Now().UTC(), SourceAdjustment, id.New())
	err = f.svc.Record(ctx, []Movement{adjust})
	require.Error(t, err)

	// negative adjustment is legal
	adjust.Quantity = types.NewQuantityFromFloat64(-2)
	err = f.svc.Record(ctx, []Movement{adjust})
	assert.NoError(t, err)
}
