package register_repo

import (
	"strings"
	"testing"

	"ordina/internal/core/id"
	"ordina/internal/domain/stock"
)

func TestBalanceQuery_WarehouseScoping(t *testing.T) {
	repo := NewStockRepo(nil)
	tenantID := id.New()
	productID := id.New()
	warehouseID := id.New()

	tests := []struct {
		name        string
		query       stock.BalanceQuery
		wantClauses []string
		notClauses  []string
	}{
		{
			name:  "global balance has no warehouse clause",
			query: stock.BalanceQuery{TenantID: tenantID, ProductID: productID},
			wantClauses: []string{
				"tenant_id = $1",
				"product_id = $2",
			},
			notClauses: []string{"warehouse_id"},
		},
		{
			name: "explicit warehouse filters strictly",
			query: stock.BalanceQuery{
				TenantID:    tenantID,
				ProductID:   productID,
				WarehouseID: &warehouseID,
			},
			wantClauses: []string{"warehouse_id = $3"},
			notClauses:  []string{"warehouse_id IS NULL"},
		},
		{
			name: "default warehouse absorbs unscoped movements",
			query: stock.BalanceQuery{
				TenantID:        tenantID,
				ProductID:       productID,
				WarehouseID:     &warehouseID,
				IncludeUnscoped: true,
			},
			wantClauses: []string{"warehouse_id = $3 OR warehouse_id IS NULL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.balanceQuery(tt.query).ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			if !strings.Contains(sql, "CASE WHEN type = 'OUT' THEN -quantity ELSE quantity END") {
				t.Errorf("missing signed aggregation in SQL: %s", sql)
			}

			for _, clause := range tt.wantClauses {
				if !strings.Contains(sql, clause) {
					t.Errorf("SQL missing clause %q\ngot: %s", clause, sql)
				}
			}
			for _, clause := range tt.notClauses {
				if strings.Contains(sql, clause) {
					t.Errorf("SQL has unexpected clause %q\ngot: %s", clause, sql)
				}
			}

			// squirrel resolves driver.Valuer args, so UUIDs surface as strings
			if args[0] != tt.query.TenantID.String() {
				t.Errorf("first arg should be tenant id, got %v", args[0])
			}
		})
	}
}
