// Package main provides CLI for tenant management.
// Usage: tenant create --slug acme --name "ACME Corp"
//        tenant list
//        tenant suspend <tenant-id>
//        tenant set-warehouse <tenant-id> <warehouse-id>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"ordina/internal/config"
	"ordina/internal/core/id"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		createTenant(ctx)
	case "list":
		listTenants(ctx)
	case "suspend":
		setStatus(ctx, "suspended")
	case "activate":
		setStatus(ctx, "active")
	case "set-warehouse":
		setDefaultWarehouse(ctx)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Ordina Tenant Management CLI

Usage:
  tenant <command> [options]

Commands:
  create         Create a new tenant
  list           List all tenants
  suspend        Suspend a tenant
  activate       Activate a suspended tenant
  set-warehouse  Designate the tenant's default warehouse
  help           Show this help

Configuration is read the same way as the server (config.toml plus
ORDINA_* environment variables).

Examples:
  tenant create --slug acme --name "ACME Corporation"
  tenant list
  tenant suspend <tenant-uuid>
  tenant set-warehouse <tenant-uuid> <warehouse-uuid>`)
}

func getPool(ctx context.Context) *pgxpool.Pool {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	return pool
}

func createTenant(ctx context.Context) {
	var slug, name string

	for i := 2; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--slug":
			if i+1 < len(os.Args) {
				slug = os.Args[i+1]
				i++
			}
		case "--name":
			if i+1 < len(os.Args) {
				name = os.Args[i+1]
				i++
			}
		}
	}

	if slug == "" || name == "" {
		fmt.Println("Error: --slug and --name are required")
		fmt.Println("Usage: tenant create --slug <slug> --name <name>")
		os.Exit(1)
	}

	pool := getPool(ctx)
	defer pool.Close()

	tenantID := id.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO sys_tenants (id, slug, display_name, status)
		VALUES ($1, $2, $3, 'active')
	`, tenantID, slug, name)
	if err != nil {
		fmt.Printf("Error creating tenant: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created tenant %s (%s)\n", slug, tenantID)
}

func listTenants(ctx context.Context) {
	pool := getPool(ctx)
	defer pool.Close()

	rows, err := pool.Query(ctx, `
		SELECT id, slug, display_name, status
		FROM sys_tenants
		ORDER BY created_at
	`)
	if err != nil {
		fmt.Printf("Error listing tenants: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	fmt.Printf("%-38s %-20s %-30s %s\n", "ID", "SLUG", "NAME", "STATUS")
	for rows.Next() {
		var (
			tenantID   id.ID
			slug, name string
			status     string
		)
		if err := rows.Scan(&tenantID, &slug, &name, &status); err != nil {
			fmt.Printf("Error reading row: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%-38s %-20s %-30s %s\n", tenantID, slug, name, status)
	}
}

func setStatus(ctx context.Context, status string) {
	if len(os.Args) < 3 {
		fmt.Printf("Usage: tenant %s <tenant-uuid>\n", os.Args[1])
		os.Exit(1)
	}

	tenantID, err := id.Parse(os.Args[2])
	if err != nil {
		fmt.Printf("Invalid tenant id: %v\n", err)
		os.Exit(1)
	}

	pool := getPool(ctx)
	defer pool.Close()

	tag, err := pool.Exec(ctx, `
		UPDATE sys_tenants SET status = $1, updated_at = now() WHERE id = $2
	`, status, tenantID)
	if err != nil {
		fmt.Printf("Error updating tenant: %v\n", err)
		os.Exit(1)
	}
	if tag.RowsAffected() == 0 {
		fmt.Println("Tenant not found")
		os.Exit(1)
	}

	fmt.Printf("Tenant %s is now %s\n", tenantID, status)
}

func setDefaultWarehouse(ctx context.Context) {
	if len(os.Args) < 4 {
		fmt.Println("Usage: tenant set-warehouse <tenant-uuid> <warehouse-uuid>")
		os.Exit(1)
	}

	tenantID, err := id.Parse(os.Args[2])
	if err != nil {
		fmt.Printf("Invalid tenant id: %v\n", err)
		os.Exit(1)
	}
	warehouseID, err := id.Parse(os.Args[3])
	if err != nil {
		fmt.Printf("Invalid warehouse id: %v\n", err)
		os.Exit(1)
	}

	pool := getPool(ctx)
	defer pool.Close()

	// The warehouse must belong to the tenant; a foreign default would
	// silently leak balances across tenants.
	var count int
	err = pool.QueryRow(ctx, `
		SELECT count(*) FROM cat_warehouses WHERE id = $1 AND tenant_id = $2
	`, warehouseID, tenantID).Scan(&count)
	if err != nil {
		fmt.Printf("Error checking warehouse: %v\n", err)
		os.Exit(1)
	}
	if count == 0 {
		fmt.Println("Warehouse does not belong to this tenant")
		os.Exit(1)
	}

	_, err = pool.Exec(ctx, `
		UPDATE sys_tenants SET default_warehouse_id = $1, updated_at = now() WHERE id = $2
	`, warehouseID, tenantID)
	if err != nil {
		fmt.Printf("Error updating tenant: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Default warehouse for %s set to %s\n", tenantID, warehouseID)
}
