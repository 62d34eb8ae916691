// Package main is the entry point for the ordina API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordina/internal/config"
	"ordina/internal/domain/catalogs/product"
	"ordina/internal/domain/catalogs/warehouse"
	"ordina/internal/domain/documents/adjustment"
	"ordina/internal/domain/documents/goods_receipt"
	"ordina/internal/domain/documents/payment"
	"ordina/internal/domain/documents/stock_return"
	"ordina/internal/domain/numbering"
	"ordina/internal/domain/stock"
	"ordina/internal/infrastructure/auth"
	v1 "ordina/internal/infrastructure/http/v1"
	"ordina/internal/infrastructure/storage/postgres"
	"ordina/internal/infrastructure/storage/postgres/catalog_repo"
	"ordina/internal/infrastructure/storage/postgres/document_repo"
	"ordina/internal/infrastructure/storage/postgres/numbering_repo"
	"ordina/internal/infrastructure/storage/postgres/register_repo"
	"ordina/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Format == "console",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Infow("starting ordina server", "env", cfg.App.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN())
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MinConns = int32(cfg.Database.MinConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	tenantRepo := catalog_repo.NewTenantRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	templateRepo := numbering_repo.NewTemplateRepo(txManager)
	counterRepo := numbering_repo.NewCounterRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)
	paymentRepo := document_repo.NewPaymentRepo(txManager)
	returnRepo := document_repo.NewStockReturnRepo(txManager)
	receiptRepo := document_repo.NewGoodsReceiptRepo(txManager)
	adjustmentRepo := document_repo.NewAdjustmentRepo(txManager)

	// --- Domain services ---
	productService := product.NewService(productRepo)
	warehouseService := warehouse.NewService(warehouseRepo, tenantRepo)
	stockService := stock.NewService(stockRepo, productService, warehouseService, auditService)

	numberingService := numbering.NewService(templateRepo, counterRepo)

	// Payments run through the collision-resolving allocator: their
	// series mixes generated and manually entered numbers.
	paymentAllocator := numbering.NewAllocator(paymentRepo, numberingService, numbering.AllocatorOptions{
		SampleSize:  cfg.Allocator.SampleSize,
		MaxAttempts: cfg.Allocator.MaxAttempts,
		RetryDelay:  cfg.Allocator.RetryDelay,
	})

	paymentService := payment.NewService(paymentRepo, paymentAllocator, auditService)
	returnService := stock_return.NewService(returnRepo, numberingService, stockService, txManager)
	receiptService := goods_receipt.NewService(receiptRepo, numberingService, stockService, txManager)
	adjustmentService := adjustment.NewService(adjustmentRepo, numberingService, stockService, txManager)

	// --- Auth ---
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:        log,
		Pool:          pool,
		JWTValidator:  jwtService,
		Tenants:       tenantRepo,
		Templates:     templateRepo,
		Audit:         auditService,
		Payments:      paymentService,
		StockReturns:  returnService,
		GoodsReceipts: receiptService,
		Adjustments:   adjustmentService,
		Stock:         stockService,
		Products:      productService,
		Warehouses:    warehouseService,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
