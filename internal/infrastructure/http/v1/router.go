// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"ordina/internal/core/tenant"
	"ordina/internal/domain/catalogs/product"
	"ordina/internal/domain/catalogs/warehouse"
	"ordina/internal/domain/documents/adjustment"
	"ordina/internal/domain/documents/goods_receipt"
	"ordina/internal/domain/documents/payment"
	"ordina/internal/domain/documents/stock_return"
	"ordina/internal/domain/stock"
	"ordina/internal/infrastructure/http/v1/handlers"
	"ordina/internal/infrastructure/http/v1/middleware"
	"ordina/internal/infrastructure/storage/postgres"
	"ordina/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Logger *logger.Logger

	// Pool backs the readiness probe
	Pool *postgres.Pool

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Tenants resolves the X-Tenant-ID header
	Tenants tenant.Repository

	// Templates is the numbering template admin surface
	Templates handlers.TemplateAdmin

	// Audit reads back the audit trail
	Audit handlers.AuditReader

	Payments      *payment.Service
	StockReturns  *stock_return.Service
	GoodsReceipts *goods_receipt.Service
	Adjustments   *adjustment.Service
	Stock         *stock.Service
	Products      *product.Service
	Warehouses    *warehouse.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware. ErrorHandler must be registered before Recovery
	// so it renders errors raised anywhere downstream, including panics
	// recovered below it.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	// Health endpoints (no auth, no tenant required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1: tenant resolution runs first, then JWT validation checks
	// the token against the resolved tenant.
	api := router.Group("/api/v1")
	api.Use(middleware.Tenant(cfg.Tenants))
	api.Use(middleware.Auth(cfg.JWTValidator))
	{
		handlers.NewPaymentHandler(baseHandler, cfg.Payments).
			RegisterRoutes(api.Group("/payments"))
		handlers.NewStockReturnHandler(baseHandler, cfg.StockReturns).
			RegisterRoutes(api.Group("/stock-returns"))
		handlers.NewGoodsReceiptHandler(baseHandler, cfg.GoodsReceipts).
			RegisterRoutes(api.Group("/goods-receipts"))
		handlers.NewAdjustmentHandler(baseHandler, cfg.Adjustments).
			RegisterRoutes(api.Group("/adjustments"))

		handlers.NewStockHandler(baseHandler, cfg.Stock).
			RegisterRoutes(api.Group("/stock"))
		handlers.NewCatalogHandler(baseHandler, cfg.Products, cfg.Warehouses).
			RegisterRoutes(api.Group("/catalog"))

		// template administration and audit reads are restricted to
		// tenant admins
		numberingGroup := api.Group("/numbering-templates")
		numberingGroup.Use(middleware.RequireRole("admin"))
		handlers.NewNumberingHandler(baseHandler, cfg.Templates).
			RegisterRoutes(numberingGroup)

		auditGroup := api.Group("/audit")
		auditGroup.Use(middleware.RequireRole("admin"))
		handlers.NewAuditHandler(baseHandler, cfg.Audit).
			RegisterRoutes(auditGroup)
	}

	return router
}
