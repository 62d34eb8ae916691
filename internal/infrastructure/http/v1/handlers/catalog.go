package handlers

import (
	"github.com/gin-gonic/gin"

	"ordina/internal/domain/catalogs/product"
	"ordina/internal/domain/catalogs/warehouse"
	"ordina/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves product and warehouse catalog reads.
type CatalogHandler struct {
	*BaseHandler
	products   *product.Service
	warehouses *warehouse.Service
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(base *BaseHandler, products *product.Service, warehouses *warehouse.Service) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		products:    products,
		warehouses:  warehouses,
	}
}

// GetProduct handles GET /catalog/products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.products.GetByID(c.Request.Context(), h.TenantID(c), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// ListProducts handles GET /catalog/products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 100)
	offset := h.ParseIntQuery(c, "offset", 0)

	products, err := h.products.List(c.Request.Context(), h.TenantID(c), limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ProductResponse, len(products))
	for i := range products {
		items[i] = dto.FromProduct(&products[i])
	}

	h.OK(c, dto.ListResponse{Items: items, Limit: limit, Offset: offset})
}

// GetWarehouse handles GET /catalog/warehouses/:id.
func (h *CatalogHandler) GetWarehouse(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	w, err := h.warehouses.GetByID(c.Request.Context(), h.TenantID(c), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromWarehouse(w))
}

// ListWarehouses handles GET /catalog/warehouses.
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouses.List(c.Request.Context(), h.TenantID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.WarehouseResponse, len(warehouses))
	for i := range warehouses {
		items[i] = dto.FromWarehouse(&warehouses[i])
	}

	h.OK(c, dto.ListResponse{Items: items})
}

// RegisterRoutes registers catalog routes.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:id", h.GetProduct)
	rg.GET("/warehouses", h.ListWarehouses)
	rg.GET("/warehouses/:id", h.GetWarehouse)
}
