package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/internal/domain/stock"
	"ordina/internal/infrastructure/http/v1/dto"
)

// StockHandler serves balance, availability and movement history reads.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetBalance handles GET /stock/balance/:productId.
// An optional warehouseId query narrows the balance to one warehouse;
// without it the balance spans all movements of the product.
func (h *StockHandler) GetBalance(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}
	warehouseID := h.parseWarehouseQuery(c)

	balance, err := h.service.BalanceOf(c.Request.Context(), h.TenantID(c), productID, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.BalanceResponse{
		ProductID: productID.String(),
		Quantity:  balance,
	}
	if warehouseID != nil {
		s := warehouseID.String()
		resp.WarehouseID = &s
	}

	h.OK(c, resp)
}

// GetAvailability handles GET /stock/availability/:productId.
// Answers whether the quantity given in the query could be taken right
// now; the answer is advisory, nothing is reserved.
func (h *StockHandler) GetAvailability(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}

	requested, err := types.ParseQuantity(c.Query("quantity"))
	if err != nil || !requested.IsPositive() {
		h.Error(c, apperror.NewValidation("quantity must be a positive decimal").
			WithDetail("query", "quantity"))
		return
	}

	ctx := c.Request.Context()
	tenantID := h.TenantID(c)
	warehouseID := h.parseWarehouseQuery(c)

	available, err := h.service.BalanceOf(ctx, tenantID, productID, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	sufficient := true
	if err := h.service.EnsureAvailable(ctx, tenantID, productID, warehouseID, requested); err != nil {
		if !apperror.IsInsufficientStock(err) {
			h.Error(c, err)
			return
		}
		sufficient = false
	}

	h.OK(c, dto.AvailabilityResponse{
		ProductID:  productID.String(),
		Requested:  requested,
		Available:  available,
		Sufficient: sufficient,
	})
}

// GetMovements handles GET /stock/movements/:productId.
// Returns ledger history newest first, with optional type, warehouse and
// date range filters.
func (h *StockHandler) GetMovements(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}

	filter := stock.MovementFilter{
		WarehouseID: h.parseWarehouseQuery(c),
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	if mt := c.Query("type"); mt != "" {
		parsed := stock.MovementType(mt)
		filter.Type = &parsed
	}
	if from := c.Query("from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filter.FromDate = &parsed
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filter.ToDate = &parsed
		}
	}

	movements, err := h.service.History(c.Request.Context(), h.TenantID(c), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.MovementListResponse{
		Items:  dto.FromMovements(movements),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// GetSourceMovements handles GET /stock/sources/:kind/:sourceId/movements.
// Returns the ledger entries one document produced.
func (h *StockHandler) GetSourceMovements(c *gin.Context) {
	sourceID, ok := h.ParseIDParam(c, "sourceId")
	if !ok {
		return
	}
	kind := stock.SourceKind(c.Param("kind"))

	movements, err := h.service.MovementsBySource(c.Request.Context(), h.TenantID(c), kind, sourceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.MovementListResponse{Items: dto.FromMovements(movements)})
}

func (h *StockHandler) parseWarehouseQuery(c *gin.Context) *id.ID {
	raw := c.Query("warehouseId")
	if raw == "" {
		return nil
	}
	parsed, err := id.Parse(raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/balance/:productId", h.GetBalance)
	rg.GET("/availability/:productId", h.GetAvailability)
	rg.GET("/movements/:productId", h.GetMovements)
	rg.GET("/sources/:kind/:sourceId/movements", h.GetSourceMovements)
}
