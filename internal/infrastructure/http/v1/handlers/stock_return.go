package handlers

import (
	"github.com/gin-gonic/gin"

	"ordina/internal/core/id"
	"ordina/internal/domain/documents/stock_return"
	"ordina/internal/infrastructure/http/v1/dto"
)

// StockReturnHandler handles HTTP requests for purchase returns.
type StockReturnHandler struct {
	*BaseHandler
	service *stock_return.Service
}

// NewStockReturnHandler creates a stock return handler.
func NewStockReturnHandler(base *BaseHandler, service *stock_return.Service) *StockReturnHandler {
	return &StockReturnHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /stock-returns. A line that would overdraw the
// balance rejects the whole document with INSUFFICIENT_STOCK.
func (h *StockReturnHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateStockReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity(h.TenantID(c))
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromStockReturn(doc))
}

// Get handles GET /stock-returns/:id.
func (h *StockReturnHandler) Get(c *gin.Context) {
	returnID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), h.TenantID(c), returnID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStockReturn(doc))
}

// List handles GET /stock-returns.
func (h *StockReturnHandler) List(c *gin.Context) {
	filter := stock_return.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if supplierID := c.Query("supplierId"); supplierID != "" {
		if parsed, err := id.Parse(supplierID); err == nil {
			filter.SupplierID = &parsed
		}
	}

	docs, err := h.service.List(c.Request.Context(), h.TenantID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.StockReturnResponse, len(docs))
	for i := range docs {
		items[i] = dto.FromStockReturn(&docs[i])
	}

	h.OK(c, dto.StockReturnListResponse{
		Items:  items,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// RegisterRoutes registers stock return routes.
func (h *StockReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
