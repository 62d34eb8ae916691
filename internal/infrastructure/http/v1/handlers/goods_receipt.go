package handlers

import (
	"github.com/gin-gonic/gin"

	"ordina/internal/domain/documents/goods_receipt"
	"ordina/internal/infrastructure/http/v1/dto"
)

// GoodsReceiptHandler handles HTTP requests for goods receipts.
type GoodsReceiptHandler struct {
	*BaseHandler
	service *goods_receipt.Service
}

// NewGoodsReceiptHandler creates a goods receipt handler.
func NewGoodsReceiptHandler(base *BaseHandler, service *goods_receipt.Service) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /goods-receipts.
func (h *GoodsReceiptHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateGoodsReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity(h.TenantID(c))
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromGoodsReceipt(doc))
}

// Get handles GET /goods-receipts/:id.
func (h *GoodsReceiptHandler) Get(c *gin.Context) {
	receiptID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), h.TenantID(c), receiptID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromGoodsReceipt(doc))
}

// List handles GET /goods-receipts.
func (h *GoodsReceiptHandler) List(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	docs, err := h.service.List(c.Request.Context(), h.TenantID(c), limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.GoodsReceiptResponse, len(docs))
	for i := range docs {
		items[i] = dto.FromGoodsReceipt(&docs[i])
	}

	h.OK(c, dto.GoodsReceiptListResponse{
		Items:  items,
		Limit:  limit,
		Offset: offset,
	})
}

// RegisterRoutes registers goods receipt routes.
func (h *GoodsReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
