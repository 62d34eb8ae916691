package handlers

import (
	"github.com/gin-gonic/gin"

	"ordina/internal/domain/documents/adjustment"
	"ordina/internal/infrastructure/http/v1/dto"
)

// AdjustmentHandler handles HTTP requests for inventory adjustments.
type AdjustmentHandler struct {
	*BaseHandler
	service *adjustment.Service
}

// NewAdjustmentHandler creates an adjustment handler.
func NewAdjustmentHandler(base *BaseHandler, service *adjustment.Service) *AdjustmentHandler {
	return &AdjustmentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /adjustments.
func (h *AdjustmentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateAdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity(h.TenantID(c))
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromAdjustment(doc))
}

// Get handles GET /adjustments/:id.
func (h *AdjustmentHandler) Get(c *gin.Context) {
	adjustmentID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), h.TenantID(c), adjustmentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAdjustment(doc))
}

// List handles GET /adjustments.
func (h *AdjustmentHandler) List(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	docs, err := h.service.List(c.Request.Context(), h.TenantID(c), limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.AdjustmentResponse, len(docs))
	for i := range docs {
		items[i] = dto.FromAdjustment(&docs[i])
	}

	h.OK(c, dto.AdjustmentListResponse{
		Items:  items,
		Limit:  limit,
		Offset: offset,
	})
}

// RegisterRoutes registers adjustment routes.
func (h *AdjustmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
