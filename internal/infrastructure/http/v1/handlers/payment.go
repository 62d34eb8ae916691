package handlers

import (
	"github.com/gin-gonic/gin"

	"ordina/internal/core/id"
	"ordina/internal/domain/documents/payment"
	"ordina/internal/infrastructure/http/v1/dto"
)

// PaymentHandler handles HTTP requests for supplier payments.
type PaymentHandler struct {
	*BaseHandler
	service *payment.Service
}

// NewPaymentHandler creates a payment handler.
func NewPaymentHandler(base *BaseHandler, service *payment.Service) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /payments.
func (h *PaymentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity(h.TenantID(c))
	if err := h.service.Create(ctx, p); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromPayment(p))
}

// Get handles GET /payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), h.TenantID(c), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPayment(p))
}

// List handles GET /payments.
func (h *PaymentHandler) List(c *gin.Context) {
	filter := payment.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if supplierID := c.Query("supplierId"); supplierID != "" {
		if parsed, err := id.Parse(supplierID); err == nil {
			filter.SupplierID = &parsed
		}
	}

	payments, err := h.service.List(c.Request.Context(), h.TenantID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.PaymentResponse, len(payments))
	for i := range payments {
		items[i] = dto.FromPayment(&payments[i])
	}

	h.OK(c, dto.PaymentListResponse{
		Items:  items,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// RegisterRoutes registers payment routes.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
