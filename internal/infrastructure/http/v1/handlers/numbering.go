package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/domain/numbering"
	"ordina/internal/infrastructure/http/v1/dto"
)

// TemplateAdmin is the storage surface for template administration.
// Satisfied by the postgres template repository.
type TemplateAdmin interface {
	GetTemplate(ctx context.Context, tenantID id.ID, seriesCode string) (*numbering.SeriesTemplate, error)
	Upsert(ctx context.Context, tpl numbering.SeriesTemplate) error
}

// NumberingHandler administers per-tenant numbering templates.
type NumberingHandler struct {
	*BaseHandler
	templates TemplateAdmin
}

// NewNumberingHandler creates a numbering admin handler.
func NewNumberingHandler(base *BaseHandler, templates TemplateAdmin) *NumberingHandler {
	return &NumberingHandler{
		BaseHandler: base,
		templates:   templates,
	}
}

// Get handles GET /numbering-templates/:series.
// Falls back to the built-in default pattern when the tenant has no
// template configured, so clients always see the effective pattern.
func (h *NumberingHandler) Get(c *gin.Context) {
	series := c.Param("series")

	tpl, err := h.templates.GetTemplate(c.Request.Context(), h.TenantID(c), series)
	if err != nil {
		if !apperror.IsNotFound(err) {
			h.Error(c, err)
			return
		}
		tpl = &numbering.SeriesTemplate{
			SeriesCode: series,
			Pattern:    numbering.DefaultPattern(series),
		}
	}

	h.OK(c, dto.FromTemplate(tpl))
}

// Upsert handles PUT /numbering-templates/:series.
// The pattern is validated before it is stored; a broken pattern must
// never reach the numbering path.
func (h *NumberingHandler) Upsert(c *gin.Context) {
	series := c.Param("series")

	var req dto.UpsertTemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if _, err := numbering.ParseTemplate(req.Pattern); err != nil {
		h.Error(c, err)
		return
	}

	tpl := numbering.SeriesTemplate{
		TenantID:      h.TenantID(c),
		SeriesCode:    series,
		Pattern:       req.Pattern,
		StartingValue: req.StartingValue,
	}
	if err := h.templates.Upsert(c.Request.Context(), tpl); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTemplate(&tpl))
}

// RegisterRoutes registers numbering template routes.
func (h *NumberingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:series", h.Get)
	rg.PUT("/:series", h.Upsert)
}
