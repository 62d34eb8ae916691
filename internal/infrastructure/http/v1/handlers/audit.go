package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"ordina/internal/core/audit"
	"ordina/internal/core/id"
	"ordina/internal/infrastructure/http/v1/dto"
)

// AuditReader reads back the audit trail. Satisfied by the postgres
// audit service, which transparently decompresses large change sets.
type AuditReader interface {
	GetEntityHistory(ctx context.Context, tenantID id.ID, entityType string, entityID id.ID, limit int) ([]audit.Entry, error)
}

// AuditHandler serves audit history reads.
type AuditHandler struct {
	*BaseHandler
	reader AuditReader
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(base *BaseHandler, reader AuditReader) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		reader:      reader,
	}
}

// AuditEntryResponse represents one audit entry in API responses.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	UserID     string          `json:"userId,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// History handles GET /audit/:entityType/:entityId.
func (h *AuditHandler) History(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "entityId")
	if !ok {
		return
	}
	entityType := c.Param("entityType")
	limit := h.ParseIntQuery(c, "limit", 100)

	entries, err := h.reader.GetEntityHistory(c.Request.Context(), h.TenantID(c), entityType, entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = AuditEntryResponse{
			ID:         e.ID.String(),
			EntityType: e.EntityType,
			EntityID:   e.EntityID.String(),
			Action:     string(e.Action),
			UserID:     e.UserID,
			Changes:    e.Changes,
			CreatedAt:  e.CreatedAt,
		}
	}

	h.OK(c, dto.ListResponse{Items: items, Limit: limit})
}

// RegisterRoutes registers audit routes.
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:entityType/:entityId", h.History)
}
