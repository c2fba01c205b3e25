package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appaudit "github.com/milorg/backend/internal/application/audit"
	"github.com/milorg/backend/internal/interfaces/http/dto"
	"github.com/milorg/backend/internal/interfaces/http/middleware"
)

// AuditHandler exposes the append-only audit trail for reading
type AuditHandler struct {
	BaseHandler
	service *appaudit.HistoryService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service *appaudit.HistoryService) *AuditHandler {
	return &AuditHandler{service: service}
}

// History handles GET /audit/:entity_type/:entity_id
func (h *AuditHandler) History(c *gin.Context) {
	entityType := c.Param("entity_type")
	if entityType == "" {
		h.BadRequest(c, "Entity type is required")
		return
	}

	entityID, err := uuid.Parse(c.Param("entity_id"))
	if err != nil {
		h.BadRequest(c, "Invalid entity ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	records, total, err := h.service.GetHistory(c.Request.Context(), entityType, entityID, appaudit.HistoryFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, req.Page, req.PageSize)
}
