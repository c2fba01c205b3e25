package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apphierarchy "github.com/milorg/backend/internal/application/hierarchy"
	"github.com/milorg/backend/internal/interfaces/http/dto"
	"github.com/milorg/backend/internal/interfaces/http/middleware"
)

// DivisionHandler handles division hierarchy endpoints
type DivisionHandler struct {
	BaseHandler
	service *apphierarchy.HierarchyService
}

// NewDivisionHandler creates a new DivisionHandler
func NewDivisionHandler(service *apphierarchy.HierarchyService) *DivisionHandler {
	return &DivisionHandler{service: service}
}

// CreateDivisionRequest represents the request to create a division
type CreateDivisionRequest struct {
	Code       string  `json:"code" binding:"required,min=1,max=64"`
	Name       string  `json:"name" binding:"required,min=1,max=255"`
	ShortName  string  `json:"short_name" binding:"omitempty,max=64"`
	ParentID   *string `json:"parent_id" binding:"omitempty,uuid"`
	SortOrder  *int    `json:"sort_order" binding:"omitempty,gte=0"`
	IsInternal bool    `json:"is_internal"`
}

// MoveDivisionRequest represents the request to move a division
type MoveDivisionRequest struct {
	NewParentID string `json:"new_parent_id" binding:"required,uuid"`
}

// Create handles POST /divisions
func (h *DivisionHandler) Create(c *gin.Context) {
	var req CreateDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	input := apphierarchy.CreateDivisionInput{
		Code:       req.Code,
		Name:       req.Name,
		ShortName:  req.ShortName,
		SortOrder:  req.SortOrder,
		IsInternal: req.IsInternal,
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			h.BadRequest(c, "Invalid parent_id")
			return
		}
		input.ParentID = &parentID
	}

	division, err := h.service.CreateDivision(c.Request.Context(), actorID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, division)
}

// Get handles GET /divisions/:id
func (h *DivisionHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c, "Invalid division ID")
	if !ok {
		return
	}

	division, err := h.service.GetDivision(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, division)
}

// List handles GET /divisions
func (h *DivisionHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := apphierarchy.ListDivisionsFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Status:   c.Query("status"),
	}

	divisions, total, err := h.service.ListDivisions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, divisions, total, req.Page, req.PageSize)
}

// Children handles GET /divisions/:id/children
func (h *DivisionHandler) Children(c *gin.Context) {
	id, ok := h.bindID(c, "Invalid division ID")
	if !ok {
		return
	}

	children, err := h.service.GetChildren(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, children)
}

// Subtree handles GET /divisions/:id/subtree
func (h *DivisionHandler) Subtree(c *gin.Context) {
	id, ok := h.bindID(c, "Invalid division ID")
	if !ok {
		return
	}

	subtree, err := h.service.GetSubtree(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subtree)
}

// Move handles POST /divisions/:id/move
func (h *DivisionHandler) Move(c *gin.Context) {
	id, ok := h.bindID(c, "Invalid division ID")
	if !ok {
		return
	}

	var req MoveDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	newParentID, err := uuid.Parse(req.NewParentID)
	if err != nil {
		h.BadRequest(c, "Invalid new_parent_id")
		return
	}

	if err := h.service.MoveDivision(c.Request.Context(), actorID, id, newParentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate handles POST /divisions/:id/deactivate
func (h *DivisionHandler) Deactivate(c *gin.Context) {
	id, ok := h.bindID(c, "Invalid division ID")
	if !ok {
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	if err := h.service.DeactivateDivision(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Restore handles POST /divisions/:id/restore
func (h *DivisionHandler) Restore(c *gin.Context) {
	id, ok := h.bindID(c, "Invalid division ID")
	if !ok {
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	if err := h.service.RestoreDivision(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
