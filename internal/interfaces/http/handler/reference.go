package handler

import (
	"github.com/gin-gonic/gin"

	appreference "github.com/milorg/backend/internal/application/reference"
	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/interfaces/http/middleware"
)

// ReferenceHandler handles reference-data endpoints
type ReferenceHandler struct {
	BaseHandler
	service *appreference.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(service *appreference.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// CreateEntryRequest represents the request to create a reference entry
type CreateEntryRequest struct {
	Code      string `json:"code" binding:"required,min=1,max=64"`
	Label     string `json:"label" binding:"required,min=1,max=255"`
	SortOrder int    `json:"sort_order" binding:"omitempty,gte=0"`
}

func parseKind(c *gin.Context) (reference.Kind, bool) {
	kind := reference.Kind(c.Param("kind"))
	return kind, kind.IsValid()
}

// Create handles POST /reference/:kind
func (h *ReferenceHandler) Create(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		h.ErrorWithCode(c, "INVALID_REFERENCE_KIND", "Unknown reference kind")
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), actorID, appreference.CreateEntryInput{
		Kind:      kind,
		Code:      req.Code,
		Label:     req.Label,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// ListByKind handles GET /reference/:kind
func (h *ReferenceHandler) ListByKind(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		h.ErrorWithCode(c, "INVALID_REFERENCE_KIND", "Unknown reference kind")
		return
	}

	entries, err := h.service.ListByKind(c.Request.Context(), kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// Get handles GET /reference/:kind/:code
func (h *ReferenceHandler) Get(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		h.ErrorWithCode(c, "INVALID_REFERENCE_KIND", "Unknown reference kind")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Reference code is required")
		return
	}

	entry, err := h.service.GetEntry(c.Request.Context(), kind, code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Deactivate handles POST /reference/:kind/:code/deactivate
func (h *ReferenceHandler) Deactivate(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		h.ErrorWithCode(c, "INVALID_REFERENCE_KIND", "Unknown reference kind")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Reference code is required")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	if err := h.service.DeactivateEntry(c.Request.Context(), actorID, kind, code); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
