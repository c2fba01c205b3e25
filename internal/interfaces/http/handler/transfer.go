package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apptransfer "github.com/milorg/backend/internal/application/transfer"
	"github.com/milorg/backend/internal/interfaces/http/dto"
	"github.com/milorg/backend/internal/interfaces/http/middleware"
)

// TransferHandler handles transfer lifecycle endpoints
type TransferHandler struct {
	BaseHandler
	service *apptransfer.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(service *apptransfer.TransferService) *TransferHandler {
	return &TransferHandler{service: service}
}

// TransferItemRequest represents one item on a transfer request
type TransferItemRequest struct {
	ItemType    string          `json:"item_type" binding:"required,min=1,max=64"`
	Identifier  string          `json:"identifier" binding:"required,min=1,max=128"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Unit        string          `json:"unit" binding:"omitempty,max=32"`
	Description string          `json:"description" binding:"omitempty,max=512"`
}

// CreateTransferRequest represents the request to create a transfer
type CreateTransferRequest struct {
	Category              string                `json:"category" binding:"omitempty,max=64"`
	Type                  string                `json:"type" binding:"required,min=1,max=64"`
	SourceDivisionID      string                `json:"source_division_id" binding:"required,uuid"`
	DestinationDivisionID string                `json:"destination_division_id" binding:"required,uuid"`
	OrderID               *string               `json:"order_id" binding:"omitempty,uuid"`
	EffectiveDate         time.Time             `json:"effective_date" binding:"required"`
	DueDate               *time.Time            `json:"due_date"`
	Items                 []TransferItemRequest `json:"items" binding:"omitempty,dive"`
}

func (r *TransferItemRequest) toInput() apptransfer.TransferItemInput {
	return apptransfer.TransferItemInput{
		ItemType:    r.ItemType,
		Identifier:  r.Identifier,
		Quantity:    r.Quantity,
		Unit:        r.Unit,
		Description: r.Description,
	}
}

// Create handles POST /transfers
func (h *TransferHandler) Create(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	sourceID, err := uuid.Parse(req.SourceDivisionID)
	if err != nil {
		h.BadRequest(c, "Invalid source_division_id")
		return
	}
	destinationID, err := uuid.Parse(req.DestinationDivisionID)
	if err != nil {
		h.BadRequest(c, "Invalid destination_division_id")
		return
	}

	input := apptransfer.CreateTransferInput{
		Category:              req.Category,
		Type:                  req.Type,
		SourceDivisionID:      sourceID,
		DestinationDivisionID: destinationID,
		EffectiveDate:         req.EffectiveDate,
		DueDate:               req.DueDate,
	}
	if req.OrderID != nil {
		orderID, err := uuid.Parse(*req.OrderID)
		if err != nil {
			h.BadRequest(c, "Invalid order_id")
			return
		}
		input.OrderID = &orderID
	}
	for i := range req.Items {
		input.Items = append(input.Items, req.Items[i].toInput())
	}

	transfer, err := h.service.CreateTransfer(c.Request.Context(), actorID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// Get handles GET /transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c, "Invalid transfer ID")
	if !ok {
		return
	}

	transfer, err := h.service.GetTransfer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// List handles GET /transfers
func (h *TransferHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := apptransfer.ListTransfersFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Status:   c.Query("status"),
	}
	if divisionParam := c.Query("division_id"); divisionParam != "" {
		divisionID, err := uuid.Parse(divisionParam)
		if err != nil {
			h.BadRequest(c, "Invalid division_id")
			return
		}
		filter.DivisionID = &divisionID
	}

	transfers, total, err := h.service.ListTransfers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transfers, total, req.Page, req.PageSize)
}

// AddItem handles POST /transfers/:id/items
func (h *TransferHandler) AddItem(c *gin.Context) {
	id, ok := h.bindID(c, "Invalid transfer ID")
	if !ok {
		return
	}

	var req TransferItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), actorID, id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// Activate handles POST /transfers/:id/activate
func (h *TransferHandler) Activate(c *gin.Context) {
	h.transition(c, h.service.ActivateTransfer)
}

// Complete handles POST /transfers/:id/complete
func (h *TransferHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.CompleteTransfer)
}

// Cancel handles POST /transfers/:id/cancel
func (h *TransferHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.CancelTransfer)
}

func (h *TransferHandler) transition(c *gin.Context, fn func(ctx context.Context, actorID, transferID uuid.UUID) error) {
	id, ok := h.bindID(c, "Invalid transfer ID")
	if !ok {
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	if err := fn(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetHolding handles GET /holdings/:item_type/:identifier
func (h *TransferHandler) GetHolding(c *gin.Context) {
	itemType := c.Param("item_type")
	identifier := c.Param("identifier")
	if itemType == "" || identifier == "" {
		h.BadRequest(c, "Item type and identifier are required")
		return
	}

	holding, err := h.service.GetHolding(c.Request.Context(), itemType, identifier)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, holding)
}

// ListDivisionHoldings handles GET /divisions/:id/holdings
func (h *TransferHandler) ListDivisionHoldings(c *gin.Context) {
	divisionID, ok := h.bindID(c, "Invalid division ID")
	if !ok {
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	holdings, err := h.service.ListHoldingsByDivision(c.Request.Context(), divisionID, apptransfer.ListHoldingsFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		ItemType: c.Query("item_type"),
		Search:   req.Search,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, holdings)
}
