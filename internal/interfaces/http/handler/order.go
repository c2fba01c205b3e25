package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/milorg/backend/internal/application/order"
	"github.com/milorg/backend/internal/domain/order"
	"github.com/milorg/backend/internal/interfaces/http/dto"
	"github.com/milorg/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order and assignment endpoints
type OrderHandler struct {
	BaseHandler
	service *apporder.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *apporder.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// TermRequest represents one term on an order request
type TermRequest struct {
	Description string     `json:"description" binding:"required,min=1,max=512"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateOrderRequest represents the request to create an order
type CreateOrderRequest struct {
	OrderNumber          string        `json:"order_number" binding:"required,min=1,max=64"`
	Type                 string        `json:"type" binding:"required,min=1,max=64"`
	Priority             string        `json:"priority" binding:"omitempty,max=32"`
	IssuingDivisionID    string        `json:"issuing_division_id" binding:"required,uuid"`
	RecipientDivisionIDs []string      `json:"recipient_division_ids" binding:"required,min=1,dive,uuid"`
	Terms                []TermRequest `json:"terms" binding:"omitempty,dive"`
}

// CreateAssignmentRequest represents the request to create an assignment
type CreateAssignmentRequest struct {
	ExecutorID string `json:"executor_id" binding:"required,uuid"`
	TargetType string `json:"target_type" binding:"required,min=1,max=64"`
	Priority   string `json:"priority" binding:"omitempty,max=32"`
}

// AdvanceAssignmentRequest represents the request to advance an assignment
type AdvanceAssignmentRequest struct {
	Target string `json:"target" binding:"required,oneof=PENDING ACCEPTED IN_PROGRESS REPORTED CLOSED"`
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	issuingID, err := uuid.Parse(req.IssuingDivisionID)
	if err != nil {
		h.BadRequest(c, "Invalid issuing_division_id")
		return
	}

	input := apporder.CreateOrderInput{
		OrderNumber:       req.OrderNumber,
		Type:              req.Type,
		Priority:          req.Priority,
		IssuingDivisionID: issuingID,
	}
	for _, raw := range req.RecipientDivisionIDs {
		recipientID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid recipient_division_ids")
			return
		}
		input.RecipientDivisionIDs = append(input.RecipientDivisionIDs, recipientID)
	}
	for _, term := range req.Terms {
		input.Terms = append(input.Terms, apporder.TermInput{
			Description: term.Description,
			DueDate:     term.DueDate,
		})
	}

	created, err := h.service.CreateOrder(c.Request.Context(), actorID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, created)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c, "Invalid order ID")
	if !ok {
		return
	}

	found, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, found)
}

// GetByNumber handles GET /orders/by-number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	found, err := h.service.GetOrderByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, found)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := apporder.ListOrdersFilter{
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

	orders, total, err := h.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, req.Page, req.PageSize)
}

// AddTerm handles POST /orders/:id/terms
func (h *OrderHandler) AddTerm(c *gin.Context) {
	orderID, ok := h.bindID(c, "Invalid order ID")
	if !ok {
		return
	}

	var req TermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	term, err := h.service.AddTerm(c.Request.Context(), actorID, orderID, apporder.TermInput{
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, term)
}

// Issue handles POST /orders/:id/issue
func (h *OrderHandler) Issue(c *gin.Context) {
	h.transition(c, h.service.IssueOrder)
}

// Start handles POST /orders/:id/start
func (h *OrderHandler) Start(c *gin.Context) {
	h.transition(c, h.service.StartOrder)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.CancelOrder)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, actorID, orderID uuid.UUID) error) {
	orderID, ok := h.bindID(c, "Invalid order ID")
	if !ok {
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	if err := fn(c.Request.Context(), actorID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CompleteTerm handles POST /terms/:id/complete. Completing a term more
// than once is a no-op; completing the last open term completes the order.
func (h *OrderHandler) CompleteTerm(c *gin.Context) {
	termID, ok := h.bindID(c, "Invalid term ID")
	if !ok {
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	result, err := h.service.CompleteTerm(c.Request.Context(), actorID, termID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CreateAssignment handles POST /orders/:id/assignments
func (h *OrderHandler) CreateAssignment(c *gin.Context) {
	orderID, ok := h.bindID(c, "Invalid order ID")
	if !ok {
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	executorID, err := uuid.Parse(req.ExecutorID)
	if err != nil {
		h.BadRequest(c, "Invalid executor_id")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	assignment, err := h.service.CreateAssignment(c.Request.Context(), actorID, apporder.CreateAssignmentInput{
		OrderID:    orderID,
		ExecutorID: executorID,
		TargetType: req.TargetType,
		Priority:   req.Priority,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, assignment)
}

// ListAssignments handles GET /orders/:id/assignments
func (h *OrderHandler) ListAssignments(c *gin.Context) {
	orderID, ok := h.bindID(c, "Invalid order ID")
	if !ok {
		return
	}

	assignments, err := h.service.ListAssignments(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, assignments)
}

// AdvanceAssignment handles POST /assignments/:id/advance
func (h *OrderHandler) AdvanceAssignment(c *gin.Context) {
	assignmentID, ok := h.bindID(c, "Invalid assignment ID")
	if !ok {
		return
	}

	var req AdvanceAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	target := order.AssignmentStatus(req.Target)
	if err := h.service.AdvanceAssignment(c.Request.Context(), actorID, assignmentID, target); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
