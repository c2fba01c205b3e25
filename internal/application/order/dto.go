package order

import (
	"time"

	"github.com/milorg/backend/internal/domain/order"
	"github.com/google/uuid"
)

// CreateOrderInput contains input for creating an order
type CreateOrderInput struct {
	OrderNumber          string
	Type                 string
	Priority             string
	IssuingDivisionID    uuid.UUID
	RecipientDivisionIDs []uuid.UUID
	Terms                []TermInput
}

// TermInput contains input for one order term
type TermInput struct {
	Description string
	DueDate     *time.Time
}

// CreateAssignmentInput contains input for creating an assignment
type CreateAssignmentInput struct {
	OrderID    uuid.UUID
	ExecutorID uuid.UUID
	TargetType string
	Priority   string
}

// ListOrdersFilter contains list parameters for orders
type ListOrdersFilter struct {
	Page       int
	PageSize   int
	Status     string
	DivisionID *uuid.UUID
}

// TermResponse is the read model for one order term
type TermResponse struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID `json:"completed_by,omitempty"`
}

// OrderResponse is the read model returned by the order tracker
type OrderResponse struct {
	ID                   uuid.UUID      `json:"id"`
	OrderNumber          string         `json:"order_number"`
	Type                 string         `json:"type"`
	Priority             string         `json:"priority,omitempty"`
	Status               string         `json:"status"`
	IssuingDivisionID    uuid.UUID      `json:"issuing_division_id"`
	RecipientDivisionIDs []uuid.UUID    `json:"recipient_division_ids"`
	Terms                []TermResponse `json:"terms"`
	IssuedAt             *time.Time     `json:"issued_at,omitempty"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
	CancelledAt          *time.Time     `json:"cancelled_at,omitempty"`
	Version              int            `json:"version"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// CompleteTermResult reports what completing a term did to the parent order
type CompleteTermResult struct {
	Effect      order.TermCompletionEffect `json:"effect"`
	OrderID     uuid.UUID                  `json:"order_id"`
	OrderStatus string                     `json:"order_status"`
}

// AssignmentResponse is the read model for an assignment
type AssignmentResponse struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	ExecutorID uuid.UUID `json:"executor_id"`
	TargetType string    `json:"target_type"`
	Priority   string    `json:"priority,omitempty"`
	Status     string    `json:"status"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToTermResponse converts a domain term to its response form
func ToTermResponse(t *order.Term) TermResponse {
	return TermResponse{
		ID:          t.ID,
		Description: t.Description,
		DueDate:     t.DueDate,
		Done:        t.Done,
		CompletedAt: t.CompletedAt,
		CompletedBy: t.CompletedBy,
	}
}

// ToOrderResponse converts a domain order to its response form
func ToOrderResponse(o *order.Order) OrderResponse {
	terms := make([]TermResponse, 0, len(o.Terms))
	for i := range o.Terms {
		terms = append(terms, ToTermResponse(&o.Terms[i]))
	}
	return OrderResponse{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		Type:                 o.Type,
		Priority:             o.Priority,
		Status:               string(o.Status),
		IssuingDivisionID:    o.IssuingDivisionID,
		RecipientDivisionIDs: o.RecipientDivisionIDs,
		Terms:                terms,
		IssuedAt:             o.IssuedAt,
		CompletedAt:          o.CompletedAt,
		CancelledAt:          o.CancelledAt,
		Version:              o.Version,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}

// ToAssignmentResponse converts a domain assignment to its response form
func ToAssignmentResponse(a *order.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID,
		OrderID:    a.OrderID,
		ExecutorID: a.ExecutorID,
		TargetType: a.TargetType,
		Priority:   a.Priority,
		Status:     string(a.Status),
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ToAssignmentResponses converts a slice of domain assignments
func ToAssignmentResponses(as []order.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(as))
	for i := range as {
		out = append(out, ToAssignmentResponse(&as[i]))
	}
	return out
}
