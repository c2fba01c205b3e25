package order

import (
	"strings"
	"time"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Audit trail entity types for the order context.
const (
	EntityType           = "order"
	TermEntityType       = "order_term"
	AssignmentEntityType = "assignment"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusIssued     OrderStatus = "ISSUED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusIssued, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses no transition leaves
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// Progress is monotonic; Cancelled is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusIssued || target == OrderStatusCancelled
	case OrderStatusIssued:
		return target == OrderStatusInProgress || target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusInProgress:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// TermCompletionEffect reports what completing a term did to the parent
// order.
type TermCompletionEffect string

const (
	// EffectAlreadyComplete means the term was complete before the call;
	// nothing was written. Repeated completion requests are expected, so
	// this is a result, not an error.
	EffectAlreadyComplete TermCompletionEffect = "ALREADY_COMPLETE"
	// EffectOrderStillOpen means the term completed but other terms remain
	// open.
	EffectOrderStillOpen TermCompletionEffect = "ORDER_STILL_OPEN"
	// EffectOrderCompleted means this was the last open term and the order
	// transitioned to Completed in the same unit of work.
	EffectOrderCompleted TermCompletionEffect = "ORDER_COMPLETED"
	// EffectOrderNotEligible means every term is complete but the order's
	// status does not admit auto-completion (e.g. Cancelled or Draft); the
	// term completion stands.
	EffectOrderNotEligible TermCompletionEffect = "ORDER_NOT_ELIGIBLE"
)

// Term is a discrete completion condition attached to an order. An order
// reaches Completed only when all of its terms are complete.
type Term struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Description string
	DueDate     *time.Time
	Done        bool
	CompletedAt *time.Time
	CompletedBy *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTerm creates a new open term
func NewTerm(orderID uuid.UUID, description string, dueDate *time.Time) (*Term, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_TERM", "Term description cannot be empty")
	}

	now := time.Now()
	return &Term{
		ID:          uuid.New(),
		OrderID:     orderID,
		Description: strings.TrimSpace(description),
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Snapshot captures the term state for the audit trail
func (t *Term) Snapshot() audit.Snapshot {
	snap := audit.Snapshot{
		"order_id":    t.OrderID.String(),
		"description": t.Description,
		"done":        t.Done,
	}
	if t.DueDate != nil {
		snap["due_date"] = t.DueDate.UTC().Format(time.RFC3339)
	}
	if t.CompletedAt != nil {
		snap["completed_at"] = t.CompletedAt.UTC().Format(time.RFC3339)
	}
	if t.CompletedBy != nil {
		snap["completed_by"] = t.CompletedBy.String()
	}
	return snap
}

// Order is issued by one division to one or more recipient divisions and
// tracks completion through its terms.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber          string
	Type                 string // Reference code
	Priority             string // Optional reference code
	Status               OrderStatus
	IssuingDivisionID    uuid.UUID
	RecipientDivisionIDs []uuid.UUID
	Terms                []Term
	IssuedAt             *time.Time
	CompletedAt          *time.Time
	CancelledAt          *time.Time
}

// NewOrder creates a new draft order
func NewOrder(orderNumber, orderType, priority string, issuingDivisionID uuid.UUID, recipientDivisionIDs []uuid.UUID) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if strings.TrimSpace(orderType) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", "Order type cannot be empty")
	}
	if issuingDivisionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DIVISION", "Issuing division cannot be empty")
	}
	if len(recipientDivisionIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_DIVISION", "Order must have at least one recipient division")
	}

	o := &Order{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		OrderNumber:          strings.TrimSpace(orderNumber),
		Type:                 strings.TrimSpace(orderType),
		Priority:             strings.TrimSpace(priority),
		Status:               OrderStatusDraft,
		IssuingDivisionID:    issuingDivisionID,
		RecipientDivisionIDs: recipientDivisionIDs,
		Terms:                make([]Term, 0),
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// AddTerm attaches a new completion condition to a non-terminal order
func (o *Order) AddTerm(description string, dueDate *time.Time) (*Term, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add terms to order "+o.ID.String()+" in status "+o.Status.String())
	}

	term, err := NewTerm(o.ID, description, dueDate)
	if err != nil {
		return nil, err
	}

	o.Terms = append(o.Terms, *term)
	o.Touch()

	return term, nil
}

// Issue transitions the order from Draft to Issued
func (o *Order) Issue() error {
	if err := o.transitionTo(OrderStatusIssued); err != nil {
		return err
	}
	now := time.Now()
	o.IssuedAt = &now
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusDraft))
	return nil
}

// Start transitions the order from Issued to InProgress
func (o *Order) Start() error {
	from := o.Status
	if err := o.transitionTo(OrderStatusInProgress); err != nil {
		return err
	}
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// Cancel aborts the order from any non-terminal state
func (o *Order) Cancel() error {
	from := o.Status
	if err := o.transitionTo(OrderStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// CompleteTerm marks one term complete and evaluates the order. It is
// idempotent: a term that is already complete yields EffectAlreadyComplete
// without any mutation. When the last open term completes and the order is
// eligible (Issued or InProgress), the order transitions to Completed in
// the same call.
func (o *Order) CompleteTerm(termID, actorID uuid.UUID) (TermCompletionEffect, error) {
	var term *Term
	for i := range o.Terms {
		if o.Terms[i].ID == termID {
			term = &o.Terms[i]
			break
		}
	}
	if term == nil {
		return "", shared.NewDomainError("NOT_FOUND", "Term not found on order: "+termID.String())
	}

	if term.Done {
		return EffectAlreadyComplete, nil
	}

	now := time.Now()
	term.Done = true
	term.CompletedAt = &now
	term.CompletedBy = &actorID
	term.UpdatedAt = now
	o.Touch()

	if !o.AllTermsComplete() {
		return EffectOrderStillOpen, nil
	}

	if o.Status != OrderStatusIssued && o.Status != OrderStatusInProgress {
		return EffectOrderNotEligible, nil
	}

	from := o.Status
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))

	return EffectOrderCompleted, nil
}

// AllTermsComplete returns true when the order has terms and all are done
func (o *Order) AllTermsComplete() bool {
	if len(o.Terms) == 0 {
		return false
	}
	for _, term := range o.Terms {
		if !term.Done {
			return false
		}
	}
	return true
}

// FindTerm returns the term with the given ID, or nil
func (o *Order) FindTerm(termID uuid.UUID) *Term {
	for i := range o.Terms {
		if o.Terms[i].ID == termID {
			return &o.Terms[i]
		}
	}
	return nil
}

func (o *Order) transitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Order "+o.ID.String()+" cannot transition from "+o.Status.String()+" to "+target.String())
	}
	o.Status = target
	o.Touch()
	return nil
}

// Snapshot captures the order state for the audit trail
func (o *Order) Snapshot() audit.Snapshot {
	recipients := make([]string, 0, len(o.RecipientDivisionIDs))
	for _, id := range o.RecipientDivisionIDs {
		recipients = append(recipients, id.String())
	}
	openTerms := 0
	for _, term := range o.Terms {
		if !term.Done {
			openTerms++
		}
	}
	return audit.Snapshot{
		"order_number":        o.OrderNumber,
		"type":                o.Type,
		"priority":            o.Priority,
		"status":              string(o.Status),
		"issuing_division_id": o.IssuingDivisionID.String(),
		"recipient_divisions": recipients,
		"term_count":          len(o.Terms),
		"open_terms":          openTerms,
	}
}
