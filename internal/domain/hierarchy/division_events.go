package hierarchy

import (
	"github.com/milorg/backend/internal/domain/shared"
)

// Aggregate type constant for Division
const AggregateTypeDivision = "Division"

// Division domain event types
const (
	EventTypeDivisionCreated     = "DivisionCreated"
	EventTypeDivisionMoved       = "DivisionMoved"
	EventTypeDivisionDeactivated = "DivisionDeactivated"
	EventTypeDivisionRestored    = "DivisionRestored"
)

// DivisionCreatedEvent is raised when a new division is created
type DivisionCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewDivisionCreatedEvent creates a new DivisionCreatedEvent
func NewDivisionCreatedEvent(div *Division) *DivisionCreatedEvent {
	return &DivisionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDivisionCreated, AggregateTypeDivision, div.ID),
		Code:            div.Code,
		Name:            div.Name,
	}
}

// DivisionMovedEvent is raised when a division is reparented
type DivisionMovedEvent struct {
	shared.BaseDomainEvent
	ParentID string `json:"parent_id"`
}

// NewDivisionMovedEvent creates a new DivisionMovedEvent
func NewDivisionMovedEvent(div *Division) *DivisionMovedEvent {
	parentID := ""
	if div.ParentID != nil {
		parentID = div.ParentID.String()
	}
	return &DivisionMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDivisionMoved, AggregateTypeDivision, div.ID),
		ParentID:        parentID,
	}
}

// DivisionDeactivatedEvent is raised when a division is deactivated
type DivisionDeactivatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewDivisionDeactivatedEvent creates a new DivisionDeactivatedEvent
func NewDivisionDeactivatedEvent(div *Division) *DivisionDeactivatedEvent {
	return &DivisionDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDivisionDeactivated, AggregateTypeDivision, div.ID),
		Code:            div.Code,
	}
}

// DivisionRestoredEvent is raised when a deactivated division is restored
type DivisionRestoredEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewDivisionRestoredEvent creates a new DivisionRestoredEvent
func NewDivisionRestoredEvent(div *Division) *DivisionRestoredEvent {
	return &DivisionRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDivisionRestored, AggregateTypeDivision, div.ID),
		Code:            div.Code,
	}
}
