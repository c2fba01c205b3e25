package transfer

import (
	"github.com/milorg/backend/internal/domain/shared"
)

// Aggregate type constant for Transfer
const AggregateTypeTransfer = "Transfer"

// Transfer domain event types
const (
	EventTypeTransferCreated   = "TransferCreated"
	EventTypeTransferActivated = "TransferActivated"
	EventTypeTransferCompleted = "TransferCompleted"
	EventTypeTransferCancelled = "TransferCancelled"
)

// TransferCreatedEvent is raised when a new transfer is created
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	Type                  string `json:"type"`
	SourceDivisionID      string `json:"source_division_id"`
	DestinationDivisionID string `json:"destination_division_id"`
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(t *Transfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeTransferCreated, AggregateTypeTransfer, t.ID),
		Type:                  t.Type,
		SourceDivisionID:      t.SourceDivisionID.String(),
		DestinationDivisionID: t.DestinationDivisionID.String(),
	}
}

// TransferActivatedEvent is raised when a transfer becomes active
type TransferActivatedEvent struct {
	shared.BaseDomainEvent
	ItemCount int `json:"item_count"`
}

// NewTransferActivatedEvent creates a new TransferActivatedEvent
func NewTransferActivatedEvent(t *Transfer) *TransferActivatedEvent {
	return &TransferActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferActivated, AggregateTypeTransfer, t.ID),
		ItemCount:       len(t.Items),
	}
}

// TransferCompletedEvent is raised when a transfer completes and items
// change location
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	DestinationDivisionID string `json:"destination_division_id"`
	ItemCount             int    `json:"item_count"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(t *Transfer) *TransferCompletedEvent {
	return &TransferCompletedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeTransferCompleted, AggregateTypeTransfer, t.ID),
		DestinationDivisionID: t.DestinationDivisionID.String(),
		ItemCount:             len(t.Items),
	}
}

// TransferCancelledEvent is raised when a transfer is cancelled
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(t *Transfer) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCancelled, AggregateTypeTransfer, t.ID),
	}
}
