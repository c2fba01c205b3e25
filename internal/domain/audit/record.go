package audit

import (
	"time"

	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Operation classifies the kind of state change an audit record captures.
type Operation string

const (
	OperationCreate       Operation = "CREATE"
	OperationUpdate       Operation = "UPDATE"
	OperationStatusChange Operation = "STATUS_CHANGE"
	OperationDelete       Operation = "DELETE"
)

// IsValid checks if the operation is a known Operation
func (o Operation) IsValid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationStatusChange, OperationDelete:
		return true
	}
	return false
}

// String returns the string representation of Operation
func (o Operation) String() string {
	return string(o)
}

// Snapshot is a point-in-time state capture of an entity, stored as JSON.
type Snapshot map[string]interface{}

// Record is an immutable audit trail entry. Once written it is never
// updated or deleted. Seq is assigned by the data store as a globally
// strictly-increasing sequence, never supplied by callers; per entity,
// records ordered by Seq reconstruct every state transition exactly once.
type Record struct {
	Seq        int64
	ID         uuid.UUID
	ActorID    uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Operation  Operation
	Before     Snapshot
	After      Snapshot
	RecordedAt time.Time
}

// Entry is the caller-supplied part of an audit record. The trail assigns
// Seq, ID and RecordedAt on append.
type Entry struct {
	ActorID    uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Operation  Operation
	Before     Snapshot
	After      Snapshot
}

// NewEntry builds an audit entry for one state transition.
func NewEntry(actorID uuid.UUID, entityType string, entityID uuid.UUID, op Operation, before, after Snapshot) (*Entry, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type cannot be empty")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY_ID", "Entity ID cannot be empty")
	}
	if !op.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Unknown audit operation: "+string(op))
	}
	return &Entry{
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  op,
		Before:     before,
		After:      after,
	}, nil
}
