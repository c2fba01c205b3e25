package order

import (
	"strings"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AssignmentStatus represents the status of an assignment
type AssignmentStatus string

const (
	AssignmentStatusPending    AssignmentStatus = "PENDING"
	AssignmentStatusAccepted   AssignmentStatus = "ACCEPTED"
	AssignmentStatusInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentStatusReported   AssignmentStatus = "REPORTED"
	AssignmentStatusClosed     AssignmentStatus = "CLOSED"
)

// IsValid checks if the status is a valid AssignmentStatus
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusAccepted, AssignmentStatusInProgress, AssignmentStatusReported, AssignmentStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of AssignmentStatus
func (s AssignmentStatus) String() string {
	return string(s)
}

// Next returns the single status an assignment may advance to, or "" for
// the terminal Closed state. Assignments step forward one edge at a time.
func (s AssignmentStatus) Next() AssignmentStatus {
	switch s {
	case AssignmentStatusPending:
		return AssignmentStatusAccepted
	case AssignmentStatusAccepted:
		return AssignmentStatusInProgress
	case AssignmentStatusInProgress:
		return AssignmentStatusReported
	case AssignmentStatusReported:
		return AssignmentStatusClosed
	}
	return ""
}

// Assignment delegates execution of an order to an executor. It carries no
// deeper business rules; every status step is audited.
type Assignment struct {
	shared.BaseAggregateRoot
	OrderID    uuid.UUID
	ExecutorID uuid.UUID
	TargetType string // Reference code
	Priority   string // Optional reference code
	Status     AssignmentStatus
}

// NewAssignment creates a new pending assignment
func NewAssignment(orderID, executorID uuid.UUID, targetType, priority string) (*Assignment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Assignment order cannot be empty")
	}
	if executorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXECUTOR", "Assignment executor cannot be empty")
	}
	if strings.TrimSpace(targetType) == "" {
		return nil, shared.NewDomainError("INVALID_TARGET_TYPE", "Assignment target type cannot be empty")
	}

	return &Assignment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		ExecutorID:        executorID,
		TargetType:        strings.TrimSpace(targetType),
		Priority:          strings.TrimSpace(priority),
		Status:            AssignmentStatusPending,
	}, nil
}

// Advance moves the assignment to the given status, which must be the
// next edge in Pending -> Accepted -> InProgress -> Reported -> Closed.
func (a *Assignment) Advance(target AssignmentStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATE", "Unknown assignment status: "+target.String())
	}
	if a.Status.Next() != target {
		return shared.NewDomainError("INVALID_STATE", "Assignment "+a.ID.String()+" cannot advance from "+a.Status.String()+" to "+target.String())
	}

	a.Status = target
	a.Touch()

	return nil
}

// Snapshot captures the assignment state for the audit trail
func (a *Assignment) Snapshot() audit.Snapshot {
	return audit.Snapshot{
		"order_id":    a.OrderID.String(),
		"executor_id": a.ExecutorID.String(),
		"target_type": a.TargetType,
		"priority":    a.Priority,
		"status":      string(a.Status),
	}
}
