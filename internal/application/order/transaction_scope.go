package order

import (
	"context"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/order"
	"github.com/milorg/backend/internal/domain/reference"
)

// TransactionScope provides transactional access to the repositories the
// order tracker mutates. Term completion and the order transition it may
// trigger run inside one Execute call.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories the order
// tracker needs within one transaction. Divisions and References are
// read-only here; they validate recipients and codes.
type TransactionalRepositories interface {
	Orders() order.OrderRepository
	Assignments() order.AssignmentRepository
	Divisions() hierarchy.DivisionRepository
	References() reference.EntryRepository
	AuditRecords() audit.Recorder
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for unit tests with mock repositories.
type NoOpTransactionScope struct {
	orderRepo      order.OrderRepository
	assignmentRepo order.AssignmentRepository
	divisionRepo   hierarchy.DivisionRepository
	referenceRepo  reference.EntryRepository
	auditRepo      audit.Recorder
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo order.OrderRepository,
	assignmentRepo order.AssignmentRepository,
	divisionRepo hierarchy.DivisionRepository,
	referenceRepo reference.EntryRepository,
	auditRepo audit.Recorder,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:      orderRepo,
		assignmentRepo: assignmentRepo,
		divisionRepo:   divisionRepo,
		referenceRepo:  referenceRepo,
		auditRepo:      auditRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.OrderRepository {
	return s.orderRepo
}

// Assignments returns the assignment repository
func (s *NoOpTransactionScope) Assignments() order.AssignmentRepository {
	return s.assignmentRepo
}

// Divisions returns the division repository
func (s *NoOpTransactionScope) Divisions() hierarchy.DivisionRepository {
	return s.divisionRepo
}

// References returns the reference entry repository
func (s *NoOpTransactionScope) References() reference.EntryRepository {
	return s.referenceRepo
}

// AuditRecords returns the audit recorder
func (s *NoOpTransactionScope) AuditRecords() audit.Recorder {
	return s.auditRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
