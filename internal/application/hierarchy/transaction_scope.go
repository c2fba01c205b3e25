package hierarchy

import (
	"context"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/transfer"
)

// TransactionScope provides transactional access to the repositories the
// hierarchy manager mutates. A mutation and its audit entry run inside the
// same Execute call and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories the
// hierarchy manager needs within one transaction. All repositories share
// the same underlying database transaction.
//
// Transfers is read-only here: deactivation must reject divisions that are
// endpoints of an Active transfer, which crosses into the transfer
// context's data without mutating it.
type TransactionalRepositories interface {
	Divisions() hierarchy.DivisionRepository
	Transfers() transfer.TransferRepository
	AuditRecords() audit.Recorder
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for unit tests with mock repositories.
type NoOpTransactionScope struct {
	divisionRepo hierarchy.DivisionRepository
	transferRepo transfer.TransferRepository
	auditRepo    audit.Recorder
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	divisionRepo hierarchy.DivisionRepository,
	transferRepo transfer.TransferRepository,
	auditRepo audit.Recorder,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		divisionRepo: divisionRepo,
		transferRepo: transferRepo,
		auditRepo:    auditRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Divisions returns the division repository.
func (s *NoOpTransactionScope) Divisions() hierarchy.DivisionRepository {
	return s.divisionRepo
}

// Transfers returns the transfer repository.
func (s *NoOpTransactionScope) Transfers() transfer.TransferRepository {
	return s.transferRepo
}

// AuditRecords returns the audit recorder.
func (s *NoOpTransactionScope) AuditRecords() audit.Recorder {
	return s.auditRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
