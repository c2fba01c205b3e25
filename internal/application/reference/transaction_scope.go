package reference

import (
	"context"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/reference"
)

// TransactionScope provides transactional access to the repositories the
// reference service mutates.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories the
// reference service needs within one transaction.
type TransactionalRepositories interface {
	References() reference.EntryRepository
	AuditRecords() audit.Recorder
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for unit tests with mock repositories.
type NoOpTransactionScope struct {
	referenceRepo reference.EntryRepository
	auditRepo     audit.Recorder
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(referenceRepo reference.EntryRepository, auditRepo audit.Recorder) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		referenceRepo: referenceRepo,
		auditRepo:     auditRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
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
