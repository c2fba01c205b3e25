package transfer

import (
	"context"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/domain/transfer"
)

// TransactionScope provides transactional access to the repositories the
// transfer engine mutates. The activation check-and-set and the completion
// location updates each run inside one Execute call.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories the
// transfer engine needs within one transaction. Divisions and References
// are read-only here; they validate endpoints and codes.
type TransactionalRepositories interface {
	Transfers() transfer.TransferRepository
	Holdings() transfer.HoldingRepository
	Divisions() hierarchy.DivisionRepository
	References() reference.EntryRepository
	AuditRecords() audit.Recorder
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for unit tests with mock repositories.
type NoOpTransactionScope struct {
	transferRepo  transfer.TransferRepository
	holdingRepo   transfer.HoldingRepository
	divisionRepo  hierarchy.DivisionRepository
	referenceRepo reference.EntryRepository
	auditRepo     audit.Recorder
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	transferRepo transfer.TransferRepository,
	holdingRepo transfer.HoldingRepository,
	divisionRepo hierarchy.DivisionRepository,
	referenceRepo reference.EntryRepository,
	auditRepo audit.Recorder,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		transferRepo:  transferRepo,
		holdingRepo:   holdingRepo,
		divisionRepo:  divisionRepo,
		referenceRepo: referenceRepo,
		auditRepo:     auditRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Transfers returns the transfer repository.
func (s *NoOpTransactionScope) Transfers() transfer.TransferRepository {
	return s.transferRepo
}

// Holdings returns the holding repository.
func (s *NoOpTransactionScope) Holdings() transfer.HoldingRepository {
	return s.holdingRepo
}

// Divisions returns the division repository.
func (s *NoOpTransactionScope) Divisions() hierarchy.DivisionRepository {
	return s.divisionRepo
}

// References returns the reference entry repository.
func (s *NoOpTransactionScope) References() reference.EntryRepository {
	return s.referenceRepo
}

// AuditRecords returns the audit recorder.
func (s *NoOpTransactionScope) AuditRecords() audit.Recorder {
	return s.auditRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
