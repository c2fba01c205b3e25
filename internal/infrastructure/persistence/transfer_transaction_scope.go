package persistence

import (
	"context"

	apptransfer "github.com/milorg/backend/internal/application/transfer"
	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransferTransactionScope runs transfer units of work inside a
// database transaction
type GormTransferTransactionScope struct {
	db *gorm.DB
}

// NewGormTransferTransactionScope creates a new GormTransferTransactionScope
func NewGormTransferTransactionScope(db *gorm.DB) *GormTransferTransactionScope {
	return &GormTransferTransactionScope{db: db}
}

// Execute runs fn inside a transaction; repositories handed to fn share it
func (s *GormTransferTransactionScope) Execute(ctx context.Context, fn func(repos apptransfer.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransferRepositories{tx: tx})
	})
}

type gormTransferRepositories struct {
	tx *gorm.DB
}

func (r *gormTransferRepositories) Transfers() transfer.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

func (r *gormTransferRepositories) Holdings() transfer.HoldingRepository {
	return NewGormHoldingRepository(r.tx)
}

func (r *gormTransferRepositories) Divisions() hierarchy.DivisionRepository {
	return NewGormDivisionRepository(r.tx)
}

func (r *gormTransferRepositories) References() reference.EntryRepository {
	return NewGormReferenceRepository(r.tx)
}

func (r *gormTransferRepositories) AuditRecords() audit.Recorder {
	return NewGormAuditRecordRepository(r.tx)
}

var _ apptransfer.TransactionScope = (*GormTransferTransactionScope)(nil)
var _ apptransfer.TransactionalRepositories = (*gormTransferRepositories)(nil)
