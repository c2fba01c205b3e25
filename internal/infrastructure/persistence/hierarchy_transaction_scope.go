package persistence

import (
	"context"

	apphierarchy "github.com/milorg/backend/internal/application/hierarchy"
	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormHierarchyTransactionScope runs hierarchy units of work inside a
// database transaction
type GormHierarchyTransactionScope struct {
	db *gorm.DB
}

// NewGormHierarchyTransactionScope creates a new GormHierarchyTransactionScope
func NewGormHierarchyTransactionScope(db *gorm.DB) *GormHierarchyTransactionScope {
	return &GormHierarchyTransactionScope{db: db}
}

// Execute runs fn inside a transaction; repositories handed to fn share it
func (s *GormHierarchyTransactionScope) Execute(ctx context.Context, fn func(repos apphierarchy.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormHierarchyRepositories{tx: tx})
	})
}

type gormHierarchyRepositories struct {
	tx *gorm.DB
}

func (r *gormHierarchyRepositories) Divisions() hierarchy.DivisionRepository {
	return NewGormDivisionRepository(r.tx)
}

func (r *gormHierarchyRepositories) Transfers() transfer.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

func (r *gormHierarchyRepositories) AuditRecords() audit.Recorder {
	return NewGormAuditRecordRepository(r.tx)
}

var _ apphierarchy.TransactionScope = (*GormHierarchyTransactionScope)(nil)
var _ apphierarchy.TransactionalRepositories = (*gormHierarchyRepositories)(nil)
