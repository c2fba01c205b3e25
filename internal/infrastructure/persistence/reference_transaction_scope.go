package persistence

import (
	"context"

	appreference "github.com/milorg/backend/internal/application/reference"
	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/reference"
	"gorm.io/gorm"
)

// GormReferenceTransactionScope runs reference-data units of work inside a
// database transaction
type GormReferenceTransactionScope struct {
	db *gorm.DB
}

// NewGormReferenceTransactionScope creates a new GormReferenceTransactionScope
func NewGormReferenceTransactionScope(db *gorm.DB) *GormReferenceTransactionScope {
	return &GormReferenceTransactionScope{db: db}
}

// Execute runs fn inside a transaction; repositories handed to fn share it
func (s *GormReferenceTransactionScope) Execute(ctx context.Context, fn func(repos appreference.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormReferenceRepositories{tx: tx})
	})
}

type gormReferenceRepositories struct {
	tx *gorm.DB
}

func (r *gormReferenceRepositories) References() reference.EntryRepository {
	return NewGormReferenceRepository(r.tx)
}

func (r *gormReferenceRepositories) AuditRecords() audit.Recorder {
	return NewGormAuditRecordRepository(r.tx)
}

var _ appreference.TransactionScope = (*GormReferenceTransactionScope)(nil)
var _ appreference.TransactionalRepositories = (*gormReferenceRepositories)(nil)
