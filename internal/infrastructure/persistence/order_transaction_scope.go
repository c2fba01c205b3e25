package persistence

import (
	"context"

	apporder "github.com/milorg/backend/internal/application/order"
	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/order"
	"github.com/milorg/backend/internal/domain/reference"
	"gorm.io/gorm"
)

// GormOrderTransactionScope runs order units of work inside a database
// transaction
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs fn inside a transaction; repositories handed to fn share it
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormOrderRepositories{tx: tx})
	})
}

type gormOrderRepositories struct {
	tx *gorm.DB
}

func (r *gormOrderRepositories) Orders() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormOrderRepositories) Assignments() order.AssignmentRepository {
	return NewGormAssignmentRepository(r.tx)
}

func (r *gormOrderRepositories) Divisions() hierarchy.DivisionRepository {
	return NewGormDivisionRepository(r.tx)
}

func (r *gormOrderRepositories) References() reference.EntryRepository {
	return NewGormReferenceRepository(r.tx)
}

func (r *gormOrderRepositories) AuditRecords() audit.Recorder {
	return NewGormAuditRecordRepository(r.tx)
}

var _ apporder.TransactionScope = (*GormOrderTransactionScope)(nil)
var _ apporder.TransactionalRepositories = (*gormOrderRepositories)(nil)
