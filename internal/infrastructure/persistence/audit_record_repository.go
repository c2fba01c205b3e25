package persistence

import (
	"context"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/milorg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditRecordRepository implements both the audit Recorder and Reader.
// Records are append-only; there is no update or delete path.
type GormAuditRecordRepository struct {
	db *gorm.DB
}

// NewGormAuditRecordRepository creates a new GormAuditRecordRepository
func NewGormAuditRecordRepository(db *gorm.DB) *GormAuditRecordRepository {
	return &GormAuditRecordRepository{db: db}
}

// Append inserts the entry and returns the stored record with its
// database-assigned sequence number.
func (r *GormAuditRecordRepository) Append(ctx context.Context, entry *audit.Entry) (*audit.Record, error) {
	model, err := models.AuditRecordModelFromEntry(entry)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return model.ToDomain()
}

// FindByEntity returns the records for one entity ordered by sequence
func (r *GormAuditRecordRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID, filter shared.Filter) ([]audit.Record, error) {
	var recordModels []models.AuditRecordModel
	query := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderDir == "desc" {
		query = query.Order("seq DESC")
	} else {
		query = query.Order("seq ASC")
	}

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]audit.Record, 0, len(recordModels))
	for i := range recordModels {
		record, err := recordModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// CountByEntity counts the records for one entity
func (r *GormAuditRecordRepository) CountByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditRecordModel{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ audit.Recorder = (*GormAuditRecordRepository)(nil)
var _ audit.Reader = (*GormAuditRecordRepository)(nil)
