package persistence

import (
	"context"
	"errors"

	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/milorg/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReferenceRepository implements EntryRepository using GORM
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewGormReferenceRepository creates a new GormReferenceRepository
func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// Create saves a new reference entry
func (r *GormReferenceRepository) Create(ctx context.Context, entry *reference.Entry) error {
	model := models.ReferenceEntryModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("DUPLICATE_CODE", "Reference code already in use: "+entry.Code)
		}
		return err
	}
	return nil
}

// Save persists the entry with an optimistic version check
func (r *GormReferenceRepository) Save(ctx context.Context, entry *reference.Entry) error {
	model := models.ReferenceEntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).
		Model(&models.ReferenceEntryModel{}).
		Where("id = ? AND version < ?", entry.ID, entry.Version).
		Updates(map[string]interface{}{
			"label":      model.Label,
			"sort_order": model.SortOrder,
			"active":     model.Active,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByKindAndCode finds an entry by kind and code
func (r *GormReferenceRepository) FindByKindAndCode(ctx context.Context, kind reference.Kind, code string) (*reference.Entry, error) {
	var model models.ReferenceEntryModel
	err := r.db.WithContext(ctx).
		First(&model, "kind = ? AND code = ?", kind, code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKind returns all entries under a kind ordered for display
func (r *GormReferenceRepository) FindByKind(ctx context.Context, kind reference.Kind) ([]reference.Entry, error) {
	var entryModels []models.ReferenceEntryModel
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("sort_order ASC, code ASC").
		Find(&entryModels).Error
	if err != nil {
		return nil, err
	}
	entries := make([]reference.Entry, 0, len(entryModels))
	for i := range entryModels {
		entries = append(entries, *entryModels[i].ToDomain())
	}
	return entries, nil
}

// ExistsActive reports whether an active entry with the code exists under
// the kind
func (r *GormReferenceRepository) ExistsActive(ctx context.Context, kind reference.Kind, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReferenceEntryModel{}).
		Where("kind = ? AND code = ? AND active = ?", kind, code, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ reference.EntryRepository = (*GormReferenceRepository)(nil)
