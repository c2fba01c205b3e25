package persistence

import (
	"context"
	"errors"

	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/milorg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDivisionRepository implements DivisionRepository using GORM
type GormDivisionRepository struct {
	db *gorm.DB
}

// NewGormDivisionRepository creates a new GormDivisionRepository
func NewGormDivisionRepository(db *gorm.DB) *GormDivisionRepository {
	return &GormDivisionRepository{db: db}
}

// Create saves a new division
func (r *GormDivisionRepository) Create(ctx context.Context, div *hierarchy.Division) error {
	model := models.DivisionModelFromDomain(div)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("DUPLICATE_CODE", "Division code already in use: "+div.Code)
		}
		return err
	}
	return nil
}

// Save persists the aggregate with an optimistic version check. The
// in-memory aggregate has already incremented its version, so the stored
// version must be strictly lower.
func (r *GormDivisionRepository) Save(ctx context.Context, div *hierarchy.Division) error {
	model := models.DivisionModelFromDomain(div)
	result := r.db.WithContext(ctx).
		Model(&models.DivisionModel{}).
		Where("id = ? AND version < ?", div.ID, div.Version).
		Updates(map[string]interface{}{
			"code":        model.Code,
			"name":        model.Name,
			"short_name":  model.ShortName,
			"parent_id":   model.ParentID,
			"sort_order":  model.SortOrder,
			"is_internal": model.IsInternal,
			"status":      model.Status,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("DUPLICATE_CODE", "Division code already in use: "+div.Code)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a division by ID
func (r *GormDivisionRepository) FindByID(ctx context.Context, id uuid.UUID) (*hierarchy.Division, error) {
	var model models.DivisionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a division by ID with a row lock
func (r *GormDivisionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*hierarchy.Division, error) {
	var model models.DivisionModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a division by its unique code
func (r *GormDivisionRepository) FindByCode(ctx context.Context, code string) (*hierarchy.Division, error) {
	var model models.DivisionModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindChildren finds the direct children of a division
func (r *GormDivisionRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]hierarchy.Division, error) {
	var divModels []models.DivisionModel
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("sort_order ASC, name ASC").
		Find(&divModels).Error; err != nil {
		return nil, err
	}
	return r.modelsToDomain(divModels), nil
}

// FindAll finds divisions matching the filter
func (r *GormDivisionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]hierarchy.Division, error) {
	var divModels []models.DivisionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DivisionModel{}), filter)
	if err := query.Find(&divModels).Error; err != nil {
		return nil, err
	}
	return r.modelsToDomain(divModels), nil
}

// Count counts divisions matching the filter
func (r *GormDivisionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.DivisionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveChildren counts the active direct children of a division
func (r *GormDivisionRepository) CountActiveChildren(ctx context.Context, parentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DivisionModel{}).
		Where("parent_id = ? AND status = ?", parentID, hierarchy.DivisionStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MaxSiblingSortOrder returns the highest sort order among divisions
// sharing the given parent, or 0 when there are none
func (r *GormDivisionRepository) MaxSiblingSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var max int
	query := r.db.WithContext(ctx).
		Model(&models.DivisionModel{}).
		Select("COALESCE(MAX(sort_order), 0)")
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if err := query.Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *GormDivisionRepository) modelsToDomain(divModels []models.DivisionModel) []hierarchy.Division {
	divs := make([]hierarchy.Division, 0, len(divModels))
	for i := range divModels {
		divs = append(divs, *divModels[i].ToDomain())
	}
	return divs
}

func (r *GormDivisionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, DivisionSortFields, "sort_order")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("sort_order ASC")
	}

	return query
}

func (r *GormDivisionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "parent_id":
			query = query.Where("parent_id = ?", value)
		case "is_internal":
			query = query.Where("is_internal = ?", value)
		}
	}

	return query
}

var _ hierarchy.DivisionRepository = (*GormDivisionRepository)(nil)
