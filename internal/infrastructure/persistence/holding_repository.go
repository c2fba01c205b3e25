package persistence

import (
	"context"
	"errors"

	"github.com/milorg/backend/internal/domain/shared"
	"github.com/milorg/backend/internal/domain/transfer"
	"github.com/milorg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormHoldingRepository implements HoldingRepository using GORM
type GormHoldingRepository struct {
	db *gorm.DB
}

// NewGormHoldingRepository creates a new GormHoldingRepository
func NewGormHoldingRepository(db *gorm.DB) *GormHoldingRepository {
	return &GormHoldingRepository{db: db}
}

// Upsert inserts or replaces the holding row for the item identity
func (r *GormHoldingRepository) Upsert(ctx context.Context, holding *transfer.ItemHolding) error {
	model := models.ItemHoldingModelFromDomain(holding)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_type"}, {Name: "identifier"}},
			DoUpdates: clause.AssignmentColumns([]string{"division_id", "updated_at"}),
		}).
		Create(model).Error
}

// FindByIdentity finds the holding for an item identity
func (r *GormHoldingRepository) FindByIdentity(ctx context.Context, identity transfer.ItemIdentity) (*transfer.ItemHolding, error) {
	var model models.ItemHoldingModel
	err := r.db.WithContext(ctx).
		First(&model, "item_type = ? AND identifier = ?", identity.ItemType, identity.Identifier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDivision finds holdings currently placed at the division
func (r *GormHoldingRepository) FindByDivision(ctx context.Context, divisionID uuid.UUID, filter shared.Filter) ([]transfer.ItemHolding, error) {
	var holdingModels []models.ItemHoldingModel
	query := r.db.WithContext(ctx).
		Model(&models.ItemHoldingModel{}).
		Where("division_id = ?", divisionID)

	if filter.Search != "" {
		query = query.Where("identifier ILIKE ?", "%"+filter.Search+"%")
	}
	if itemType, ok := filter.Filters["item_type"]; ok {
		query = query.Where("item_type = ?", itemType)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, HoldingSortFields, "item_type")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("item_type ASC, identifier ASC")
	}

	if err := query.Find(&holdingModels).Error; err != nil {
		return nil, err
	}
	holdings := make([]transfer.ItemHolding, 0, len(holdingModels))
	for i := range holdingModels {
		holdings = append(holdings, *holdingModels[i].ToDomain())
	}
	return holdings, nil
}

var _ transfer.HoldingRepository = (*GormHoldingRepository)(nil)
