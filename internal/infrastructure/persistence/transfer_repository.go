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

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Create saves a new transfer together with its items
func (r *GormTransferRepository) Create(ctx context.Context, t *transfer.Transfer) error {
	model := models.TransferModelFromDomain(t)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("DUPLICATE_ITEM", "An item on this transfer already exists")
		}
		return err
	}
	return nil
}

// Save persists the transfer and its items inside one statement batch.
// The item upsert targets the primary key, so a violation of the partial
// unique index on active items surfaces as a duplicated-key error; that is
// the storage-level backstop for concurrent activations and is reported as
// CONFLICTING_ACTIVE_TRANSFER.
func (r *GormTransferRepository) Save(ctx context.Context, t *transfer.Transfer) error {
	model := models.TransferModelFromDomain(t)

	result := r.db.WithContext(ctx).
		Model(&models.TransferModel{}).
		Where("id = ? AND version < ?", t.ID, t.Version).
		Updates(map[string]interface{}{
			"category":     model.Category,
			"type":         model.Type,
			"status":       model.Status,
			"order_id":     model.OrderID,
			"due_date":     model.DueDate,
			"completed_at": model.CompletedAt,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if len(model.Items) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit", "description", "is_active", "updated_at"}),
			}).
			Create(&model.Items).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.NewDomainError("CONFLICTING_ACTIVE_TRANSFER", "An item on this transfer is already on another active transfer")
			}
			return err
		}
	}
	return nil
}

// FindByID finds a transfer by ID with its items
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	var model models.TransferModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a transfer by ID with a row lock on the
// transfer row. Items are loaded without a lock; concurrent transitions
// serialize on the aggregate row.
func (r *GormTransferRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	var model models.TransferModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "transfers"}}).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds transfers matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.Transfer, error) {
	var transferModels []models.TransferModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TransferModel{}), filter)
	if err := query.Preload("Items").Find(&transferModels).Error; err != nil {
		return nil, err
	}
	transfers := make([]transfer.Transfer, 0, len(transferModels))
	for i := range transferModels {
		transfers = append(transfers, *transferModels[i].ToDomain())
	}
	return transfers, nil
}

// Count counts transfers matching the filter
func (r *GormTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.TransferModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActiveConflicts locks active item rows matching the given identities
// on other transfers and returns them as conflicts.
func (r *GormTransferRepository) FindActiveConflicts(ctx context.Context, excludeTransferID uuid.UUID, identities []transfer.ItemIdentity) ([]transfer.ActiveConflict, error) {
	if len(identities) == 0 {
		return nil, nil
	}

	pairs := make([][]interface{}, 0, len(identities))
	for _, identity := range identities {
		pairs = append(pairs, []interface{}{identity.ItemType, identity.Identifier})
	}

	var itemModels []models.TransferItemModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_active = ?", true).
		Where("transfer_id <> ?", excludeTransferID).
		Where("(item_type, identifier) IN ?", pairs).
		Find(&itemModels).Error
	if err != nil {
		return nil, err
	}

	conflicts := make([]transfer.ActiveConflict, 0, len(itemModels))
	for i := range itemModels {
		conflicts = append(conflicts, transfer.ActiveConflict{
			Identity: transfer.ItemIdentity{
				ItemType:   itemModels[i].ItemType,
				Identifier: itemModels[i].Identifier,
			},
			TransferID: itemModels[i].TransferID,
		})
	}
	return conflicts, nil
}

// CountActiveByDivision counts active transfers touching the division as
// source or destination
func (r *GormTransferRepository) CountActiveByDivision(ctx context.Context, divisionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TransferModel{}).
		Where("status = ?", transfer.TransferStatusActive).
		Where("source_division_id = ? OR destination_division_id = ?", divisionID, divisionID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, TransferSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormTransferRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "division_id":
			query = query.Where("source_division_id = ? OR destination_division_id = ?", value, value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}

	return query
}

var _ transfer.TransferRepository = (*GormTransferRepository)(nil)
