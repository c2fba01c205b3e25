package persistence

import (
	"context"
	"errors"

	"github.com/milorg/backend/internal/domain/order"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/milorg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository implements AssignmentRepository using GORM
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GormAssignmentRepository
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Create saves a new assignment
func (r *GormAssignmentRepository) Create(ctx context.Context, a *order.Assignment) error {
	model := models.AssignmentModelFromDomain(a)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save persists the assignment with an optimistic version check
func (r *GormAssignmentRepository) Save(ctx context.Context, a *order.Assignment) error {
	model := models.AssignmentModelFromDomain(a)
	result := r.db.WithContext(ctx).
		Model(&models.AssignmentModel{}).
		Where("id = ? AND version < ?", a.ID, a.Version).
		Updates(map[string]interface{}{
			"target_type": model.TargetType,
			"priority":    model.Priority,
			"status":      model.Status,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an assignment by ID
func (r *GormAssignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Assignment, error) {
	var model models.AssignmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an assignment by ID with a row lock
func (r *GormAssignmentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Assignment, error) {
	var model models.AssignmentModel
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

// FindByOrder finds all assignments issued under an order
func (r *GormAssignmentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]order.Assignment, error) {
	var assignmentModels []models.AssignmentModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&assignmentModels).Error
	if err != nil {
		return nil, err
	}
	assignments := make([]order.Assignment, 0, len(assignmentModels))
	for i := range assignmentModels {
		assignments = append(assignments, *assignmentModels[i].ToDomain())
	}
	return assignments, nil
}

var _ order.AssignmentRepository = (*GormAssignmentRepository)(nil)
