package hierarchy

import (
	"context"

	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DivisionRepository defines persistence operations for the Division aggregate
type DivisionRepository interface {
	Create(ctx context.Context, div *Division) error
	// Save persists the aggregate with an optimistic version check and
	// fails with CONCURRENCY_CONFLICT when the stored version moved on.
	Save(ctx context.Context, div *Division) error
	FindByID(ctx context.Context, id uuid.UUID) (*Division, error)
	// FindByIDForUpdate reads the division with a row lock so that the
	// cycle-detection walk observes committed parent pointers and
	// serializes against concurrent moves of the same nodes.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Division, error)
	FindByCode(ctx context.Context, code string) (*Division, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Division, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Division, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountActiveChildren(ctx context.Context, parentID uuid.UUID) (int64, error)
	// MaxSiblingSortOrder returns the highest sort order among divisions
	// sharing the given parent (nil for roots), or 0 when there are none.
	MaxSiblingSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
}
