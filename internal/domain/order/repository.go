package order

import (
	"context"

	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for the Order aggregate
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	// Save persists the aggregate and its terms with an optimistic version
	// check, failing with CONCURRENCY_CONFLICT on mismatch.
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUpdate reads the order with a row lock so concurrent term
	// completions on the same order serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByTermIDForUpdate resolves the order owning a term, locked.
	FindByTermIDForUpdate(ctx context.Context, termID uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AssignmentRepository defines persistence operations for assignments
type AssignmentRepository interface {
	Create(ctx context.Context, a *Assignment) error
	Save(ctx context.Context, a *Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Assignment, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Assignment, error)
}
