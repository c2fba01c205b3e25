package transfer

import (
	"context"

	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActiveConflict names an item identity that is already carried by another
// transfer in status Active.
type ActiveConflict struct {
	Identity   ItemIdentity
	TransferID uuid.UUID
}

// TransferRepository defines persistence operations for the Transfer aggregate
type TransferRepository interface {
	Create(ctx context.Context, t *Transfer) error
	// Save persists the aggregate and its items with an optimistic version
	// check, failing with CONCURRENCY_CONFLICT on mismatch.
	Save(ctx context.Context, t *Transfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	// FindByIDForUpdate reads the transfer with a row lock so concurrent
	// transitions on the same transfer serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Transfer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindActiveConflicts locks and returns active item rows matching any
	// of the given identities, excluding the named transfer. The partial
	// unique index on active items backstops races this read cannot see.
	FindActiveConflicts(ctx context.Context, excludeTransferID uuid.UUID, identities []ItemIdentity) ([]ActiveConflict, error)
	// CountActiveByDivision counts Active transfers having the division as
	// source or destination.
	CountActiveByDivision(ctx context.Context, divisionID uuid.UUID) (int64, error)
}

// HoldingRepository defines persistence operations for item holdings
type HoldingRepository interface {
	// Upsert inserts or updates the holding row keyed by item identity.
	Upsert(ctx context.Context, holding *ItemHolding) error
	FindByIdentity(ctx context.Context, identity ItemIdentity) (*ItemHolding, error)
	FindByDivision(ctx context.Context, divisionID uuid.UUID, filter shared.Filter) ([]ItemHolding, error)
}
