package audit

import (
	"context"

	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Recorder appends audit entries. It is only reachable through the
// transactional repositories handed to a unit of work, so an entry and
// the mutation it describes commit or roll back together.
type Recorder interface {
	// Append persists the entry and returns the record with its
	// store-assigned sequence number and timestamp.
	Append(ctx context.Context, entry *Entry) (*Record, error)
}

// Reader provides read-only access to the audit trail.
type Reader interface {
	// FindByEntity returns the records for one entity ordered by sequence
	// number ascending.
	FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID, filter shared.Filter) ([]Record, error)
	// CountByEntity returns the number of records for one entity.
	CountByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (int64, error)
}
