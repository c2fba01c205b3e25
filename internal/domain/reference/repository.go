package reference

import "context"

// EntryRepository defines persistence operations for reference entries
type EntryRepository interface {
	Create(ctx context.Context, entry *Entry) error
	Save(ctx context.Context, entry *Entry) error
	FindByKindAndCode(ctx context.Context, kind Kind, code string) (*Entry, error)
	FindByKind(ctx context.Context, kind Kind) ([]Entry, error)
	// ExistsActive reports whether an active entry with the code exists
	// under the kind. Used to validate codes referenced by orders and
	// transfers.
	ExistsActive(ctx context.Context, kind Kind, code string) (bool, error)
}
