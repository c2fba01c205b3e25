package reference

import (
	"time"

	"github.com/milorg/backend/internal/domain/reference"
	"github.com/google/uuid"
)

// CreateEntryInput contains input for creating a reference entry
type CreateEntryInput struct {
	Kind      reference.Kind
	Code      string
	Label     string
	SortOrder int
}

// EntryResponse is the read model for one reference entry
type EntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Code      string    `json:"code"`
	Label     string    `json:"label"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToEntryResponse converts a domain entry to its response form
func ToEntryResponse(e *reference.Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Code:      e.Code,
		Label:     e.Label,
		SortOrder: e.SortOrder,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ToEntryResponses converts a slice of domain entries
func ToEntryResponses(entries []reference.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, ToEntryResponse(&entries[i]))
	}
	return out
}
