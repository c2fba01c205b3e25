package hierarchy

import (
	"time"

	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/google/uuid"
)

// CreateDivisionInput contains input for creating a division
type CreateDivisionInput struct {
	Code       string
	Name       string
	ShortName  string
	ParentID   *uuid.UUID
	SortOrder  *int
	IsInternal bool
}

// ListDivisionsFilter contains list/search parameters for divisions
type ListDivisionsFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// DivisionResponse is the read model returned by the hierarchy manager
type DivisionResponse struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	ShortName  string     `json:"short_name,omitempty"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	SortOrder  int        `json:"sort_order"`
	IsInternal bool       `json:"is_internal"`
	Status     string     `json:"status"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToDivisionResponse converts a domain division to its response form
func ToDivisionResponse(div *hierarchy.Division) DivisionResponse {
	return DivisionResponse{
		ID:         div.ID,
		Code:       div.Code,
		Name:       div.Name,
		ShortName:  div.ShortName,
		ParentID:   div.ParentID,
		SortOrder:  div.SortOrder,
		IsInternal: div.IsInternal,
		Status:     string(div.Status),
		Version:    div.Version,
		CreatedAt:  div.CreatedAt,
		UpdatedAt:  div.UpdatedAt,
	}
}

// ToDivisionResponses converts a slice of domain divisions
func ToDivisionResponses(divs []hierarchy.Division) []DivisionResponse {
	out := make([]DivisionResponse, 0, len(divs))
	for i := range divs {
		out = append(out, ToDivisionResponse(&divs[i]))
	}
	return out
}
