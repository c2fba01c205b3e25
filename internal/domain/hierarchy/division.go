package hierarchy

import (
	"regexp"
	"strings"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityType is the audit trail entity type for divisions.
const EntityType = "division"

// DivisionStatus represents the status of a division
type DivisionStatus string

const (
	DivisionStatusActive      DivisionStatus = "active"
	DivisionStatusDeactivated DivisionStatus = "deactivated"
)

// Division is a node in the organizational tree. The parent relation over
// all divisions must stay a forest: acyclic, at most one parent per node.
// Parent changes go through the hierarchy service, which walks the ancestor
// chain before committing. Divisions are never hard-deleted, only
// deactivated.
type Division struct {
	shared.BaseAggregateRoot
	Code       string // Unique code (e.g., "NORTH-3RD-BTN")
	Name       string // Display name
	ShortName  string // Optional abbreviated name
	ParentID   *uuid.UUID
	SortOrder  int // Display order within same parent, assigned in steps of 10
	IsInternal bool
	Status     DivisionStatus
}

// NewDivision creates a new active division with required fields
func NewDivision(code, name, shortName string, isInternal bool) (*Division, error) {
	if err := validateDivisionCode(code); err != nil {
		return nil, err
	}
	if err := validateDivisionName(name); err != nil {
		return nil, err
	}

	div := &Division{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		ShortName:         strings.TrimSpace(shortName),
		IsInternal:        isInternal,
		Status:            DivisionStatusActive,
	}

	div.AddDomainEvent(NewDivisionCreatedEvent(div))

	return div, nil
}

// SetParent attaches the division under a new parent (nil for root).
// The caller is responsible for validating the move against the persisted
// tree; the aggregate only rejects the trivial self-parent case.
func (d *Division) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == d.ID {
		return shared.NewDomainError("CYCLE_DETECTED", "Division cannot be its own parent: "+d.ID.String())
	}

	d.ParentID = parentID
	d.Touch()

	d.AddDomainEvent(NewDivisionMovedEvent(d))

	return nil
}

// SetSortOrder sets the display order among siblings
func (d *Division) SetSortOrder(order int) {
	d.SortOrder = order
	d.Touch()
}

// Rename updates the display names
func (d *Division) Rename(name, shortName string) error {
	if err := validateDivisionName(name); err != nil {
		return err
	}
	d.Name = strings.TrimSpace(name)
	d.ShortName = strings.TrimSpace(shortName)
	d.Touch()
	return nil
}

// Deactivate soft-deletes the division. Dependent checks (active children,
// active transfer endpoints) are enforced by the hierarchy service.
func (d *Division) Deactivate() error {
	if d.Status == DivisionStatusDeactivated {
		return shared.NewDomainError("INVALID_STATE", "Division is already deactivated: "+d.ID.String())
	}

	d.Status = DivisionStatusDeactivated
	d.Touch()

	d.AddDomainEvent(NewDivisionDeactivatedEvent(d))

	return nil
}

// Restore reactivates a deactivated division
func (d *Division) Restore() error {
	if d.Status == DivisionStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Division is already active: "+d.ID.String())
	}

	d.Status = DivisionStatusActive
	d.Touch()

	d.AddDomainEvent(NewDivisionRestoredEvent(d))

	return nil
}

// IsActive returns true if the division is active
func (d *Division) IsActive() bool {
	return d.Status == DivisionStatusActive
}

// IsRoot returns true if this division has no parent
func (d *Division) IsRoot() bool {
	return d.ParentID == nil
}

// Snapshot captures the division state for the audit trail
func (d *Division) Snapshot() audit.Snapshot {
	snap := audit.Snapshot{
		"code":        d.Code,
		"name":        d.Name,
		"short_name":  d.ShortName,
		"sort_order":  d.SortOrder,
		"is_internal": d.IsInternal,
		"status":      string(d.Status),
	}
	if d.ParentID != nil {
		snap["parent_id"] = d.ParentID.String()
	} else {
		snap["parent_id"] = nil
	}
	return snap
}

// Validation functions

func validateDivisionCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_DIVISION_CODE", "Division code cannot be empty")
	}
	if len(code) < 2 {
		return shared.NewDomainError("INVALID_DIVISION_CODE", "Division code must be at least 2 characters")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_DIVISION_CODE", "Division code cannot exceed 50 characters")
	}

	// Allow alphanumeric, underscore, and hyphen
	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_DIVISION_CODE", "Division code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateDivisionName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_DIVISION_NAME", "Division name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_DIVISION_NAME", "Division name cannot exceed 200 characters")
	}
	return nil
}
