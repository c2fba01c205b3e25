package reference

import (
	"strings"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/shared"
)

// EntityType is the audit trail entity type for reference entries.
const EntityType = "reference_entry"

// Kind names one reference-data table
type Kind string

const (
	KindOrderType        Kind = "order_type"
	KindTransferType     Kind = "transfer_type"
	KindTransferCategory Kind = "transfer_category"
	KindItemType         Kind = "item_type"
	KindPriority         Kind = "priority"
	KindTargetType       Kind = "target_type"
)

// IsValid checks if the kind is a known Kind
func (k Kind) IsValid() bool {
	switch k {
	case KindOrderType, KindTransferType, KindTransferCategory, KindItemType, KindPriority, KindTargetType:
		return true
	}
	return false
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Entry is one row of static reference data. Entries carry no business
// rules; codes are unique per kind and entries are deactivated, never
// deleted, so historical records keep resolving.
type Entry struct {
	shared.BaseAggregateRoot
	Kind      Kind
	Code      string
	Label     string
	SortOrder int
	Active    bool
}

// NewEntry creates a new active reference entry
func NewEntry(kind Kind, code, label string, sortOrder int) (*Entry, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_KIND", "Unknown reference kind: "+string(kind))
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE_CODE", "Reference code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_REFERENCE_CODE", "Reference code cannot exceed 50 characters")
	}
	if strings.TrimSpace(label) == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE_LABEL", "Reference label cannot be empty")
	}

	return &Entry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Code:              strings.ToUpper(code),
		Label:             strings.TrimSpace(label),
		SortOrder:         sortOrder,
		Active:            true,
	}, nil
}

// Deactivate retires the entry from selection lists
func (e *Entry) Deactivate() error {
	if !e.Active {
		return shared.NewDomainError("INVALID_STATE", "Reference entry is already deactivated: "+e.Code)
	}
	e.Active = false
	e.Touch()
	return nil
}

// Snapshot captures the entry state for the audit trail
func (e *Entry) Snapshot() audit.Snapshot {
	return audit.Snapshot{
		"kind":       string(e.Kind),
		"code":       e.Code,
		"label":      e.Label,
		"sort_order": e.SortOrder,
		"active":     e.Active,
	}
}
