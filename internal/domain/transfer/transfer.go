package transfer

import (
	"strings"
	"time"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntityType is the audit trail entity type for transfers.
const EntityType = "transfer"

// TransferStatus represents the status of a transfer
type TransferStatus string

const (
	TransferStatusDraft     TransferStatus = "DRAFT"
	TransferStatusActive    TransferStatus = "ACTIVE"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusDraft, TransferStatusActive, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusDraft:
		return target == TransferStatusActive || target == TransferStatusCancelled
	case TransferStatusActive:
		return target == TransferStatusCompleted || target == TransferStatusCancelled
	case TransferStatusCompleted, TransferStatusCancelled:
		return false // Terminal states
	}
	return false
}

// ItemIdentity is the identity an item carries across transfers. The
// single-active-transfer invariant is keyed on it: at most one transfer in
// status Active may contain an item with a given identity at any instant.
type ItemIdentity struct {
	ItemType   string
	Identifier string
}

// String returns a human-readable form of the identity
func (i ItemIdentity) String() string {
	return i.ItemType + "/" + i.Identifier
}

// TransferItem represents one item carried by a transfer
type TransferItem struct {
	ID          uuid.UUID
	TransferID  uuid.UUID
	ItemType    string
	Identifier  string
	Quantity    decimal.Decimal
	Unit        string
	Description string
	// IsActive mirrors the owning transfer's Active status per item row,
	// backing the partial unique index on (item_type, identifier).
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTransferItem creates a new transfer item
func NewTransferItem(transferID uuid.UUID, itemType, identifier string, quantity decimal.Decimal, unit, description string) (*TransferItem, error) {
	if strings.TrimSpace(itemType) == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type cannot be empty")
	}
	if strings.TrimSpace(identifier) == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_IDENTIFIER", "Item identifier cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit of measure cannot be empty")
	}

	now := time.Now()
	return &TransferItem{
		ID:          uuid.New(),
		TransferID:  transferID,
		ItemType:    strings.TrimSpace(itemType),
		Identifier:  strings.TrimSpace(identifier),
		Quantity:    quantity,
		Unit:        strings.TrimSpace(unit),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Identity returns the item's cross-transfer identity
func (i *TransferItem) Identity() ItemIdentity {
	return ItemIdentity{ItemType: i.ItemType, Identifier: i.Identifier}
}

// Transfer moves items between two divisions. Its state machine is
// Draft -> Active -> {Completed, Cancelled}, with Cancelled also reachable
// from Draft. Only Active participates in the single-active-transfer
// invariant; Completed and Cancelled are terminal.
type Transfer struct {
	shared.BaseAggregateRoot
	Category              string // Optional reference code
	Type                  string // Reference code
	Status                TransferStatus
	SourceDivisionID      uuid.UUID
	DestinationDivisionID uuid.UUID
	OrderID               *uuid.UUID
	EffectiveDate         time.Time
	DueDate               *time.Time
	CompletedAt           *time.Time
	Items                 []TransferItem
}

// NewTransfer creates a new draft transfer
func NewTransfer(category, transferType string, sourceID, destinationID uuid.UUID, effectiveDate time.Time, dueDate *time.Time) (*Transfer, error) {
	if strings.TrimSpace(transferType) == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_TYPE", "Transfer type cannot be empty")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DIVISION", "Source division cannot be empty")
	}
	if destinationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DIVISION", "Destination division cannot be empty")
	}
	if sourceID == destinationID {
		return nil, shared.NewDomainError("INVALID_DIVISION", "Source and destination divisions must differ")
	}

	t := &Transfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          strings.TrimSpace(category),
		Type:              strings.TrimSpace(transferType),
		Status:            TransferStatusDraft,
		SourceDivisionID:  sourceID,
		DestinationDivisionID: destinationID,
		EffectiveDate:     effectiveDate,
		DueDate:           dueDate,
		Items:             make([]TransferItem, 0),
	}

	t.AddDomainEvent(NewTransferCreatedEvent(t))

	return t, nil
}

// SetOrder links the transfer to an originating order
func (t *Transfer) SetOrder(orderID uuid.UUID) {
	t.OrderID = &orderID
	t.Touch()
}

// AddItem adds an item to a draft transfer. Duplicate item identities
// within the same transfer are rejected.
func (t *Transfer) AddItem(itemType, identifier string, quantity decimal.Decimal, unit, description string) (*TransferItem, error) {
	if t.Status != TransferStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Items can only be added to a draft transfer: "+t.ID.String())
	}

	item, err := NewTransferItem(t.ID, itemType, identifier, quantity, unit, description)
	if err != nil {
		return nil, err
	}

	for _, existing := range t.Items {
		if existing.Identity() == item.Identity() {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Transfer already contains item "+item.Identity().String())
		}
	}

	t.Items = append(t.Items, *item)
	t.Touch()

	return item, nil
}

// Activate transitions the transfer from Draft to Active and marks every
// item row active. The conflict check against other Active transfers is
// performed by the transfer engine inside the same unit of work.
func (t *Transfer) Activate() error {
	if !t.Status.CanTransitionTo(TransferStatusActive) {
		return shared.NewDomainError("INVALID_STATE", "Transfer "+t.ID.String()+" cannot be activated from status "+t.Status.String())
	}
	if len(t.Items) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Transfer "+t.ID.String()+" has no items to activate")
	}

	t.Status = TransferStatusActive
	now := time.Now()
	for i := range t.Items {
		t.Items[i].IsActive = true
		t.Items[i].UpdatedAt = now
	}
	t.Touch()

	t.AddDomainEvent(NewTransferActivatedEvent(t))

	return nil
}

// Complete transitions the transfer from Active to Completed and releases
// the item identities. Holdings are updated by the transfer engine.
func (t *Transfer) Complete() error {
	if !t.Status.CanTransitionTo(TransferStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", "Transfer "+t.ID.String()+" cannot be completed from status "+t.Status.String())
	}

	now := time.Now()
	t.Status = TransferStatusCompleted
	t.CompletedAt = &now
	for i := range t.Items {
		t.Items[i].IsActive = false
		t.Items[i].UpdatedAt = now
	}
	t.Touch()

	t.AddDomainEvent(NewTransferCompletedEvent(t))

	return nil
}

// Cancel aborts the transfer from Draft or Active. No location change is
// applied.
func (t *Transfer) Cancel() error {
	if !t.Status.CanTransitionTo(TransferStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Transfer "+t.ID.String()+" cannot be cancelled from status "+t.Status.String())
	}

	now := time.Now()
	t.Status = TransferStatusCancelled
	for i := range t.Items {
		t.Items[i].IsActive = false
		t.Items[i].UpdatedAt = now
	}
	t.Touch()

	t.AddDomainEvent(NewTransferCancelledEvent(t))

	return nil
}

// Identities returns the identities of all items on the transfer
func (t *Transfer) Identities() []ItemIdentity {
	identities := make([]ItemIdentity, 0, len(t.Items))
	for _, item := range t.Items {
		identities = append(identities, item.Identity())
	}
	return identities
}

// Snapshot captures the transfer state for the audit trail
func (t *Transfer) Snapshot() audit.Snapshot {
	items := make([]map[string]interface{}, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, map[string]interface{}{
			"item_type":  item.ItemType,
			"identifier": item.Identifier,
			"quantity":   item.Quantity.String(),
			"unit":       item.Unit,
			"is_active":  item.IsActive,
		})
	}
	snap := audit.Snapshot{
		"category":                t.Category,
		"type":                    t.Type,
		"status":                  string(t.Status),
		"source_division_id":      t.SourceDivisionID.String(),
		"destination_division_id": t.DestinationDivisionID.String(),
		"items":                   items,
	}
	if t.OrderID != nil {
		snap["order_id"] = t.OrderID.String()
	}
	if t.CompletedAt != nil {
		snap["completed_at"] = t.CompletedAt.UTC().Format(time.RFC3339)
	}
	return snap
}
