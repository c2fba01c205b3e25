package transfer

import (
	"time"

	"github.com/google/uuid"
)

// ItemHolding records which division currently holds one item identity.
// It is upserted when a transfer completes: the destination division
// becomes the holder of every item on the transfer.
type ItemHolding struct {
	ItemType   string
	Identifier string
	DivisionID uuid.UUID
	UpdatedAt  time.Time
}

// NewItemHolding creates a holding record for an item at a division
func NewItemHolding(identity ItemIdentity, divisionID uuid.UUID) *ItemHolding {
	return &ItemHolding{
		ItemType:   identity.ItemType,
		Identifier: identity.Identifier,
		DivisionID: divisionID,
		UpdatedAt:  time.Now(),
	}
}

// Identity returns the held item's identity
func (h *ItemHolding) Identity() ItemIdentity {
	return ItemIdentity{ItemType: h.ItemType, Identifier: h.Identifier}
}

// MoveTo re-homes the holding to another division
func (h *ItemHolding) MoveTo(divisionID uuid.UUID) {
	h.DivisionID = divisionID
	h.UpdatedAt = time.Now()
}
