package transfer

import (
	"time"

	"github.com/milorg/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransferInput contains input for creating a transfer
type CreateTransferInput struct {
	Category              string
	Type                  string
	SourceDivisionID      uuid.UUID
	DestinationDivisionID uuid.UUID
	OrderID               *uuid.UUID
	EffectiveDate         time.Time
	DueDate               *time.Time
	Items                 []TransferItemInput
}

// TransferItemInput contains input for one transfer item
type TransferItemInput struct {
	ItemType    string
	Identifier  string
	Quantity    decimal.Decimal
	Unit        string
	Description string
}

// ListTransfersFilter contains list parameters for transfers
type ListTransfersFilter struct {
	Page       int
	PageSize   int
	Status     string
	DivisionID *uuid.UUID
}

// ListHoldingsFilter contains list parameters for item holdings at a division
type ListHoldingsFilter struct {
	Page     int
	PageSize int
	ItemType string
	Search   string
	OrderBy  string
	OrderDir string
}

// TransferItemResponse is the read model for one transfer item
type TransferItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemType    string          `json:"item_type"`
	Identifier  string          `json:"identifier"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// TransferResponse is the read model returned by the transfer engine
type TransferResponse struct {
	ID                    uuid.UUID              `json:"id"`
	Category              string                 `json:"category,omitempty"`
	Type                  string                 `json:"type"`
	Status                string                 `json:"status"`
	SourceDivisionID      uuid.UUID              `json:"source_division_id"`
	DestinationDivisionID uuid.UUID              `json:"destination_division_id"`
	OrderID               *uuid.UUID             `json:"order_id,omitempty"`
	EffectiveDate         time.Time              `json:"effective_date"`
	DueDate               *time.Time             `json:"due_date,omitempty"`
	CompletedAt           *time.Time             `json:"completed_at,omitempty"`
	Items                 []TransferItemResponse `json:"items"`
	Version               int                    `json:"version"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

// HoldingResponse is the read model for an item holding
type HoldingResponse struct {
	ItemType   string    `json:"item_type"`
	Identifier string    `json:"identifier"`
	DivisionID uuid.UUID `json:"division_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToTransferItemResponse converts a domain item to its response form
func ToTransferItemResponse(item *transfer.TransferItem) TransferItemResponse {
	return TransferItemResponse{
		ID:          item.ID,
		ItemType:    item.ItemType,
		Identifier:  item.Identifier,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		Description: item.Description,
		IsActive:    item.IsActive,
	}
}

// ToTransferResponse converts a domain transfer to its response form
func ToTransferResponse(t *transfer.Transfer) TransferResponse {
	items := make([]TransferItemResponse, 0, len(t.Items))
	for i := range t.Items {
		items = append(items, ToTransferItemResponse(&t.Items[i]))
	}
	return TransferResponse{
		ID:                    t.ID,
		Category:              t.Category,
		Type:                  t.Type,
		Status:                string(t.Status),
		SourceDivisionID:      t.SourceDivisionID,
		DestinationDivisionID: t.DestinationDivisionID,
		OrderID:               t.OrderID,
		EffectiveDate:         t.EffectiveDate,
		DueDate:               t.DueDate,
		CompletedAt:           t.CompletedAt,
		Items:                 items,
		Version:               t.Version,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

// ToTransferResponses converts a slice of domain transfers
func ToTransferResponses(ts []transfer.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(ts))
	for i := range ts {
		out = append(out, ToTransferResponse(&ts[i]))
	}
	return out
}

// ToHoldingResponse converts a domain holding to its response form
func ToHoldingResponse(h *transfer.ItemHolding) HoldingResponse {
	return HoldingResponse{
		ItemType:   h.ItemType,
		Identifier: h.Identifier,
		DivisionID: h.DivisionID,
		UpdatedAt:  h.UpdatedAt,
	}
}
