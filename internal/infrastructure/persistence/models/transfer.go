package models

import (
	"time"

	"github.com/milorg/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferModel is the persistence model for transfers
type TransferModel struct {
	AggregateModel
	Category              string                  `gorm:"type:varchar(50)"`
	Type                  string                  `gorm:"type:varchar(50);not null"`
	Status                transfer.TransferStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	SourceDivisionID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	DestinationDivisionID uuid.UUID               `gorm:"type:uuid;not null;index"`
	OrderID               *uuid.UUID              `gorm:"type:uuid;index"`
	EffectiveDate         time.Time               `gorm:"not null"`
	DueDate               *time.Time
	CompletedAt           *time.Time
	Items                 []TransferItemModel `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (TransferModel) TableName() string {
	return "transfers"
}

// TransferItemModel is the persistence model for transfer items. The
// partial unique index on (item_type, identifier) WHERE is_active is
// created by migration; it enforces the single-active-transfer invariant
// at the storage layer.
type TransferItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransferID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemType    string          `gorm:"type:varchar(50);not null;index:idx_transfer_items_identity"`
	Identifier  string          `gorm:"type:varchar(100);not null;index:idx_transfer_items_identity"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	Description string          `gorm:"type:varchar(500)"`
	IsActive    bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransferItemModel) TableName() string {
	return "transfer_items"
}

// ItemHoldingModel is the persistence model for item holdings, keyed by
// item identity.
type ItemHoldingModel struct {
	ItemType   string    `gorm:"type:varchar(50);primary_key"`
	Identifier string    `gorm:"type:varchar(100);primary_key"`
	DivisionID uuid.UUID `gorm:"type:uuid;not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemHoldingModel) TableName() string {
	return "item_holdings"
}

// TransferModelFromDomain converts a domain transfer to its persistence model
func TransferModelFromDomain(t *transfer.Transfer) *TransferModel {
	items := make([]TransferItemModel, 0, len(t.Items))
	for i := range t.Items {
		items = append(items, TransferItemModelFromDomain(&t.Items[i]))
	}
	model := &TransferModel{
		Category:              t.Category,
		Type:                  t.Type,
		Status:                t.Status,
		SourceDivisionID:      t.SourceDivisionID,
		DestinationDivisionID: t.DestinationDivisionID,
		OrderID:               t.OrderID,
		EffectiveDate:         t.EffectiveDate,
		DueDate:               t.DueDate,
		CompletedAt:           t.CompletedAt,
		Items:                 items,
	}
	model.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return model
}

// TransferItemModelFromDomain converts a domain transfer item
func TransferItemModelFromDomain(item *transfer.TransferItem) TransferItemModel {
	return TransferItemModel{
		ID:          item.ID,
		TransferID:  item.TransferID,
		ItemType:    item.ItemType,
		Identifier:  item.Identifier,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		Description: item.Description,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ToDomain converts the persistence model to a domain transfer
func (m *TransferModel) ToDomain() *transfer.Transfer {
	items := make([]transfer.TransferItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, m.Items[i].ToDomain())
	}
	t := &transfer.Transfer{
		Category:              m.Category,
		Type:                  m.Type,
		Status:                m.Status,
		SourceDivisionID:      m.SourceDivisionID,
		DestinationDivisionID: m.DestinationDivisionID,
		OrderID:               m.OrderID,
		EffectiveDate:         m.EffectiveDate,
		DueDate:               m.DueDate,
		CompletedAt:           m.CompletedAt,
		Items:                 items,
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	return t
}

// ToDomain converts the persistence model to a domain transfer item
func (m *TransferItemModel) ToDomain() transfer.TransferItem {
	return transfer.TransferItem{
		ID:          m.ID,
		TransferID:  m.TransferID,
		ItemType:    m.ItemType,
		Identifier:  m.Identifier,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		Description: m.Description,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ItemHoldingModelFromDomain converts a domain holding
func ItemHoldingModelFromDomain(h *transfer.ItemHolding) *ItemHoldingModel {
	return &ItemHoldingModel{
		ItemType:   h.ItemType,
		Identifier: h.Identifier,
		DivisionID: h.DivisionID,
		UpdatedAt:  h.UpdatedAt,
	}
}

// ToDomain converts the persistence model to a domain holding
func (m *ItemHoldingModel) ToDomain() *transfer.ItemHolding {
	return &transfer.ItemHolding{
		ItemType:   m.ItemType,
		Identifier: m.Identifier,
		DivisionID: m.DivisionID,
		UpdatedAt:  m.UpdatedAt,
	}
}
