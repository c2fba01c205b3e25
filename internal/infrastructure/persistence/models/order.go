package models

import (
	"time"

	"github.com/milorg/backend/internal/domain/order"
	"github.com/google/uuid"
)

// OrderModel is the persistence model for orders
type OrderModel struct {
	AggregateModel
	OrderNumber       string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type              string            `gorm:"type:varchar(50);not null"`
	Priority          string            `gorm:"type:varchar(50)"`
	Status            order.OrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	IssuingDivisionID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Recipients        []OrderRecipientModel `gorm:"foreignKey:OrderID;references:ID"`
	Terms             []OrderTermModel      `gorm:"foreignKey:OrderID;references:ID"`
	IssuedAt          *time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderRecipientModel links an order to one recipient division
type OrderRecipientModel struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primary_key"`
	DivisionID uuid.UUID `gorm:"type:uuid;primary_key;index"`
}

// TableName returns the table name for GORM
func (OrderRecipientModel) TableName() string {
	return "order_recipients"
}

// OrderTermModel is the persistence model for order terms
type OrderTermModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"type:varchar(500);not null"`
	DueDate     *time.Time
	Done        bool `gorm:"not null;default:false"`
	CompletedAt *time.Time
	CompletedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderTermModel) TableName() string {
	return "order_terms"
}

// AssignmentModel is the persistence model for assignments
type AssignmentModel struct {
	AggregateModel
	OrderID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	ExecutorID uuid.UUID              `gorm:"type:uuid;not null;index"`
	TargetType string                 `gorm:"type:varchar(50);not null"`
	Priority   string                 `gorm:"type:varchar(50)"`
	Status     order.AssignmentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName returns the table name for GORM
func (AssignmentModel) TableName() string {
	return "assignments"
}

// OrderModelFromDomain converts a domain order to its persistence model
func OrderModelFromDomain(o *order.Order) *OrderModel {
	recipients := make([]OrderRecipientModel, 0, len(o.RecipientDivisionIDs))
	for _, divisionID := range o.RecipientDivisionIDs {
		recipients = append(recipients, OrderRecipientModel{OrderID: o.ID, DivisionID: divisionID})
	}
	terms := make([]OrderTermModel, 0, len(o.Terms))
	for i := range o.Terms {
		terms = append(terms, OrderTermModelFromDomain(&o.Terms[i]))
	}
	model := &OrderModel{
		OrderNumber:       o.OrderNumber,
		Type:              o.Type,
		Priority:          o.Priority,
		Status:            o.Status,
		IssuingDivisionID: o.IssuingDivisionID,
		Recipients:        recipients,
		Terms:             terms,
		IssuedAt:          o.IssuedAt,
		CompletedAt:       o.CompletedAt,
		CancelledAt:       o.CancelledAt,
	}
	model.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return model
}

// OrderTermModelFromDomain converts a domain term
func OrderTermModelFromDomain(t *order.Term) OrderTermModel {
	return OrderTermModel{
		ID:          t.ID,
		OrderID:     t.OrderID,
		Description: t.Description,
		DueDate:     t.DueDate,
		Done:        t.Done,
		CompletedAt: t.CompletedAt,
		CompletedBy: t.CompletedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToDomain converts the persistence model to a domain order
func (m *OrderModel) ToDomain() *order.Order {
	recipientIDs := make([]uuid.UUID, 0, len(m.Recipients))
	for _, recipient := range m.Recipients {
		recipientIDs = append(recipientIDs, recipient.DivisionID)
	}
	terms := make([]order.Term, 0, len(m.Terms))
	for i := range m.Terms {
		terms = append(terms, m.Terms[i].ToDomain())
	}
	o := &order.Order{
		OrderNumber:          m.OrderNumber,
		Type:                 m.Type,
		Priority:             m.Priority,
		Status:               m.Status,
		IssuingDivisionID:    m.IssuingDivisionID,
		RecipientDivisionIDs: recipientIDs,
		Terms:                terms,
		IssuedAt:             m.IssuedAt,
		CompletedAt:          m.CompletedAt,
		CancelledAt:          m.CancelledAt,
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)
	return o
}

// ToDomain converts the persistence model to a domain term
func (m *OrderTermModel) ToDomain() order.Term {
	return order.Term{
		ID:          m.ID,
		OrderID:     m.OrderID,
		Description: m.Description,
		DueDate:     m.DueDate,
		Done:        m.Done,
		CompletedAt: m.CompletedAt,
		CompletedBy: m.CompletedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// AssignmentModelFromDomain converts a domain assignment
func AssignmentModelFromDomain(a *order.Assignment) *AssignmentModel {
	model := &AssignmentModel{
		OrderID:    a.OrderID,
		ExecutorID: a.ExecutorID,
		TargetType: a.TargetType,
		Priority:   a.Priority,
		Status:     a.Status,
	}
	model.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return model
}

// ToDomain converts the persistence model to a domain assignment
func (m *AssignmentModel) ToDomain() *order.Assignment {
	a := &order.Assignment{
		OrderID:    m.OrderID,
		ExecutorID: m.ExecutorID,
		TargetType: m.TargetType,
		Priority:   m.Priority,
		Status:     m.Status,
	}
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	return a
}
