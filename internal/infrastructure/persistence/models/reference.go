package models

import (
	"github.com/milorg/backend/internal/domain/reference"
)

// ReferenceEntryModel is the persistence model for reference entries
type ReferenceEntryModel struct {
	AggregateModel
	Kind      reference.Kind `gorm:"type:varchar(50);not null;uniqueIndex:idx_reference_entries_kind_code,priority:1"`
	Code      string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_reference_entries_kind_code,priority:2"`
	Label     string         `gorm:"type:varchar(200);not null"`
	SortOrder int            `gorm:"not null;default:0"`
	Active    bool           `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ReferenceEntryModel) TableName() string {
	return "reference_entries"
}

// ReferenceEntryModelFromDomain converts a domain entry to its persistence model
func ReferenceEntryModelFromDomain(e *reference.Entry) *ReferenceEntryModel {
	model := &ReferenceEntryModel{
		Kind:      e.Kind,
		Code:      e.Code,
		Label:     e.Label,
		SortOrder: e.SortOrder,
		Active:    e.Active,
	}
	model.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return model
}

// ToDomain converts the persistence model to a domain entry
func (m *ReferenceEntryModel) ToDomain() *reference.Entry {
	e := &reference.Entry{
		Kind:      m.Kind,
		Code:      m.Code,
		Label:     m.Label,
		SortOrder: m.SortOrder,
		Active:    m.Active,
	}
	m.PopulateAggregateRoot(&e.BaseAggregateRoot)
	return e
}
