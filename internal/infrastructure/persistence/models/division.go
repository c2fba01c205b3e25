package models

import (
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/google/uuid"
)

// DivisionModel is the persistence model for divisions
type DivisionModel struct {
	AggregateModel
	Code       string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name       string                   `gorm:"type:varchar(200);not null"`
	ShortName  string                   `gorm:"type:varchar(50)"`
	ParentID   *uuid.UUID               `gorm:"type:uuid;index"`
	SortOrder  int                      `gorm:"not null;default:0"`
	IsInternal bool                     `gorm:"not null;default:false"`
	Status     hierarchy.DivisionStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (DivisionModel) TableName() string {
	return "divisions"
}

// DivisionModelFromDomain converts a domain division to its persistence model
func DivisionModelFromDomain(div *hierarchy.Division) *DivisionModel {
	model := &DivisionModel{
		Code:       div.Code,
		Name:       div.Name,
		ShortName:  div.ShortName,
		ParentID:   div.ParentID,
		SortOrder:  div.SortOrder,
		IsInternal: div.IsInternal,
		Status:     div.Status,
	}
	model.FromDomainAggregateRoot(div.BaseAggregateRoot)
	return model
}

// ToDomain converts the persistence model to a domain division
func (m *DivisionModel) ToDomain() *hierarchy.Division {
	div := &hierarchy.Division{
		Code:       m.Code,
		Name:       m.Name,
		ShortName:  m.ShortName,
		ParentID:   m.ParentID,
		SortOrder:  m.SortOrder,
		IsInternal: m.IsInternal,
		Status:     m.Status,
	}
	m.PopulateAggregateRoot(&div.BaseAggregateRoot)
	return div
}
