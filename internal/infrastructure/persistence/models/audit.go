package models

import (
	"encoding/json"
	"time"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditRecordModel is the persistence model for audit records. The table
// is append-only: rows are only ever inserted, and seq is a BIGSERIAL so
// the store assigns a globally strictly-increasing sequence on insert.
type AuditRecordModel struct {
	Seq        int64           `gorm:"primaryKey;autoIncrement"`
	ID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	ActorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntityType string          `gorm:"type:varchar(50);not null;index:idx_audit_records_entity"`
	EntityID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_audit_records_entity"`
	Operation  audit.Operation `gorm:"type:varchar(20);not null"`
	Before     []byte          `gorm:"type:jsonb"`
	After      []byte          `gorm:"type:jsonb"`
	RecordedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AuditRecordModel) TableName() string {
	return "audit_records"
}

// AuditRecordModelFromEntry builds an insertable row from an entry. Seq is
// left zero so the database assigns it.
func AuditRecordModelFromEntry(entry *audit.Entry) (*AuditRecordModel, error) {
	var before, after []byte
	var err error
	if entry.Before != nil {
		if before, err = json.Marshal(entry.Before); err != nil {
			return nil, err
		}
	}
	if entry.After != nil {
		if after, err = json.Marshal(entry.After); err != nil {
			return nil, err
		}
	}
	return &AuditRecordModel{
		ID:         uuid.New(),
		ActorID:    entry.ActorID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Operation:  entry.Operation,
		Before:     before,
		After:      after,
		RecordedAt: time.Now(),
	}, nil
}

// ToDomain converts the persistence model to a domain record
func (m *AuditRecordModel) ToDomain() (*audit.Record, error) {
	var before, after audit.Snapshot
	if len(m.Before) > 0 {
		if err := json.Unmarshal(m.Before, &before); err != nil {
			return nil, err
		}
	}
	if len(m.After) > 0 {
		if err := json.Unmarshal(m.After, &after); err != nil {
			return nil, err
		}
	}
	return &audit.Record{
		Seq:        m.Seq,
		ID:         m.ID,
		ActorID:    m.ActorID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Operation:  m.Operation,
		Before:     before,
		After:      after,
		RecordedAt: m.RecordedAt,
	}, nil
}
