package audit

import (
	"time"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// HistoryFilter contains list parameters for audit queries
type HistoryFilter struct {
	Page     int
	PageSize int
}

// RecordResponse is the read model for one audit record
type RecordResponse struct {
	Seq        int64          `json:"seq"`
	ID         uuid.UUID      `json:"id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	EntityType string         `json:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	Operation  string         `json:"operation"`
	Before     audit.Snapshot `json:"before,omitempty"`
	After      audit.Snapshot `json:"after,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// ToRecordResponse converts a domain record to its response form
func ToRecordResponse(r *audit.Record) RecordResponse {
	return RecordResponse{
		Seq:        r.Seq,
		ID:         r.ID,
		ActorID:    r.ActorID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Operation:  string(r.Operation),
		Before:     r.Before,
		After:      r.After,
		RecordedAt: r.RecordedAt,
	}
}

// ToRecordResponses converts a slice of domain records
func ToRecordResponses(records []audit.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for i := range records {
		out = append(out, ToRecordResponse(&records[i]))
	}
	return out
}
