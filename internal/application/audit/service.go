package audit

import (
	"context"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HistoryService serves read access to the audit trail. Writes never go
// through here; records are appended inside the units of work that
// produce them.
type HistoryService struct {
	reader audit.Reader
	logger *zap.Logger
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(reader audit.Reader, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		reader: reader,
		logger: logger,
	}
}

// GetHistory returns the audit records for one entity ordered by sequence
// number ascending. An entity with no records yields NOT_FOUND, since
// every tracked entity gets a CREATE record at birth.
func (s *HistoryService) GetHistory(ctx context.Context, entityType string, entityID uuid.UUID, filter HistoryFilter) ([]RecordResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	total, err := s.reader.CountByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, shared.NewDomainError("NOT_FOUND", "No audit records for "+entityType+" "+entityID.String())
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "seq",
		OrderDir: "asc",
	}
	records, err := s.reader.FindByEntity(ctx, entityType, entityID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRecordResponses(records), total, nil
}
