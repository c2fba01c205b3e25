package reference

import (
	"context"
	"errors"
	"strings"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntryCache caches reference entries per kind. A failing cache must never
// fail a request; the service logs and falls back to the repository.
type EntryCache interface {
	// GetKind returns the cached entries for a kind. The second return
	// value reports whether the kind was present in the cache.
	GetKind(ctx context.Context, kind reference.Kind) ([]reference.Entry, bool, error)
	SetKind(ctx context.Context, kind reference.Kind, entries []reference.Entry) error
	Invalidate(ctx context.Context, kind reference.Kind) error
}

// ReferenceService manages the reference-data tables that orders and
// transfers validate their codes against. Reads go through a per-kind
// cache; writes are audited and invalidate the kind they touch.
type ReferenceService struct {
	scope     TransactionScope
	entryRepo reference.EntryRepository
	cache     EntryCache
	logger    *zap.Logger
}

// NewReferenceService creates a new ReferenceService. cache may be nil,
// in which case every read hits the repository.
func NewReferenceService(scope TransactionScope, entryRepo reference.EntryRepository, cache EntryCache, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{
		scope:     scope,
		entryRepo: entryRepo,
		cache:     cache,
		logger:    logger,
	}
}

// CreateEntry adds a reference entry. Codes are unique per kind.
func (s *ReferenceService) CreateEntry(ctx context.Context, actorID uuid.UUID, input CreateEntryInput) (*EntryResponse, error) {
	var response EntryResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		code := strings.ToUpper(strings.TrimSpace(input.Code))
		if _, err := repos.References().FindByKindAndCode(ctx, input.Kind, code); err == nil {
			return shared.NewDomainError("DUPLICATE_CODE", "Reference code already in use: "+string(input.Kind)+"/"+code)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		entry, err := reference.NewEntry(input.Kind, input.Code, input.Label, input.SortOrder)
		if err != nil {
			return err
		}
		if err := repos.References().Create(ctx, entry); err != nil {
			return err
		}

		auditEntry, err := audit.NewEntry(actorID, reference.EntityType, entry.ID, audit.OperationCreate, nil, entry.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, auditEntry); err != nil {
			return err
		}

		response = ToEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, input.Kind)
	s.logger.Info("Reference entry created",
		zap.String("kind", string(input.Kind)),
		zap.String("code", response.Code),
		zap.String("actor_id", actorID.String()),
	)

	return &response, nil
}

// DeactivateEntry retires a reference entry from selection lists.
// Existing orders and transfers keep their codes.
func (s *ReferenceService) DeactivateEntry(ctx context.Context, actorID uuid.UUID, kind reference.Kind, code string) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.References().FindByKindAndCode(ctx, kind, strings.ToUpper(strings.TrimSpace(code)))
		if err != nil {
			return err
		}
		before := entry.Snapshot()

		if err := entry.Deactivate(); err != nil {
			return err
		}
		if err := repos.References().Save(ctx, entry); err != nil {
			return err
		}

		auditEntry, err := audit.NewEntry(actorID, reference.EntityType, entry.ID, audit.OperationDelete, before, entry.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, auditEntry); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, kind)
	s.logger.Info("Reference entry deactivated",
		zap.String("kind", string(kind)),
		zap.String("code", code),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// ListByKind returns the entries of one kind, cache first
func (s *ReferenceService) ListByKind(ctx context.Context, kind reference.Kind) ([]EntryResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_KIND", "Unknown reference kind: "+string(kind))
	}

	if s.cache != nil {
		entries, found, err := s.cache.GetKind(ctx, kind)
		if err != nil {
			s.logger.Warn("Reference cache read failed, falling back to repository",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		} else if found {
			return ToEntryResponses(entries), nil
		}
	}

	entries, err := s.entryRepo.FindByKind(ctx, kind)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetKind(ctx, kind, entries); err != nil {
			s.logger.Warn("Reference cache write failed",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
	}

	return ToEntryResponses(entries), nil
}

// GetEntry returns one entry by kind and code
func (s *ReferenceService) GetEntry(ctx context.Context, kind reference.Kind, code string) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByKindAndCode(ctx, kind, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(entry)
	return &response, nil
}

func (s *ReferenceService) invalidate(ctx context.Context, kind reference.Kind) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, kind); err != nil {
		s.logger.Warn("Reference cache invalidation failed",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}
