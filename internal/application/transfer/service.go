package transfer

import (
	"context"
	"errors"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/milorg/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransferService enforces the transfer state machine and the
// single-active-transfer invariant: at most one Active transfer per item
// identity at any instant. Every transition runs in one unit of work with
// its audit record.
type TransferService struct {
	scope        TransactionScope
	transferRepo transfer.TransferRepository
	holdingRepo  transfer.HoldingRepository
	logger       *zap.Logger
}

// NewTransferService creates a new TransferService. transferRepo and
// holdingRepo serve the read-only queries; mutations go through the
// transaction scope.
func NewTransferService(scope TransactionScope, transferRepo transfer.TransferRepository, holdingRepo transfer.HoldingRepository, logger *zap.Logger) *TransferService {
	return &TransferService{
		scope:        scope,
		transferRepo: transferRepo,
		holdingRepo:  holdingRepo,
		logger:       logger,
	}
}

// CreateTransfer creates a draft transfer with its items. Both endpoints
// must be distinct active divisions and all type codes must resolve in
// reference data.
func (s *TransferService) CreateTransfer(ctx context.Context, actorID uuid.UUID, input CreateTransferInput) (*TransferResponse, error) {
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer must carry at least one item")
	}

	var response TransferResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.validateDivision(ctx, repos, input.SourceDivisionID); err != nil {
			return err
		}
		if err := s.validateDivision(ctx, repos, input.DestinationDivisionID); err != nil {
			return err
		}
		if err := s.validateCode(ctx, repos, reference.KindTransferType, input.Type); err != nil {
			return err
		}
		if input.Category != "" {
			if err := s.validateCode(ctx, repos, reference.KindTransferCategory, input.Category); err != nil {
				return err
			}
		}

		t, err := transfer.NewTransfer(input.Category, input.Type, input.SourceDivisionID, input.DestinationDivisionID, input.EffectiveDate, input.DueDate)
		if err != nil {
			return err
		}
		if input.OrderID != nil {
			t.SetOrder(*input.OrderID)
		}

		for _, item := range input.Items {
			if err := s.validateCode(ctx, repos, reference.KindItemType, item.ItemType); err != nil {
				return err
			}
			if _, err := t.AddItem(item.ItemType, item.Identifier, item.Quantity, item.Unit, item.Description); err != nil {
				return err
			}
		}

		if err := repos.Transfers().Create(ctx, t); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, transfer.EntityType, t.ID, audit.OperationCreate, nil, t.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}

		response = ToTransferResponse(t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer created",
		zap.String("transfer_id", response.ID.String()),
		zap.Int("item_count", len(response.Items)),
		zap.String("actor_id", actorID.String()),
	)

	return &response, nil
}

// AddItem adds an item to a draft transfer
func (s *TransferService) AddItem(ctx context.Context, actorID uuid.UUID, transferID uuid.UUID, input TransferItemInput) (*TransferItemResponse, error) {
	var response TransferItemResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByIDForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		before := t.Snapshot()

		if err := s.validateCode(ctx, repos, reference.KindItemType, input.ItemType); err != nil {
			return err
		}

		item, err := t.AddItem(input.ItemType, input.Identifier, input.Quantity, input.Unit, input.Description)
		if err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, transfer.EntityType, t.ID, audit.OperationUpdate, before, t.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}

		response = ToTransferItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// ActivateTransfer transitions a draft transfer to Active after checking
// that no other Active transfer carries any of its item identities. The
// check reads conflicting item rows under row locks inside the unit of
// work, and the partial unique index on active items catches the
// activation a concurrent transaction commits between check and set.
func (s *TransferService) ActivateTransfer(ctx context.Context, actorID uuid.UUID, transferID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByIDForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		before := t.Snapshot()

		conflicts, err := repos.Transfers().FindActiveConflicts(ctx, t.ID, t.Identities())
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			c := conflicts[0]
			return shared.NewDomainError("CONFLICTING_ACTIVE_TRANSFER",
				"Item "+c.Identity.String()+" is already on active transfer "+c.TransferID.String())
		}

		if err := t.Activate(); err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, transfer.EntityType, t.ID, audit.OperationStatusChange, before, t.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Transfer activated",
		zap.String("transfer_id", transferID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// CompleteTransfer transitions an Active transfer to Completed and
// re-homes every item on it: the destination division becomes the holder
// of each item identity, in the same unit of work.
func (s *TransferService) CompleteTransfer(ctx context.Context, actorID uuid.UUID, transferID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByIDForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		before := t.Snapshot()

		if err := t.Complete(); err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}

		locationChanges := make([]map[string]interface{}, 0, len(t.Items))
		for _, identity := range t.Identities() {
			holding := transfer.NewItemHolding(identity, t.DestinationDivisionID)
			if err := repos.Holdings().Upsert(ctx, holding); err != nil {
				return err
			}
			locationChanges = append(locationChanges, map[string]interface{}{
				"item_type":   identity.ItemType,
				"identifier":  identity.Identifier,
				"division_id": t.DestinationDivisionID.String(),
			})
		}

		after := t.Snapshot()
		after["location_changes"] = locationChanges

		entry, err := audit.NewEntry(actorID, transfer.EntityType, t.ID, audit.OperationStatusChange, before, after)
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Transfer completed",
		zap.String("transfer_id", transferID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// CancelTransfer aborts a Draft or Active transfer without any location
// change.
func (s *TransferService) CancelTransfer(ctx context.Context, actorID uuid.UUID, transferID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByIDForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		before := t.Snapshot()

		if err := t.Cancel(); err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, transfer.EntityType, t.ID, audit.OperationStatusChange, before, t.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Transfer cancelled",
		zap.String("transfer_id", transferID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// GetTransfer retrieves one transfer with its items
func (s *TransferService) GetTransfer(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	t, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(t)
	return &response, nil
}

// ListTransfers retrieves transfers with pagination and filters
func (s *TransferService) ListTransfers(ctx context.Context, filter ListTransfersFilter) ([]TransferResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.DivisionID != nil {
		domainFilter.Filters["division_id"] = *filter.DivisionID
	}

	transfers, err := s.transferRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transferRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransferResponses(transfers), total, nil
}

// GetHolding retrieves the division currently holding one item identity
func (s *TransferService) GetHolding(ctx context.Context, itemType, identifier string) (*HoldingResponse, error) {
	holding, err := s.holdingRepo.FindByIdentity(ctx, transfer.ItemIdentity{ItemType: itemType, Identifier: identifier})
	if err != nil {
		return nil, err
	}
	response := ToHoldingResponse(holding)
	return &response, nil
}

// ListHoldingsByDivision retrieves the items currently placed at a division
func (s *TransferService) ListHoldingsByDivision(ctx context.Context, divisionID uuid.UUID, filter ListHoldingsFilter) ([]HoldingResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.ItemType != "" {
		domainFilter.Filters["item_type"] = filter.ItemType
	}

	holdings, err := s.holdingRepo.FindByDivision(ctx, divisionID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]HoldingResponse, 0, len(holdings))
	for i := range holdings {
		responses = append(responses, ToHoldingResponse(&holdings[i]))
	}
	return responses, nil
}

func (s *TransferService) validateDivision(ctx context.Context, repos TransactionalRepositories, divisionID uuid.UUID) error {
	div, err := repos.Divisions().FindByID(ctx, divisionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_DIVISION", "Division does not exist: "+divisionID.String())
		}
		return err
	}
	if !div.IsActive() {
		return shared.NewDomainError("INVALID_DIVISION", "Division is deactivated: "+divisionID.String())
	}
	return nil
}

func (s *TransferService) validateCode(ctx context.Context, repos TransactionalRepositories, kind reference.Kind, code string) error {
	exists, err := repos.References().ExistsActive(ctx, kind, code)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown "+kind.String()+" code: "+code)
	}
	return nil
}
