package hierarchy

import (
	"context"
	"errors"
	"strings"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sortOrderStep spaces sibling sort orders so entries can be inserted
// between existing ones without renumbering.
const sortOrderStep = 10

// HierarchyService owns the division tree. Every mutation runs in one unit
// of work together with exactly one audit record.
type HierarchyService struct {
	scope        TransactionScope
	divisionRepo hierarchy.DivisionRepository
	logger       *zap.Logger
}

// NewHierarchyService creates a new HierarchyService. divisionRepo serves
// the read-only queries; mutations go through the transaction scope.
func NewHierarchyService(scope TransactionScope, divisionRepo hierarchy.DivisionRepository, logger *zap.Logger) *HierarchyService {
	return &HierarchyService{
		scope:        scope,
		divisionRepo: divisionRepo,
		logger:       logger,
	}
}

// CreateDivision provisions a new division, optionally under a parent.
// Fails with INVALID_PARENT when the parent is missing or deactivated and
// with DUPLICATE_CODE on a code collision.
func (s *HierarchyService) CreateDivision(ctx context.Context, actorID uuid.UUID, input CreateDivisionInput) (*DivisionResponse, error) {
	var response DivisionResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if input.ParentID != nil {
			parent, err := repos.Divisions().FindByID(ctx, *input.ParentID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("INVALID_PARENT", "Parent division does not exist: "+input.ParentID.String())
				}
				return err
			}
			if !parent.IsActive() {
				return shared.NewDomainError("INVALID_PARENT", "Parent division is deactivated: "+parent.ID.String())
			}
		}

		code := strings.ToUpper(strings.TrimSpace(input.Code))
		if _, err := repos.Divisions().FindByCode(ctx, code); err == nil {
			return shared.NewDomainError("DUPLICATE_CODE", "Division code already in use: "+code)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		div, err := hierarchy.NewDivision(input.Code, input.Name, input.ShortName, input.IsInternal)
		if err != nil {
			return err
		}
		if input.ParentID != nil {
			if err := div.SetParent(input.ParentID); err != nil {
				return err
			}
		}

		sortOrder, err := s.resolveSortOrder(ctx, repos, input)
		if err != nil {
			return err
		}
		div.SetSortOrder(sortOrder)

		if err := repos.Divisions().Create(ctx, div); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, hierarchy.EntityType, div.ID, audit.OperationCreate, nil, div.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}

		response = ToDivisionResponse(div)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Division created",
		zap.String("division_id", response.ID.String()),
		zap.String("code", response.Code),
		zap.String("actor_id", actorID.String()),
	)

	return &response, nil
}

// MoveDivision reparents a division. The ancestor chain of the new parent
// is walked under row locks against the persisted tree, so two concurrent
// moves cannot both pass the cycle check: whichever commits second either
// sees the other's parent pointers or blocks on the locked rows.
func (s *HierarchyService) MoveDivision(ctx context.Context, actorID uuid.UUID, divisionID, newParentID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		div, err := repos.Divisions().FindByIDForUpdate(ctx, divisionID)
		if err != nil {
			return err
		}
		before := div.Snapshot()

		parent, err := repos.Divisions().FindByIDForUpdate(ctx, newParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_PARENT", "Target parent does not exist: "+newParentID.String())
			}
			return err
		}
		if !parent.IsActive() {
			return shared.NewDomainError("INVALID_PARENT", "Target parent is deactivated: "+parent.ID.String())
		}

		// Walk upward from the new parent following persisted parent
		// pointers. Finding the moved division on the chain means the move
		// would parent the node under its own subtree.
		current := parent
		for {
			if current.ID == divisionID {
				return shared.NewDomainError("CYCLE_DETECTED", "Moving division "+divisionID.String()+" under "+newParentID.String()+" would create a cycle")
			}
			if current.ParentID == nil {
				break
			}
			current, err = repos.Divisions().FindByIDForUpdate(ctx, *current.ParentID)
			if err != nil {
				return err
			}
		}

		if err := div.SetParent(&newParentID); err != nil {
			return err
		}
		if err := repos.Divisions().Save(ctx, div); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, hierarchy.EntityType, div.ID, audit.OperationUpdate, before, div.Snapshot())
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

	s.logger.Info("Division moved",
		zap.String("division_id", divisionID.String()),
		zap.String("new_parent_id", newParentID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// DeactivateDivision soft-deletes a division. Fails with
// HAS_ACTIVE_DEPENDENTS while the division has active children or is an
// endpoint of an Active transfer.
func (s *HierarchyService) DeactivateDivision(ctx context.Context, actorID uuid.UUID, divisionID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		div, err := repos.Divisions().FindByIDForUpdate(ctx, divisionID)
		if err != nil {
			return err
		}
		before := div.Snapshot()

		activeChildren, err := repos.Divisions().CountActiveChildren(ctx, divisionID)
		if err != nil {
			return err
		}
		if activeChildren > 0 {
			return shared.NewDomainError("HAS_ACTIVE_DEPENDENTS", "Division "+divisionID.String()+" still has active child divisions")
		}

		activeTransfers, err := repos.Transfers().CountActiveByDivision(ctx, divisionID)
		if err != nil {
			return err
		}
		if activeTransfers > 0 {
			return shared.NewDomainError("HAS_ACTIVE_DEPENDENTS", "Division "+divisionID.String()+" is an endpoint of an active transfer")
		}

		if err := div.Deactivate(); err != nil {
			return err
		}
		if err := repos.Divisions().Save(ctx, div); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, hierarchy.EntityType, div.ID, audit.OperationDelete, before, div.Snapshot())
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

	s.logger.Info("Division deactivated",
		zap.String("division_id", divisionID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// RestoreDivision reactivates a deactivated division. Fails with
// INVALID_PARENT when its parent is deactivated, since that would revive a
// node under a dead subtree.
func (s *HierarchyService) RestoreDivision(ctx context.Context, actorID uuid.UUID, divisionID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		div, err := repos.Divisions().FindByIDForUpdate(ctx, divisionID)
		if err != nil {
			return err
		}
		before := div.Snapshot()

		if div.ParentID != nil {
			parent, err := repos.Divisions().FindByID(ctx, *div.ParentID)
			if err != nil {
				return err
			}
			if !parent.IsActive() {
				return shared.NewDomainError("INVALID_PARENT", "Cannot restore under deactivated parent: "+parent.ID.String())
			}
		}

		if err := div.Restore(); err != nil {
			return err
		}
		if err := repos.Divisions().Save(ctx, div); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, hierarchy.EntityType, div.ID, audit.OperationUpdate, before, div.Snapshot())
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

	s.logger.Info("Division restored",
		zap.String("division_id", divisionID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// GetDivision retrieves one division by ID
func (s *HierarchyService) GetDivision(ctx context.Context, divisionID uuid.UUID) (*DivisionResponse, error) {
	div, err := s.divisionRepo.FindByID(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	response := ToDivisionResponse(div)
	return &response, nil
}

// ListDivisions retrieves divisions with pagination, search and status filter
func (s *HierarchyService) ListDivisions(ctx context.Context, filter ListDivisionsFilter) ([]DivisionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "sort_order",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	divs, err := s.divisionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.divisionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDivisionResponses(divs), total, nil
}

// GetChildren retrieves the direct children of a division
func (s *HierarchyService) GetChildren(ctx context.Context, divisionID uuid.UUID) ([]DivisionResponse, error) {
	if _, err := s.divisionRepo.FindByID(ctx, divisionID); err != nil {
		return nil, err
	}
	children, err := s.divisionRepo.FindChildren(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	return ToDivisionResponses(children), nil
}

// GetSubtree retrieves a division and all its descendants, breadth-first
// from the parent pointers.
func (s *HierarchyService) GetSubtree(ctx context.Context, divisionID uuid.UUID) ([]DivisionResponse, error) {
	root, err := s.divisionRepo.FindByID(ctx, divisionID)
	if err != nil {
		return nil, err
	}

	result := []DivisionResponse{ToDivisionResponse(root)}
	queue := []uuid.UUID{root.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		children, err := s.divisionRepo.FindChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		for i := range children {
			result = append(result, ToDivisionResponse(&children[i]))
			queue = append(queue, children[i].ID)
		}
	}

	return result, nil
}

func (s *HierarchyService) resolveSortOrder(ctx context.Context, repos TransactionalRepositories, input CreateDivisionInput) (int, error) {
	if input.SortOrder != nil {
		return *input.SortOrder, nil
	}
	max, err := repos.Divisions().MaxSiblingSortOrder(ctx, input.ParentID)
	if err != nil {
		return 0, err
	}
	return max + sortOrderStep, nil
}
