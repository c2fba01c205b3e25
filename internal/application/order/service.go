package order

import (
	"context"
	"errors"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/order"
	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService tracks orders through their term lifecycle. Completing a
// term is idempotent, and when the last open term completes the order
// transition happens in the same unit of work, with one audit record per
// entity touched.
type OrderService struct {
	scope          TransactionScope
	orderRepo      order.OrderRepository
	assignmentRepo order.AssignmentRepository
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService. orderRepo and assignmentRepo
// serve the read-only queries; mutations go through the transaction scope.
func NewOrderService(scope TransactionScope, orderRepo order.OrderRepository, assignmentRepo order.AssignmentRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		scope:          scope,
		orderRepo:      orderRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// CreateOrder creates a draft order with its initial terms. The order
// number must be unique, the issuing and recipient divisions must be
// active, and the type and priority codes must resolve in reference data.
func (s *OrderService) CreateOrder(ctx context.Context, actorID uuid.UUID, input CreateOrderInput) (*OrderResponse, error) {
	var response OrderResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Orders().FindByOrderNumber(ctx, input.OrderNumber); err == nil {
			return shared.NewDomainError("DUPLICATE_ORDER_NUMBER", "Order number already in use: "+input.OrderNumber)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		if err := s.validateDivision(ctx, repos, input.IssuingDivisionID); err != nil {
			return err
		}
		for _, recipientID := range input.RecipientDivisionIDs {
			if err := s.validateDivision(ctx, repos, recipientID); err != nil {
				return err
			}
		}
		if err := s.validateCode(ctx, repos, reference.KindOrderType, input.Type); err != nil {
			return err
		}
		if input.Priority != "" {
			if err := s.validateCode(ctx, repos, reference.KindPriority, input.Priority); err != nil {
				return err
			}
		}

		o, err := order.NewOrder(input.OrderNumber, input.Type, input.Priority, input.IssuingDivisionID, input.RecipientDivisionIDs)
		if err != nil {
			return err
		}
		for _, term := range input.Terms {
			if _, err := o.AddTerm(term.Description, term.DueDate); err != nil {
				return err
			}
		}

		if err := repos.Orders().Create(ctx, o); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, order.EntityType, o.ID, audit.OperationCreate, nil, o.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}

		response = ToOrderResponse(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", response.ID.String()),
		zap.String("order_number", response.OrderNumber),
		zap.String("actor_id", actorID.String()),
	)

	return &response, nil
}

// AddTerm attaches a new open term to a non-terminal order
func (s *OrderService) AddTerm(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, input TermInput) (*TermResponse, error) {
	var response TermResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		before := o.Snapshot()

		term, err := o.AddTerm(input.Description, input.DueDate)
		if err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, order.EntityType, o.ID, audit.OperationUpdate, before, o.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}

		response = ToTermResponse(term)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// IssueOrder transitions a draft order to Issued
func (s *OrderService) IssueOrder(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID) error {
	return s.transition(ctx, actorID, orderID, "Order issued", func(o *order.Order) error {
		return o.Issue()
	})
}

// StartOrder transitions an issued order to InProgress
func (s *OrderService) StartOrder(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID) error {
	return s.transition(ctx, actorID, orderID, "Order started", func(o *order.Order) error {
		return o.Start()
	})
}

// CancelOrder aborts a non-terminal order
func (s *OrderService) CancelOrder(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID) error {
	return s.transition(ctx, actorID, orderID, "Order cancelled", func(o *order.Order) error {
		return o.Cancel()
	})
}

func (s *OrderService) transition(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, message string, fn func(o *order.Order) error) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		before := o.Snapshot()

		if err := fn(o); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, order.EntityType, o.ID, audit.OperationStatusChange, before, o.Snapshot())
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

	s.logger.Info(message,
		zap.String("order_id", orderID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// CompleteTerm marks a term complete. Completing a term that is already
// complete returns EffectAlreadyComplete without writing anything. When
// the last open term of an Issued or InProgress order completes, the
// order transitions to Completed in the same unit of work and both the
// term change and the order transition get their own audit records.
func (s *OrderService) CompleteTerm(ctx context.Context, actorID uuid.UUID, termID uuid.UUID) (*CompleteTermResult, error) {
	var result CompleteTermResult

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByTermIDForUpdate(ctx, termID)
		if err != nil {
			return err
		}

		term := o.FindTerm(termID)
		if term == nil {
			return shared.NewDomainError("NOT_FOUND", "Term not found: "+termID.String())
		}
		termBefore := term.Snapshot()
		orderBefore := o.Snapshot()

		effect, err := o.CompleteTerm(termID, actorID)
		if err != nil {
			return err
		}

		result = CompleteTermResult{
			Effect:      effect,
			OrderID:     o.ID,
			OrderStatus: string(o.Status),
		}

		if effect == order.EffectAlreadyComplete {
			return nil
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, order.TermEntityType, termID, audit.OperationUpdate, termBefore, term.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}

		if effect == order.EffectOrderCompleted {
			orderEntry, err := audit.NewEntry(actorID, order.EntityType, o.ID, audit.OperationStatusChange, orderBefore, o.Snapshot())
			if err != nil {
				return err
			}
			if _, err := repos.AuditRecords().Append(ctx, orderEntry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Term completed",
		zap.String("term_id", termID.String()),
		zap.String("order_id", result.OrderID.String()),
		zap.String("effect", string(result.Effect)),
		zap.String("actor_id", actorID.String()),
	)

	return &result, nil
}

// CreateAssignment delegates an order to an executor
func (s *OrderService) CreateAssignment(ctx context.Context, actorID uuid.UUID, input CreateAssignmentInput) (*AssignmentResponse, error) {
	var response AssignmentResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Orders().FindByID(ctx, input.OrderID); err != nil {
			return err
		}
		if err := s.validateCode(ctx, repos, reference.KindTargetType, input.TargetType); err != nil {
			return err
		}
		if input.Priority != "" {
			if err := s.validateCode(ctx, repos, reference.KindPriority, input.Priority); err != nil {
				return err
			}
		}

		a, err := order.NewAssignment(input.OrderID, input.ExecutorID, input.TargetType, input.Priority)
		if err != nil {
			return err
		}
		if err := repos.Assignments().Create(ctx, a); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, order.AssignmentEntityType, a.ID, audit.OperationCreate, nil, a.Snapshot())
		if err != nil {
			return err
		}
		if _, err := repos.AuditRecords().Append(ctx, entry); err != nil {
			return err
		}

		response = ToAssignmentResponse(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assignment created",
		zap.String("assignment_id", response.ID.String()),
		zap.String("order_id", input.OrderID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return &response, nil
}

// AdvanceAssignment moves an assignment one step along its lifecycle
func (s *OrderService) AdvanceAssignment(ctx context.Context, actorID uuid.UUID, assignmentID uuid.UUID, target order.AssignmentStatus) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		a, err := repos.Assignments().FindByIDForUpdate(ctx, assignmentID)
		if err != nil {
			return err
		}
		before := a.Snapshot()

		if err := a.Advance(target); err != nil {
			return err
		}
		if err := repos.Assignments().Save(ctx, a); err != nil {
			return err
		}

		entry, err := audit.NewEntry(actorID, order.AssignmentEntityType, a.ID, audit.OperationStatusChange, before, a.Snapshot())
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

	s.logger.Info("Assignment advanced",
		zap.String("assignment_id", assignmentID.String()),
		zap.String("status", target.String()),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// GetOrder retrieves one order with its terms
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetOrderByNumber retrieves one order by its order number
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// ListOrders retrieves orders with pagination and filters
func (s *OrderService) ListOrders(ctx context.Context, filter ListOrdersFilter) ([]OrderResponse, int64, error) {
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

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// ListAssignments retrieves the assignments of one order
func (s *OrderService) ListAssignments(ctx context.Context, orderID uuid.UUID) ([]AssignmentResponse, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToAssignmentResponses(assignments), nil
}

func (s *OrderService) validateDivision(ctx context.Context, repos TransactionalRepositories, divisionID uuid.UUID) error {
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

func (s *OrderService) validateCode(ctx context.Context, repos TransactionalRepositories, kind reference.Kind, code string) error {
	exists, err := repos.References().ExistsActive(ctx, kind, code)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown "+kind.String()+" code: "+code)
	}
	return nil
}
