package integrity

import (
	"github.com/milorg/backend/internal/application/audit"
	"github.com/milorg/backend/internal/application/hierarchy"
	"github.com/milorg/backend/internal/application/order"
	"github.com/milorg/backend/internal/application/reference"
	"github.com/milorg/backend/internal/application/transfer"
)

// Facade is the single entry point external layers talk to. It composes
// the hierarchy, transfer, order, audit and reference services; every
// mutation delegates to one service method, which runs one transactional
// unit of work together with its audit record. The facade itself owns no
// business rules.
type Facade struct {
	*hierarchy.HierarchyService
	*transfer.TransferService
	*order.OrderService
	*audit.HistoryService
	*reference.ReferenceService
}

// NewFacade composes the application services into one surface.
func NewFacade(
	hierarchySvc *hierarchy.HierarchyService,
	transferSvc *transfer.TransferService,
	orderSvc *order.OrderService,
	historySvc *audit.HistoryService,
	referenceSvc *reference.ReferenceService,
) *Facade {
	return &Facade{
		HierarchyService: hierarchySvc,
		TransferService:  transferSvc,
		OrderService:     orderSvc,
		HistoryService:   historySvc,
		ReferenceService: referenceSvc,
	}
}
