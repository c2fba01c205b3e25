package integrity

import (
	"testing"

	"github.com/milorg/backend/internal/application/audit"
	"github.com/milorg/backend/internal/application/hierarchy"
	"github.com/milorg/backend/internal/application/order"
	"github.com/milorg/backend/internal/application/reference"
	"github.com/milorg/backend/internal/application/transfer"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewFacade(t *testing.T) {
	logger := zap.NewNop()
	hierarchySvc := hierarchy.NewHierarchyService(nil, nil, logger)
	transferSvc := transfer.NewTransferService(nil, nil, nil, logger)
	orderSvc := order.NewOrderService(nil, nil, nil, logger)
	historySvc := audit.NewHistoryService(nil, logger)
	referenceSvc := reference.NewReferenceService(nil, nil, nil, logger)

	facade := NewFacade(hierarchySvc, transferSvc, orderSvc, historySvc, referenceSvc)

	assert.Same(t, hierarchySvc, facade.HierarchyService)
	assert.Same(t, transferSvc, facade.TransferService)
	assert.Same(t, orderSvc, facade.OrderService)
	assert.Same(t, historySvc, facade.HistoryService)
	assert.Same(t, referenceSvc, facade.ReferenceService)
}
