package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appaudit "github.com/milorg/backend/internal/application/audit"
	apphierarchy "github.com/milorg/backend/internal/application/hierarchy"
	apporder "github.com/milorg/backend/internal/application/order"
	appreference "github.com/milorg/backend/internal/application/reference"
	apptransfer "github.com/milorg/backend/internal/application/transfer"
	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/infrastructure/persistence"
)

// testEnv wires the full application stack against a real database so
// tests exercise the same transaction scopes, locks, and indexes as
// production.
type testEnv struct {
	db *TestDB

	hierarchy *apphierarchy.HierarchyService
	transfer  *apptransfer.TransferService
	order     *apporder.OrderService
	reference *appreference.ReferenceService
	history   *appaudit.HistoryService

	actorID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tdb := NewTestDB(t)
	log := zap.NewNop()

	divisionRepo := persistence.NewGormDivisionRepository(tdb.DB)
	transferRepo := persistence.NewGormTransferRepository(tdb.DB)
	holdingRepo := persistence.NewGormHoldingRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	assignmentRepo := persistence.NewGormAssignmentRepository(tdb.DB)
	entryRepo := persistence.NewGormReferenceRepository(tdb.DB)
	auditRepo := persistence.NewGormAuditRecordRepository(tdb.DB)

	env := &testEnv{
		db: tdb,
		hierarchy: apphierarchy.NewHierarchyService(
			persistence.NewGormHierarchyTransactionScope(tdb.DB), divisionRepo, log),
		transfer: apptransfer.NewTransferService(
			persistence.NewGormTransferTransactionScope(tdb.DB), transferRepo, holdingRepo, log),
		order: apporder.NewOrderService(
			persistence.NewGormOrderTransactionScope(tdb.DB), orderRepo, assignmentRepo, log),
		reference: appreference.NewReferenceService(
			persistence.NewGormReferenceTransactionScope(tdb.DB), entryRepo, nil, log),
		history: appaudit.NewHistoryService(auditRepo, log),
		actorID: uuid.New(),
	}

	env.seedReferenceData(t)

	return env
}

// seedReferenceData inserts the codes the services validate against:
// every create path checks its type and priority codes before writing.
func (env *testEnv) seedReferenceData(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	entries := []appreference.CreateEntryInput{
		{Kind: reference.KindOrderType, Code: "OPERATIONAL", Label: "Operational order", SortOrder: 1},
		{Kind: reference.KindTransferType, Code: "PERMANENT", Label: "Permanent transfer", SortOrder: 1},
		{Kind: reference.KindTransferType, Code: "TEMPORARY", Label: "Temporary transfer", SortOrder: 2},
		{Kind: reference.KindTransferCategory, Code: "EQUIPMENT", Label: "Equipment", SortOrder: 1},
		{Kind: reference.KindItemType, Code: "VEHICLE", Label: "Vehicle", SortOrder: 1},
		{Kind: reference.KindItemType, Code: "RADIO", Label: "Radio set", SortOrder: 2},
		{Kind: reference.KindPriority, Code: "URGENT", Label: "Urgent", SortOrder: 1},
		{Kind: reference.KindTargetType, Code: "DIVISION", Label: "Division", SortOrder: 1},
	}
	for _, input := range entries {
		_, err := env.reference.CreateEntry(ctx, env.actorID, input)
		require.NoError(t, err, "seeding reference entry %s/%s", input.Kind, input.Code)
	}
}

// createDivision creates an active division and returns its ID.
func (env *testEnv) createDivision(t *testing.T, code, name string, parentID *uuid.UUID) uuid.UUID {
	t.Helper()

	resp, err := env.hierarchy.CreateDivision(context.Background(), env.actorID, apphierarchy.CreateDivisionInput{
		Code:     code,
		Name:     name,
		ParentID: parentID,
	})
	require.NoError(t, err, "creating division %s", code)
	return resp.ID
}

// createDraftTransfer creates a draft transfer moving one item between
// the given divisions and returns its ID.
func (env *testEnv) createDraftTransfer(t *testing.T, source, destination uuid.UUID, itemType, identifier string) uuid.UUID {
	t.Helper()

	resp, err := env.transfer.CreateTransfer(context.Background(), env.actorID, apptransfer.CreateTransferInput{
		Type:                  "PERMANENT",
		Category:              "EQUIPMENT",
		SourceDivisionID:      source,
		DestinationDivisionID: destination,
		EffectiveDate:         time.Now(),
		Items: []apptransfer.TransferItemInput{
			{ItemType: itemType, Identifier: identifier, Quantity: decimal.NewFromInt(1), Unit: "pcs"},
		},
	})
	require.NoError(t, err, "creating transfer for %s/%s", itemType, identifier)
	return resp.ID
}
