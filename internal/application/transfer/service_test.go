package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/milorg/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockTransferRepository is a mock implementation of TransferRepository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, t *transfer.Transfer) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransferRepository) Save(ctx context.Context, t *transfer.Transfer) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Transfer), args.Error(1)
}

func (m *MockTransferRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Transfer), args.Error(1)
}

func (m *MockTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.Transfer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.Transfer), args.Error(1)
}

func (m *MockTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransferRepository) FindActiveConflicts(ctx context.Context, excludeTransferID uuid.UUID, identities []transfer.ItemIdentity) ([]transfer.ActiveConflict, error) {
	args := m.Called(ctx, excludeTransferID, identities)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.ActiveConflict), args.Error(1)
}

func (m *MockTransferRepository) CountActiveByDivision(ctx context.Context, divisionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, divisionID)
	return args.Get(0).(int64), args.Error(1)
}

// MockHoldingRepository is a mock implementation of HoldingRepository
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) Upsert(ctx context.Context, holding *transfer.ItemHolding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) FindByIdentity(ctx context.Context, identity transfer.ItemIdentity) (*transfer.ItemHolding, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.ItemHolding), args.Error(1)
}

func (m *MockHoldingRepository) FindByDivision(ctx context.Context, divisionID uuid.UUID, filter shared.Filter) ([]transfer.ItemHolding, error) {
	args := m.Called(ctx, divisionID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.ItemHolding), args.Error(1)
}

// MockDivisionRepository is a mock implementation of DivisionRepository
type MockDivisionRepository struct {
	mock.Mock
}

func (m *MockDivisionRepository) Create(ctx context.Context, div *hierarchy.Division) error {
	args := m.Called(ctx, div)
	return args.Error(0)
}

func (m *MockDivisionRepository) Save(ctx context.Context, div *hierarchy.Division) error {
	args := m.Called(ctx, div)
	return args.Error(0)
}

func (m *MockDivisionRepository) FindByID(ctx context.Context, id uuid.UUID) (*hierarchy.Division, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hierarchy.Division), args.Error(1)
}

func (m *MockDivisionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*hierarchy.Division, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hierarchy.Division), args.Error(1)
}

func (m *MockDivisionRepository) FindByCode(ctx context.Context, code string) (*hierarchy.Division, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hierarchy.Division), args.Error(1)
}

func (m *MockDivisionRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]hierarchy.Division, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hierarchy.Division), args.Error(1)
}

func (m *MockDivisionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]hierarchy.Division, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hierarchy.Division), args.Error(1)
}

func (m *MockDivisionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDivisionRepository) CountActiveChildren(ctx context.Context, parentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDivisionRepository) MaxSiblingSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	args := m.Called(ctx, parentID)
	return args.Int(0), args.Error(1)
}

// MockEntryRepository is a mock implementation of reference.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *reference.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *reference.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) FindByKindAndCode(ctx context.Context, kind reference.Kind, code string) (*reference.Entry, error) {
	args := m.Called(ctx, kind, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reference.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindByKind(ctx context.Context, kind reference.Kind) ([]reference.Entry, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reference.Entry), args.Error(1)
}

func (m *MockEntryRepository) ExistsActive(ctx context.Context, kind reference.Kind, code string) (bool, error) {
	args := m.Called(ctx, kind, code)
	return args.Bool(0), args.Error(1)
}

// MockAuditRecorder is a mock implementation of audit.Recorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Append(ctx context.Context, entry *audit.Entry) (*audit.Record, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Record), args.Error(1)
}

type transferFixture struct {
	transferRepo *MockTransferRepository
	holdingRepo  *MockHoldingRepository
	divisionRepo *MockDivisionRepository
	entryRepo    *MockEntryRepository
	recorder     *MockAuditRecorder
	service      *TransferService
}

func newTransferFixture() *transferFixture {
	f := &transferFixture{
		transferRepo: new(MockTransferRepository),
		holdingRepo:  new(MockHoldingRepository),
		divisionRepo: new(MockDivisionRepository),
		entryRepo:    new(MockEntryRepository),
		recorder:     new(MockAuditRecorder),
	}
	scope := NewNoOpTransactionScope(f.transferRepo, f.holdingRepo, f.divisionRepo, f.entryRepo, f.recorder)
	f.service = NewTransferService(scope, f.transferRepo, f.holdingRepo, zap.NewNop())
	return f
}

var (
	testActorID = uuid.New()
	testSrcID   = uuid.New()
	testDstID   = uuid.New()
)

func activeDivision(id uuid.UUID, code string) *hierarchy.Division {
	div, _ := hierarchy.NewDivision(code, "Division "+code, "", false)
	div.ID = id
	return div
}

func expectRecord(recorder *MockAuditRecorder) {
	recorder.On("Append", mock.Anything, mock.AnythingOfType("*audit.Entry")).
		Return(&audit.Record{Seq: 1, ID: uuid.New(), RecordedAt: time.Now()}, nil)
}

func draftTransfer() *transfer.Transfer {
	t, _ := transfer.NewTransfer("", "RELOCATION", testSrcID, testDstID, time.Now(), nil)
	t.AddItem("VEHICLE", "VH-100", decimal.NewFromInt(1), "unit", "")
	return t
}

func activeTransfer() *transfer.Transfer {
	t := draftTransfer()
	t.Activate()
	return t
}

func TestTransferService_CreateTransfer(t *testing.T) {
	t.Run("create a draft transfer", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()

		f.divisionRepo.On("FindByID", ctx, testSrcID).Return(activeDivision(testSrcID, "alpha"), nil)
		f.divisionRepo.On("FindByID", ctx, testDstID).Return(activeDivision(testDstID, "bravo"), nil)
		f.entryRepo.On("ExistsActive", ctx, reference.KindTransferType, "RELOCATION").Return(true, nil)
		f.entryRepo.On("ExistsActive", ctx, reference.KindItemType, "VEHICLE").Return(true, nil)
		f.transferRepo.On("Create", ctx, mock.AnythingOfType("*transfer.Transfer")).Return(nil)
		expectRecord(f.recorder)

		result, err := f.service.CreateTransfer(ctx, testActorID, CreateTransferInput{
			Type:                  "RELOCATION",
			SourceDivisionID:      testSrcID,
			DestinationDivisionID: testDstID,
			EffectiveDate:         time.Now(),
			Items: []TransferItemInput{
				{ItemType: "VEHICLE", Identifier: "VH-100", Quantity: decimal.NewFromInt(1), Unit: "unit"},
			},
		})

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, "DRAFT", result.Status)
		assert.Len(t, result.Items, 1)
		f.transferRepo.AssertExpectations(t)
		f.recorder.AssertExpectations(t)
	})

	t.Run("reject empty item list", func(t *testing.T) {
		f := newTransferFixture()

		_, err := f.service.CreateTransfer(context.Background(), testActorID, CreateTransferInput{
			Type:                  "RELOCATION",
			SourceDivisionID:      testSrcID,
			DestinationDivisionID: testDstID,
			EffectiveDate:         time.Now(),
		})

		assert.Error(t, err)
		f.transferRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("reject unknown source division", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()

		f.divisionRepo.On("FindByID", ctx, testSrcID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateTransfer(ctx, testActorID, CreateTransferInput{
			Type:                  "RELOCATION",
			SourceDivisionID:      testSrcID,
			DestinationDivisionID: testDstID,
			EffectiveDate:         time.Now(),
			Items: []TransferItemInput{
				{ItemType: "VEHICLE", Identifier: "VH-100", Quantity: decimal.NewFromInt(1), Unit: "unit"},
			},
		})

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DIVISION", domainErr.Code)
	})

	t.Run("reject deactivated destination division", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()

		dst := activeDivision(testDstID, "bravo")
		dst.Deactivate()
		f.divisionRepo.On("FindByID", ctx, testSrcID).Return(activeDivision(testSrcID, "alpha"), nil)
		f.divisionRepo.On("FindByID", ctx, testDstID).Return(dst, nil)

		_, err := f.service.CreateTransfer(ctx, testActorID, CreateTransferInput{
			Type:                  "RELOCATION",
			SourceDivisionID:      testSrcID,
			DestinationDivisionID: testDstID,
			EffectiveDate:         time.Now(),
			Items: []TransferItemInput{
				{ItemType: "VEHICLE", Identifier: "VH-100", Quantity: decimal.NewFromInt(1), Unit: "unit"},
			},
		})

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DIVISION", domainErr.Code)
	})

	t.Run("reject unknown transfer type code", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()

		f.divisionRepo.On("FindByID", ctx, testSrcID).Return(activeDivision(testSrcID, "alpha"), nil)
		f.divisionRepo.On("FindByID", ctx, testDstID).Return(activeDivision(testDstID, "bravo"), nil)
		f.entryRepo.On("ExistsActive", ctx, reference.KindTransferType, "BOGUS").Return(false, nil)

		_, err := f.service.CreateTransfer(ctx, testActorID, CreateTransferInput{
			Type:                  "BOGUS",
			SourceDivisionID:      testSrcID,
			DestinationDivisionID: testDstID,
			EffectiveDate:         time.Now(),
			Items: []TransferItemInput{
				{ItemType: "VEHICLE", Identifier: "VH-100", Quantity: decimal.NewFromInt(1), Unit: "unit"},
			},
		})

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})
}

func TestTransferService_ActivateTransfer(t *testing.T) {
	t.Run("activate a conflict-free transfer", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		tr := draftTransfer()

		f.transferRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)
		f.transferRepo.On("FindActiveConflicts", ctx, tr.ID, tr.Identities()).
			Return([]transfer.ActiveConflict{}, nil)
		f.transferRepo.On("Save", ctx, tr).Return(nil)
		expectRecord(f.recorder)

		err := f.service.ActivateTransfer(ctx, testActorID, tr.ID)

		assert.NoError(t, err)
		assert.Equal(t, transfer.TransferStatusActive, tr.Status)
		f.transferRepo.AssertExpectations(t)
		f.recorder.AssertExpectations(t)
	})

	t.Run("reject activation when an identity is already on an active transfer", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		tr := draftTransfer()
		other := uuid.New()

		f.transferRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)
		f.transferRepo.On("FindActiveConflicts", ctx, tr.ID, tr.Identities()).
			Return([]transfer.ActiveConflict{
				{Identity: transfer.ItemIdentity{ItemType: "VEHICLE", Identifier: "VH-100"}, TransferID: other},
			}, nil)

		err := f.service.ActivateTransfer(ctx, testActorID, tr.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICTING_ACTIVE_TRANSFER", domainErr.Code)
		assert.Contains(t, domainErr.Message, "VEHICLE/VH-100")
		assert.Contains(t, domainErr.Message, other.String())
		assert.Equal(t, transfer.TransferStatusDraft, tr.Status)
		f.transferRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.recorder.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("reject activation from a terminal status", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		tr := draftTransfer()
		tr.Cancel()

		f.transferRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)
		f.transferRepo.On("FindActiveConflicts", ctx, tr.ID, tr.Identities()).
			Return([]transfer.ActiveConflict{}, nil)

		err := f.service.ActivateTransfer(ctx, testActorID, tr.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestTransferService_CompleteTransfer(t *testing.T) {
	t.Run("complete moves every item to the destination", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		tr := draftTransfer()
		tr.AddItem("RADIO", "RD-7", decimal.NewFromInt(2), "unit", "")
		tr.Activate()

		f.transferRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)
		f.transferRepo.On("Save", ctx, tr).Return(nil)
		f.holdingRepo.On("Upsert", ctx, mock.MatchedBy(func(h *transfer.ItemHolding) bool {
			return h.DivisionID == testDstID
		})).Return(nil).Times(2)
		expectRecord(f.recorder)

		err := f.service.CompleteTransfer(ctx, testActorID, tr.ID)

		assert.NoError(t, err)
		assert.Equal(t, transfer.TransferStatusCompleted, tr.Status)
		assert.NotNil(t, tr.CompletedAt)
		for _, item := range tr.Items {
			assert.False(t, item.IsActive)
		}
		f.holdingRepo.AssertExpectations(t)
		f.recorder.AssertExpectations(t)
	})

	t.Run("reject completion of a draft transfer", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		tr := draftTransfer()

		f.transferRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)

		err := f.service.CompleteTransfer(ctx, testActorID, tr.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		f.holdingRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestTransferService_CancelTransfer(t *testing.T) {
	t.Run("cancel an active transfer without location changes", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		tr := activeTransfer()

		f.transferRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)
		f.transferRepo.On("Save", ctx, tr).Return(nil)
		expectRecord(f.recorder)

		err := f.service.CancelTransfer(ctx, testActorID, tr.ID)

		assert.NoError(t, err)
		assert.Equal(t, transfer.TransferStatusCancelled, tr.Status)
		f.holdingRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("reject cancelling a completed transfer", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		tr := activeTransfer()
		tr.Complete()

		f.transferRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)

		err := f.service.CancelTransfer(ctx, testActorID, tr.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestTransferService_AddItem(t *testing.T) {
	t.Run("add an item to a draft transfer", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		tr := draftTransfer()

		f.transferRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)
		f.entryRepo.On("ExistsActive", ctx, reference.KindItemType, "RADIO").Return(true, nil)
		f.transferRepo.On("Save", ctx, tr).Return(nil)
		expectRecord(f.recorder)

		item, err := f.service.AddItem(ctx, testActorID, tr.ID, TransferItemInput{
			ItemType: "RADIO", Identifier: "RD-7", Quantity: decimal.NewFromInt(1), Unit: "unit",
		})

		assert.NoError(t, err)
		assert.Equal(t, "RADIO", item.ItemType)
		assert.Len(t, tr.Items, 2)
	})

	t.Run("reject duplicate identity within the transfer", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		tr := draftTransfer()

		f.transferRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)
		f.entryRepo.On("ExistsActive", ctx, reference.KindItemType, "VEHICLE").Return(true, nil)

		_, err := f.service.AddItem(ctx, testActorID, tr.ID, TransferItemInput{
			ItemType: "VEHICLE", Identifier: "VH-100", Quantity: decimal.NewFromInt(1), Unit: "unit",
		})

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_ITEM", domainErr.Code)
	})
}

func TestTransferService_GetHolding(t *testing.T) {
	t.Run("return the current holder of an item identity", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		identity := transfer.ItemIdentity{ItemType: "VEHICLE", Identifier: "VH-100"}

		f.holdingRepo.On("FindByIdentity", ctx, identity).
			Return(transfer.NewItemHolding(identity, testDstID), nil)

		holding, err := f.service.GetHolding(ctx, "VEHICLE", "VH-100")

		assert.NoError(t, err)
		assert.Equal(t, testDstID, holding.DivisionID)
	})

	t.Run("propagate not found", func(t *testing.T) {
		f := newTransferFixture()
		ctx := context.Background()
		identity := transfer.ItemIdentity{ItemType: "VEHICLE", Identifier: "VH-999"}

		f.holdingRepo.On("FindByIdentity", ctx, identity).Return(nil, shared.ErrNotFound)

		_, err := f.service.GetHolding(ctx, "VEHICLE", "VH-999")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
