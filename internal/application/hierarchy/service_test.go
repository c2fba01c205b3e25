package hierarchy

import (
	"context"
	"testing"
	"time"

	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/milorg/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

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

// MockTransferRepository is a mock implementation of transfer.TransferRepository
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

type hierarchyFixture struct {
	divisionRepo *MockDivisionRepository
	transferRepo *MockTransferRepository
	recorder     *MockAuditRecorder
	service      *HierarchyService
}

func newHierarchyFixture() *hierarchyFixture {
	f := &hierarchyFixture{
		divisionRepo: new(MockDivisionRepository),
		transferRepo: new(MockTransferRepository),
		recorder:     new(MockAuditRecorder),
	}
	scope := NewNoOpTransactionScope(f.divisionRepo, f.transferRepo, f.recorder)
	f.service = NewHierarchyService(scope, f.divisionRepo, zap.NewNop())
	return f
}

var testActorID = uuid.New()

func testDivision(code string, parentID *uuid.UUID) *hierarchy.Division {
	div, _ := hierarchy.NewDivision(code, "Division "+code, "", false)
	if parentID != nil {
		div.SetParent(parentID)
	}
	return div
}

func expectRecord(recorder *MockAuditRecorder) {
	recorder.On("Append", mock.Anything, mock.AnythingOfType("*audit.Entry")).
		Return(&audit.Record{Seq: 1, ID: uuid.New(), RecordedAt: time.Now()}, nil)
}

func TestHierarchyService_CreateDivision(t *testing.T) {
	t.Run("create a root division", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()

		f.divisionRepo.On("FindByCode", ctx, "HQ").Return(nil, shared.ErrNotFound)
		f.divisionRepo.On("MaxSiblingSortOrder", ctx, (*uuid.UUID)(nil)).Return(20, nil)
		f.divisionRepo.On("Create", ctx, mock.AnythingOfType("*hierarchy.Division")).Return(nil)
		expectRecord(f.recorder)

		result, err := f.service.CreateDivision(ctx, testActorID, CreateDivisionInput{
			Code: "hq",
			Name: "Headquarters",
		})

		assert.NoError(t, err)
		assert.Equal(t, "HQ", result.Code)
		assert.Equal(t, 30, result.SortOrder)
		assert.Nil(t, result.ParentID)
		f.divisionRepo.AssertExpectations(t)
		f.recorder.AssertExpectations(t)
	})

	t.Run("create a child under an active parent", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		parent := testDivision("HQ", nil)

		f.divisionRepo.On("FindByID", ctx, parent.ID).Return(parent, nil)
		f.divisionRepo.On("FindByCode", ctx, "ALPHA").Return(nil, shared.ErrNotFound)
		f.divisionRepo.On("MaxSiblingSortOrder", ctx, &parent.ID).Return(0, nil)
		f.divisionRepo.On("Create", ctx, mock.AnythingOfType("*hierarchy.Division")).Return(nil)
		expectRecord(f.recorder)

		result, err := f.service.CreateDivision(ctx, testActorID, CreateDivisionInput{
			Code:     "ALPHA",
			Name:     "Alpha Company",
			ParentID: &parent.ID,
		})

		assert.NoError(t, err)
		assert.Equal(t, parent.ID, *result.ParentID)
		assert.Equal(t, 10, result.SortOrder)
	})

	t.Run("reject missing parent", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		parentID := uuid.New()

		f.divisionRepo.On("FindByID", ctx, parentID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateDivision(ctx, testActorID, CreateDivisionInput{
			Code:     "ALPHA",
			Name:     "Alpha Company",
			ParentID: &parentID,
		})

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARENT", domainErr.Code)
		f.divisionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("reject deactivated parent", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		parent := testDivision("HQ", nil)
		parent.Deactivate()

		f.divisionRepo.On("FindByID", ctx, parent.ID).Return(parent, nil)

		_, err := f.service.CreateDivision(ctx, testActorID, CreateDivisionInput{
			Code:     "ALPHA",
			Name:     "Alpha Company",
			ParentID: &parent.ID,
		})

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARENT", domainErr.Code)
	})

	t.Run("reject duplicate code", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()

		f.divisionRepo.On("FindByCode", ctx, "HQ").Return(testDivision("HQ", nil), nil)

		_, err := f.service.CreateDivision(ctx, testActorID, CreateDivisionInput{
			Code: "HQ",
			Name: "Headquarters",
		})

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_CODE", domainErr.Code)
		f.recorder.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestHierarchyService_MoveDivision(t *testing.T) {
	t.Run("move under a valid parent", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		root := testDivision("HQ", nil)
		div := testDivision("ALPHA", &root.ID)
		target := testDivision("BRAVO", &root.ID)

		f.divisionRepo.On("FindByIDForUpdate", ctx, div.ID).Return(div, nil)
		f.divisionRepo.On("FindByIDForUpdate", ctx, target.ID).Return(target, nil)
		f.divisionRepo.On("FindByIDForUpdate", ctx, root.ID).Return(root, nil)
		f.divisionRepo.On("Save", ctx, div).Return(nil)
		expectRecord(f.recorder)

		err := f.service.MoveDivision(ctx, testActorID, div.ID, target.ID)

		assert.NoError(t, err)
		assert.Equal(t, target.ID, *div.ParentID)
		f.divisionRepo.AssertExpectations(t)
		f.recorder.AssertExpectations(t)
	})

	t.Run("reject a move that would form a cycle", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		// grandparent <- parent <- child; moving grandparent under child
		// must be detected by walking child's ancestor chain.
		grandparent := testDivision("HQ", nil)
		parent := testDivision("ALPHA", &grandparent.ID)
		child := testDivision("SQUAD", &parent.ID)

		f.divisionRepo.On("FindByIDForUpdate", ctx, grandparent.ID).Return(grandparent, nil)
		f.divisionRepo.On("FindByIDForUpdate", ctx, child.ID).Return(child, nil)
		f.divisionRepo.On("FindByIDForUpdate", ctx, parent.ID).Return(parent, nil)

		err := f.service.MoveDivision(ctx, testActorID, grandparent.ID, child.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CYCLE_DETECTED", domainErr.Code)
		assert.Nil(t, grandparent.ParentID)
		f.divisionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.recorder.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("reject moving a division under itself", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		div := testDivision("ALPHA", nil)

		f.divisionRepo.On("FindByIDForUpdate", ctx, div.ID).Return(div, nil)

		err := f.service.MoveDivision(ctx, testActorID, div.ID, div.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CYCLE_DETECTED", domainErr.Code)
	})

	t.Run("reject a deactivated target parent", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		div := testDivision("ALPHA", nil)
		target := testDivision("BRAVO", nil)
		target.Deactivate()

		f.divisionRepo.On("FindByIDForUpdate", ctx, div.ID).Return(div, nil)
		f.divisionRepo.On("FindByIDForUpdate", ctx, target.ID).Return(target, nil)

		err := f.service.MoveDivision(ctx, testActorID, div.ID, target.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARENT", domainErr.Code)
	})
}

func TestHierarchyService_DeactivateDivision(t *testing.T) {
	t.Run("deactivate a leaf division", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		div := testDivision("ALPHA", nil)

		f.divisionRepo.On("FindByIDForUpdate", ctx, div.ID).Return(div, nil)
		f.divisionRepo.On("CountActiveChildren", ctx, div.ID).Return(int64(0), nil)
		f.transferRepo.On("CountActiveByDivision", ctx, div.ID).Return(int64(0), nil)
		f.divisionRepo.On("Save", ctx, div).Return(nil)
		expectRecord(f.recorder)

		err := f.service.DeactivateDivision(ctx, testActorID, div.ID)

		assert.NoError(t, err)
		assert.False(t, div.IsActive())
		f.recorder.AssertExpectations(t)
	})

	t.Run("reject while active children remain", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		div := testDivision("ALPHA", nil)

		f.divisionRepo.On("FindByIDForUpdate", ctx, div.ID).Return(div, nil)
		f.divisionRepo.On("CountActiveChildren", ctx, div.ID).Return(int64(2), nil)

		err := f.service.DeactivateDivision(ctx, testActorID, div.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "HAS_ACTIVE_DEPENDENTS", domainErr.Code)
		assert.True(t, div.IsActive())
	})

	t.Run("reject while the division is on an active transfer", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		div := testDivision("ALPHA", nil)

		f.divisionRepo.On("FindByIDForUpdate", ctx, div.ID).Return(div, nil)
		f.divisionRepo.On("CountActiveChildren", ctx, div.ID).Return(int64(0), nil)
		f.transferRepo.On("CountActiveByDivision", ctx, div.ID).Return(int64(1), nil)

		err := f.service.DeactivateDivision(ctx, testActorID, div.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "HAS_ACTIVE_DEPENDENTS", domainErr.Code)
	})
}

func TestHierarchyService_RestoreDivision(t *testing.T) {
	t.Run("restore under an active parent", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		parent := testDivision("HQ", nil)
		div := testDivision("ALPHA", &parent.ID)
		div.Deactivate()

		f.divisionRepo.On("FindByIDForUpdate", ctx, div.ID).Return(div, nil)
		f.divisionRepo.On("FindByID", ctx, parent.ID).Return(parent, nil)
		f.divisionRepo.On("Save", ctx, div).Return(nil)
		expectRecord(f.recorder)

		err := f.service.RestoreDivision(ctx, testActorID, div.ID)

		assert.NoError(t, err)
		assert.True(t, div.IsActive())
	})

	t.Run("reject restore under a deactivated parent", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		parent := testDivision("HQ", nil)
		div := testDivision("ALPHA", &parent.ID)
		div.Deactivate()
		parent.Deactivate()

		f.divisionRepo.On("FindByIDForUpdate", ctx, div.ID).Return(div, nil)
		f.divisionRepo.On("FindByID", ctx, parent.ID).Return(parent, nil)

		err := f.service.RestoreDivision(ctx, testActorID, div.ID)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARENT", domainErr.Code)
		assert.False(t, div.IsActive())
	})
}

func TestHierarchyService_GetSubtree(t *testing.T) {
	t.Run("return the division and its descendants breadth-first", func(t *testing.T) {
		f := newHierarchyFixture()
		ctx := context.Background()
		root := testDivision("HQ", nil)
		child := testDivision("ALPHA", &root.ID)
		grandchild := testDivision("SQUAD", &child.ID)

		f.divisionRepo.On("FindByID", ctx, root.ID).Return(root, nil)
		f.divisionRepo.On("FindChildren", ctx, root.ID).Return([]hierarchy.Division{*child}, nil)
		f.divisionRepo.On("FindChildren", ctx, child.ID).Return([]hierarchy.Division{*grandchild}, nil)
		f.divisionRepo.On("FindChildren", ctx, grandchild.ID).Return([]hierarchy.Division{}, nil)

		result, err := f.service.GetSubtree(ctx, root.ID)

		assert.NoError(t, err)
		assert.Len(t, result, 3)
		assert.Equal(t, root.ID, result[0].ID)
		assert.Equal(t, child.ID, result[1].ID)
		assert.Equal(t, grandchild.ID, result[2].ID)
	})
}
