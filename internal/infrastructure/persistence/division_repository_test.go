package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDivisionRepository creates a GormDivisionRepository with a mocked SQL connection
func newMockDivisionRepository(t *testing.T) (*GormDivisionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDivisionRepository(gormDB), mock, mockDB
}

func divisionRows(id uuid.UUID, code string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "code", "name", "short_name", "parent_id", "sort_order", "is_internal", "status"}).
		AddRow(id, now, now, 1, code, "Test Division", "", nil, 10, false, "active")
}

func TestGormDivisionRepository_FindByID(t *testing.T) {
	t.Run("finds existing division", func(t *testing.T) {
		repo, mock, mockDB := newMockDivisionRepository(t)
		defer mockDB.Close()

		divisionID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "divisions" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(divisionID, 1).
			WillReturnRows(divisionRows(divisionID, "HQ"))

		div, err := repo.FindByID(context.Background(), divisionID)

		assert.NoError(t, err)
		assert.NotNil(t, div)
		assert.Equal(t, divisionID, div.ID)
		assert.Equal(t, "HQ", div.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing division", func(t *testing.T) {
		repo, mock, mockDB := newMockDivisionRepository(t)
		defer mockDB.Close()

		divisionID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "divisions" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(divisionID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		div, err := repo.FindByID(context.Background(), divisionID)

		assert.Error(t, err)
		assert.Nil(t, div)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDivisionRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the row", func(t *testing.T) {
		repo, mock, mockDB := newMockDivisionRepository(t)
		defer mockDB.Close()

		divisionID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "divisions" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(divisionID, 1).
			WillReturnRows(divisionRows(divisionID, "HQ"))

		div, err := repo.FindByIDForUpdate(context.Background(), divisionID)

		assert.NoError(t, err)
		assert.NotNil(t, div)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDivisionRepository_Save(t *testing.T) {
	t.Run("updates with version guard", func(t *testing.T) {
		repo, mock, mockDB := newMockDivisionRepository(t)
		defer mockDB.Close()

		div, err := hierarchy.NewDivision("HQ", "Headquarters", "", false)
		require.NoError(t, err)
		div.Rename("Headquarters Renamed", "")

		mock.ExpectExec(`UPDATE "divisions" SET .* WHERE id = \$\d+ AND version < \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), div)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports concurrency conflict when no rows match", func(t *testing.T) {
		repo, mock, mockDB := newMockDivisionRepository(t)
		defer mockDB.Close()

		div, err := hierarchy.NewDivision("HQ", "Headquarters", "", false)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "divisions" SET .* WHERE id = \$\d+ AND version < \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(context.Background(), div)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDivisionRepository_MaxSiblingSortOrder(t *testing.T) {
	t.Run("queries root siblings with null parent", func(t *testing.T) {
		repo, mock, mockDB := newMockDivisionRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(MAX\(sort_order\), 0\) FROM "divisions" WHERE parent_id IS NULL`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(30))

		max, err := repo.MaxSiblingSortOrder(context.Background(), nil)

		assert.NoError(t, err)
		assert.Equal(t, 30, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("queries siblings under a parent", func(t *testing.T) {
		repo, mock, mockDB := newMockDivisionRepository(t)
		defer mockDB.Close()

		parentID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(MAX\(sort_order\), 0\) FROM "divisions" WHERE parent_id = \$1`).
			WithArgs(parentID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		max, err := repo.MaxSiblingSortOrder(context.Background(), &parentID)

		assert.NoError(t, err)
		assert.Equal(t, 0, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDivisionRepository_CountActiveChildren(t *testing.T) {
	t.Run("counts only active children", func(t *testing.T) {
		repo, mock, mockDB := newMockDivisionRepository(t)
		defer mockDB.Close()

		parentID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "divisions" WHERE parent_id = \$1 AND status = \$2`).
			WithArgs(parentID, "active").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := repo.CountActiveChildren(context.Background(), parentID)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
