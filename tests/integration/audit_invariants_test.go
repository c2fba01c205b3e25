package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaudit "github.com/milorg/backend/internal/application/audit"
	apptransfer "github.com/milorg/backend/internal/application/transfer"
	"github.com/milorg/backend/internal/domain/audit"
	"github.com/milorg/backend/internal/domain/hierarchy"
	"github.com/milorg/backend/internal/domain/transfer"
	"github.com/milorg/backend/internal/infrastructure/persistence"
)

// An audit record appended inside a unit of work that later fails must
// roll back with it: a failed mutation leaves no trace in the trail.
func TestAuditRollsBackWithFailedUnitOfWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	entityID := uuid.New()
	scope := persistence.NewGormTransferTransactionScope(env.db.DB)

	sentinel := errors.New("mutation failed after the audit write")
	err := scope.Execute(ctx, func(repos apptransfer.TransactionalRepositories) error {
		entry, err := audit.NewEntry(env.actorID, transfer.EntityType, entityID, audit.OperationCreate, nil, audit.Snapshot{"status": "DRAFT"})
		require.NoError(t, err)

		record, err := repos.AuditRecords().Append(ctx, entry)
		require.NoError(t, err)
		require.Positive(t, record.Seq)

		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, env.db.DB.Raw(
		"SELECT count(*) FROM audit_records WHERE entity_id = ?", entityID).Scan(&count).Error)
	assert.Zero(t, count, "rolled-back unit of work must leave no audit rows")
}

// The trail is append-only at the database level: neither UPDATE nor
// DELETE may touch a committed record, whatever code path attempts it.
func TestAuditRecordsAreImmutable(t *testing.T) {
	env := newTestEnv(t)

	divisionID := env.createDivision(t, "AUD-1", "Audited division", nil)

	err := env.db.DB.Exec(
		"UPDATE audit_records SET operation = 'DELETE' WHERE entity_id = ?", divisionID).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")

	err = env.db.DB.Exec(
		"DELETE FROM audit_records WHERE entity_id = ?", divisionID).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")
}

// Replaying an entity's history in sequence order reconstructs each state
// transition exactly once: create, move, deactivate, each with the prior
// state as its before-snapshot.
func TestAuditHistoryReconstructsTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root := env.createDivision(t, "AUD-2", "History root", nil)
	other := env.createDivision(t, "AUD-3", "Other parent", nil)
	leaf := env.createDivision(t, "AUD-4", "History leaf", &root)

	require.NoError(t, env.hierarchy.MoveDivision(ctx, env.actorID, leaf, other))
	require.NoError(t, env.hierarchy.DeactivateDivision(ctx, env.actorID, leaf))

	records, total, err := env.history.GetHistory(ctx, hierarchy.EntityType, leaf, appaudit.HistoryFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, records, 3)

	assert.Equal(t, "CREATE", records[0].Operation)
	assert.Equal(t, "UPDATE", records[1].Operation)
	assert.Equal(t, "DELETE", records[2].Operation)

	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i].Seq, records[i-1].Seq, "sequence numbers must be strictly increasing")
	}
	for _, record := range records {
		assert.Equal(t, env.actorID, record.ActorID)
		assert.Equal(t, leaf, record.EntityID)
	}
}

// History for an entity nobody has touched is a NOT_FOUND, not an empty
// page.
func TestAuditHistoryUnknownEntity(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.history.GetHistory(context.Background(), hierarchy.EntityType, uuid.New(), appaudit.HistoryFilter{})
	require.Error(t, err)
}
