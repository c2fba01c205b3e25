package hierarchy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDivision(t *testing.T) {
	t.Run("creates division with valid inputs", func(t *testing.T) {
		div, err := NewDivision("NORTH-HQ", "Northern Headquarters", "North HQ", false)
		require.NoError(t, err)

		assert.Equal(t, "NORTH-HQ", div.Code)
		assert.Equal(t, "Northern Headquarters", div.Name)
		assert.Equal(t, "North HQ", div.ShortName)
		assert.Equal(t, DivisionStatusActive, div.Status)
		assert.Nil(t, div.ParentID)
		assert.True(t, div.IsRoot())
		assert.Equal(t, 1, div.Version)
	})

	t.Run("carries the internal flag", func(t *testing.T) {
		div, err := NewDivision("STAFF-SEC", "Staff Section", "", true)
		require.NoError(t, err)
		assert.True(t, div.IsInternal)

		div, err = NewDivision("FIELD-SEC", "Field Section", "", false)
		require.NoError(t, err)
		assert.False(t, div.IsInternal)
	})

	t.Run("normalizes code to uppercase", func(t *testing.T) {
		div, err := NewDivision("north-hq", "Northern Headquarters", "", false)
		require.NoError(t, err)
		assert.Equal(t, "NORTH-HQ", div.Code)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewDivision("", "Name", "", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with code not starting with a letter", func(t *testing.T) {
		_, err := NewDivision("3RD-BTN", "Third Battalion", "", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must start with a letter")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewDivision("CODE", "", "", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("emits created event", func(t *testing.T) {
		div, err := NewDivision("WEST-HQ", "Western Headquarters", "", false)
		require.NoError(t, err)

		events := div.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeDivisionCreated, events[0].EventType())
	})
}

func TestDivision_SetParent(t *testing.T) {
	t.Run("sets parent", func(t *testing.T) {
		div, _ := NewDivision("CHILD", "Child Division", "", false)
		parentID := uuid.New()

		err := div.SetParent(&parentID)
		require.NoError(t, err)
		assert.Equal(t, parentID, *div.ParentID)
		assert.Equal(t, 2, div.Version)
	})

	t.Run("rejects self as parent", func(t *testing.T) {
		div, _ := NewDivision("CHILD", "Child Division", "", false)

		err := div.SetParent(&div.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be its own parent")
	})

	t.Run("clears parent for nil", func(t *testing.T) {
		div, _ := NewDivision("CHILD", "Child Division", "", false)
		parentID := uuid.New()
		require.NoError(t, div.SetParent(&parentID))

		err := div.SetParent(nil)
		require.NoError(t, err)
		assert.True(t, div.IsRoot())
	})
}

func TestDivision_Deactivate(t *testing.T) {
	t.Run("deactivates an active division", func(t *testing.T) {
		div, _ := NewDivision("EAST-HQ", "Eastern Headquarters", "", false)

		err := div.Deactivate()
		require.NoError(t, err)
		assert.Equal(t, DivisionStatusDeactivated, div.Status)
		assert.False(t, div.IsActive())
	})

	t.Run("fails when already deactivated", func(t *testing.T) {
		div, _ := NewDivision("EAST-HQ", "Eastern Headquarters", "", false)
		require.NoError(t, div.Deactivate())

		err := div.Deactivate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already deactivated")
	})
}

func TestDivision_Restore(t *testing.T) {
	t.Run("restores a deactivated division", func(t *testing.T) {
		div, _ := NewDivision("EAST-HQ", "Eastern Headquarters", "", false)
		require.NoError(t, div.Deactivate())

		err := div.Restore()
		require.NoError(t, err)
		assert.True(t, div.IsActive())
	})

	t.Run("fails when already active", func(t *testing.T) {
		div, _ := NewDivision("EAST-HQ", "Eastern Headquarters", "", false)

		err := div.Restore()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already active")
	})
}

func TestDivision_Snapshot(t *testing.T) {
	div, _ := NewDivision("SOUTH-HQ", "Southern Headquarters", "South", true)
	parentID := uuid.New()
	require.NoError(t, div.SetParent(&parentID))

	snap := div.Snapshot()
	assert.Equal(t, "SOUTH-HQ", snap["code"])
	assert.Equal(t, "active", snap["status"])
	assert.Equal(t, true, snap["is_internal"])
	assert.Equal(t, parentID.String(), snap["parent_id"])
}
