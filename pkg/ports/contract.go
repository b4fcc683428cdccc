package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunGameStoreContract runs a suite of tests to verify that a GameStore implementation
// adheres to the defined interface contract.
func RunGameStoreContract(t *testing.T, store GameStore) {
	ctx := context.Background()
	gameID := "contract-test-game-" + time.Now().Format("20060102150405")

	initial, err := domain.NewPuzzle(2, [][]domain.Color{{0, 1}, {1}, {0}})
	require.NoError(t, err)
	poured, _, err := initial.Pour(0, 1)
	require.NoError(t, err)
	grown, _ := poured.AddEmptyVial()
	snapshots := []*domain.Puzzle{initial, poured, grown}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, gameID, snapshots)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, gameID)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded, len(snapshots))
		for i := range snapshots {
			assert.True(t, snapshots[i].Equal(loaded[i]), "snapshot %d differs", i)
		}
	})

	t.Run("Save Replaces", func(t *testing.T) {
		err := store.Save(ctx, gameID, snapshots[:1])
		require.NoError(t, err)

		loaded, err := store.Load(ctx, gameID)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.True(t, initial.Equal(loaded[0]))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+gameID)
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, gameID, snapshots)
		require.NoError(t, err)

		err = store.Delete(ctx, gameID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, gameID)
		assert.ErrorIs(t, err, domain.ErrGameNotFound, "Load after Delete should return ErrGameNotFound")

		assert.NoError(t, store.Delete(ctx, gameID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := gameID + "-1"
		id2 := gameID + "-2"
		require.NoError(t, store.Save(ctx, id1, snapshots))
		require.NoError(t, store.Save(ctx, id2, snapshots))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		games, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, games, id1)
		assert.Contains(t, games, id2)
	})
}
