package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/vialsort/pkg/adapters/memory"
	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/aretw0/vialsort/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunGameStoreContract(t, store)
}

func TestMemoryStore_IsolatesCallerSlice(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	p, err := domain.NewPuzzle(1, [][]domain.Color{{0}})
	require.NoError(t, err)
	other, _ := p.AddEmptyVial()

	snapshots := []*domain.Puzzle{p}
	require.NoError(t, store.Save(ctx, "g", snapshots))
	snapshots[0] = other

	loaded, err := store.Load(ctx, "g")
	require.NoError(t, err)
	assert.Same(t, p, loaded[0])
}
