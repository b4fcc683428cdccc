package vialsort_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/vialsort"
	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, opts ...vialsort.Option) *vialsort.Game {
	t.Helper()
	p, err := domain.NewPuzzle(4, [][]domain.Color{{0, 0, 1, 1}, {1, 0, 1, 0}, {}, {}})
	require.NoError(t, err)
	g, err := vialsort.New(p, opts...)
	require.NoError(t, err)
	return g
}

func TestNew_RequiresPuzzle(t *testing.T) {
	_, err := vialsort.New(nil)
	assert.ErrorIs(t, err, domain.ErrMalformedPuzzle)
}

func TestGame_PourAndReject(t *testing.T) {
	ctx := context.Background()
	g := newGame(t)
	initial := g.Current()

	p, err := g.Pour(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]domain.Color{{0, 0, 1, 1}, {1, 0, 1}, {0}, {}}, p.Vials())
	assert.Same(t, p, g.Current())
	assert.Equal(t, 1, g.Depth())

	rejected, err := g.Pour(ctx, 0, 2)
	assert.ErrorIs(t, err, domain.ErrColorMismatch)
	assert.True(t, vialsort.IsRejection(err))
	assert.Same(t, p, rejected)
	assert.Equal(t, 1, g.Depth(), "rejections are not recorded")

	undone, ok := g.Undo(ctx)
	assert.True(t, ok)
	assert.True(t, initial.Equal(undone))
}

func TestGame_SharedUndoHistory(t *testing.T) {
	ctx := context.Background()
	g := newGame(t)

	_, err := g.Pour(ctx, 1, 2)
	require.NoError(t, err)
	g.AddEmptyVial(ctx)
	_, err = g.Pour(ctx, 0, 4)
	require.NoError(t, err)
	require.Equal(t, 5, g.Current().VialCount())

	snapshots := g.Snapshots()
	require.Len(t, snapshots, 4)

	for i := len(snapshots) - 2; i >= 0; i-- {
		p, ok := g.Undo(ctx)
		require.True(t, ok)
		assert.True(t, snapshots[i].Equal(p), "undo step %d", i)
	}

	p, ok := g.Undo(ctx)
	assert.False(t, ok)
	assert.True(t, snapshots[0].Equal(p))
	assert.Equal(t, 4, g.Current().VialCount())
}

func TestGame_Hooks(t *testing.T) {
	ctx := context.Background()
	var moves, rejects, undos, solved int
	var lastReason string

	hooks := domain.LifecycleHooks{
		OnMove:   func(ctx context.Context, e *domain.MoveEvent) { moves++ },
		OnReject: func(ctx context.Context, e *domain.RejectEvent) { rejects++; lastReason = e.Reason },
		OnUndo:   func(ctx context.Context, e *domain.UndoEvent) { undos++ },
		OnSolved: func(ctx context.Context, e *domain.EventBase) {
			solved++
			assert.Equal(t, "g-1", e.GameID)
		},
	}

	p, err := domain.NewPuzzle(2, [][]domain.Color{{0, 1}, {1}, {}})
	require.NoError(t, err)
	g, err := vialsort.New(p, vialsort.WithLifecycleHooks(hooks), vialsort.WithID("g-1"))
	require.NoError(t, err)

	_, err = g.Pour(ctx, 2, 0)
	require.Error(t, err)
	assert.Equal(t, "empty_source", lastReason)

	_, err = g.Pour(ctx, 0, 1)
	require.NoError(t, err)
	assert.True(t, g.IsSolved())

	g.AddEmptyVial(ctx)
	g.Undo(ctx)
	g.Undo(ctx)
	g.Undo(ctx)

	assert.Equal(t, 2, moves)
	assert.Equal(t, 1, rejects)
	assert.Equal(t, 3, undos)
	assert.Equal(t, 1, solved, "solved fires only on the transition")
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	g := newGame(t)
	_, err := g.Pour(ctx, 1, 2)
	require.NoError(t, err)

	restored, err := vialsort.Restore(g.Snapshots())
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Depth())

	_, err = vialsort.Restore(nil)
	assert.Error(t, err)
}

func TestIsRejection(t *testing.T) {
	assert.False(t, vialsort.IsRejection(errors.New("boom")))
	assert.False(t, vialsort.IsRejection(domain.ErrMalformedPuzzle))
	assert.True(t, vialsort.IsRejection(&domain.PourError{Reason: domain.ErrSameVial}))
}
