package metrics_test

import (
	"context"
	"testing"

	"github.com/aretw0/vialsort"
	"github.com/aretw0/vialsort/internal/metrics"
	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	forwarded := 0
	hooks := c.Hooks(&domain.LifecycleHooks{
		OnMove: func(context.Context, *domain.MoveEvent) { forwarded++ },
	})

	p, err := domain.NewPuzzle(2, [][]domain.Color{{0, 1}, {1}, {}})
	require.NoError(t, err)
	g, err := vialsort.New(p, vialsort.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = g.Pour(ctx, 0, 0)
	require.Error(t, err)
	_, err = g.Pour(ctx, 0, 1)
	require.NoError(t, err)
	g.AddEmptyVial(ctx)
	g.Undo(ctx)
	g.Undo(ctx)
	g.Undo(ctx)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Moves.WithLabelValues("pour")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Moves.WithLabelValues("add_vial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Rejections.WithLabelValues("same_vial")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Undos.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Undos.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Solved))
	assert.Equal(t, 2, forwarded)
}
