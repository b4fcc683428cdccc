package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/vialsort/pkg/adapters/redis"
	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/aretw0/vialsort/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunGameStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	p, err := domain.NewPuzzle(2, [][]domain.Color{{0, 0}, {}})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "g-ttl", []*domain.Puzzle{p}))

	assert.True(t, mr.Exists("vialsort:game:g-ttl"))
	assert.Equal(t, time.Second, mr.TTL("vialsort:game:g-ttl"))

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "g-ttl")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))

	p, err := domain.NewPuzzle(1, [][]domain.Color{{3}})
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "abc", []*domain.Puzzle{p}))

	assert.True(t, mr.Exists("custom:abc"))
	assert.False(t, mr.Exists("vialsort:game:abc"))
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set("vialsort:game:bad", `{"history":[{"vial_size":0,"vials":[]}]}`))

	_, err := store.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrMalformedPuzzle)
}
