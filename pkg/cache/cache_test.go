package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client), mr
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, PrefixPolicy+"photo", true, TTLPolicy))

	var active bool
	require.NoError(t, svc.Get(ctx, PrefixPolicy+"photo", &active))
	assert.True(t, active)

	ok, err := svc.Exists(ctx, PrefixPolicy+"photo")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(TTLPolicy + time.Second)
	assert.ErrorIs(t, svc.Get(ctx, PrefixPolicy+"photo", &active), ErrMiss)

	require.NoError(t, svc.Set(ctx, PrefixPolicy+"message", false, TTLPolicy))
	require.NoError(t, svc.Delete(ctx, PrefixPolicy+"message"))
	assert.ErrorIs(t, svc.Get(ctx, PrefixPolicy+"message", &active), ErrMiss)
}

func TestRedisCache_NilClient(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	assert.False(t, svc.IsAvailable())
	assert.NoError(t, svc.Set(ctx, "k", 1, time.Minute))
	var v int
	assert.ErrorIs(t, svc.Get(ctx, "k", &v), ErrMiss)
	assert.NoError(t, svc.Delete(ctx, "k"))
	assert.Error(t, svc.Ping(ctx))
}
