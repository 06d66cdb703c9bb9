package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kasir-api/internal/application/dto"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func TestRedisCache_SetYGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := dto.DashboardDTO{
		From:             "2026-01-01",
		To:               "2026-01-31",
		Revenue:          decimal.RequireFromString("1500.50"),
		TransactionCount: 3,
	}
	require.NoError(t, c.Set(ctx, "dashboard:s1", in, time.Minute))

	var out dto.DashboardDTO
	hit, err := c.Get(ctx, "dashboard:s1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, out.TransactionCount)
	assert.True(t, out.Revenue.Equal(in.Revenue))
}

func TestRedisCache_ClaveInexistente(t *testing.T) {
	c, _ := newTestCache(t)

	var out dto.DashboardDTO
	hit, err := c.Get(context.Background(), "nada", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_Expira(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Second))
	mr.FastForward(2 * time.Second)

	var out map[string]int
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_ServidorCaido(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var out map[string]int
	hit, err := c.Get(context.Background(), "k", &out)
	assert.Error(t, err)
	assert.False(t, hit)
}
