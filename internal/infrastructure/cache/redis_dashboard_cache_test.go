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

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

func newTestCache(t *testing.T) (*RedisDashboardCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDashboardCache(client, time.Minute), mr
}

func sampleStats() *dto.DashboardStatsDTO {
	return &dto.DashboardStatsDTO{
		Today:     dto.DashboardWindowDTO{Sales: decimal.RequireFromString("12.5"), SalesCount: 1},
		ThisMonth: dto.DashboardWindowDTO{Sales: decimal.RequireFromString("40"), SalesCount: 3},
		DateLabel: "Junio 2024",
	}
}

func resolve(t *testing.T, c *RedisDashboardCache, day string) string {
	t.Helper()
	k, err := c.Key(context.Background(), day)
	require.NoError(t, err)
	return k
}

func TestRedisDashboardCache_GetSet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	k := resolve(t, c, "dashboard:2024-06-15")
	assert.Equal(t, "ledger:dashboard:v0:dashboard:2024-06-15", k)

	_, ok, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, k, sampleStats()))
	got, ok, err := c.Get(ctx, resolve(t, c, "dashboard:2024-06-15"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Today.Sales.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, 3, got.ThisMonth.SalesCount)
	assert.Equal(t, "Junio 2024", got.DateLabel)
}

func TestRedisDashboardCache_InvalidateDescartaTodo(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, resolve(t, c, "dashboard:2024-06-15"), sampleStats()))
	require.NoError(t, c.Invalidate(ctx))

	k := resolve(t, c, "dashboard:2024-06-15")
	assert.Equal(t, "ledger:dashboard:v1:dashboard:2024-06-15", k)
	_, ok, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDashboardCache_CommitEntreLecturaYEscrituraNoSeSirve(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	// Se resuelve la clave, se calcula y entretanto otro proceso confirma un movimiento.
	k := resolve(t, c, "dashboard:2024-06-15")
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, k, sampleStats()))

	_, ok, err := c.Get(ctx, resolve(t, c, "dashboard:2024-06-15"))
	require.NoError(t, err)
	assert.False(t, ok, "el resumen calculado antes del commit queda bajo la versión vieja")
}

func TestRedisDashboardCache_Expira(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	k := resolve(t, c, "dashboard:2024-06-15")

	require.NoError(t, c.Set(ctx, k, sampleStats()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDashboardCache_NilEsNoop(t *testing.T) {
	var c *RedisDashboardCache
	ctx := context.Background()
	k, err := c.Key(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, k, sampleStats()))
	require.NoError(t, c.Invalidate(ctx))
	_, ok, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok)
}
