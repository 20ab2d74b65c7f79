package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "inventory:item:p1:b1", Key("p1", "b1"))
}

func TestNewSnapshotCache_TTLPorDefecto(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewSnapshotCache(nil, 0).ttl)
	assert.Equal(t, time.Minute, NewSnapshotCache(nil, time.Minute).ttl)
}

func TestInvalidate_SinClavesNoToca(t *testing.T) {
	// client nil: no debe usarse cuando no hay claves
	assert.NoError(t, NewSnapshotCache(nil, 0).Invalidate(context.Background()))
}

// Requiere Redis: TEST_REDIS_ADDR=localhost:6379
func TestSnapshotCache_IdaYVuelta(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	ctx := context.Background()
	client, err := NewClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()
	c := NewSnapshotCache(client, time.Minute)

	snap := dto.ItemSnapshot{
		ProductID: "p-cache", BranchID: "b-cache",
		OnHand: decimal.RequireFromString("10.5"), Reserved: decimal.NewFromInt(2),
		Available: decimal.RequireFromString("8.5"),
	}
	require.NoError(t, c.Set(ctx, snap))

	got, ok, err := c.Get(ctx, "p-cache", "b-cache")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Available.Equal(snap.Available))

	require.NoError(t, c.Invalidate(ctx, entity.ItemKey{ProductID: "p-cache", BranchID: "b-cache"}))
	_, ok, err = c.Get(ctx, "p-cache", "b-cache")
	require.NoError(t, err)
	assert.False(t, ok)
}

func newMiniCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSnapshotCache(client, time.Minute), mr
}

func snapshot(reserved string, version int64) dto.ItemSnapshot {
	onHand := decimal.NewFromInt(10)
	r := decimal.RequireFromString(reserved)
	return dto.ItemSnapshot{
		ProductID: "p1", BranchID: "b1",
		OnHand: onHand, Reserved: r, Available: onHand.Sub(r),
		Version: version,
	}
}

func TestSnapshotCache_SetIgnoraVersionVieja(t *testing.T) {
	c, _ := newMiniCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, snapshot("4", 2)))
	require.NoError(t, c.Set(ctx, snapshot("0", 1)))

	got, ok, err := c.Get(ctx, "p1", "b1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, got.Reserved.Equal(decimal.NewFromInt(4)))
}

func TestSnapshotCache_SetAceptaVersionIgualOMayor(t *testing.T) {
	c, _ := newMiniCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, snapshot("1", 3)))
	require.NoError(t, c.Set(ctx, snapshot("2", 3)))
	got, _, err := c.Get(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.True(t, got.Reserved.Equal(decimal.NewFromInt(2)))

	require.NoError(t, c.Set(ctx, snapshot("5", 4)))
	got, _, err = c.Get(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Version)
}

func TestSnapshotCache_TTLYValorIlegible(t *testing.T) {
	c, mr := newMiniCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, snapshot("0", 1)))
	assert.Equal(t, time.Minute, mr.TTL(Key("p1", "b1")))

	// Un valor que no es JSON se reemplaza.
	require.NoError(t, mr.Set(Key("p1", "b1"), "basura"))
	require.NoError(t, c.Set(ctx, snapshot("1", 1)))
	got, ok, err := c.Get(ctx, "p1", "b1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Reserved.Equal(decimal.NewFromInt(1)))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.False(t, ok)
}
