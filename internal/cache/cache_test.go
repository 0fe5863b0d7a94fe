package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice-service/internal/persistence"
	"github.com/spec-kit/backoffice-service/internal/reporting"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *persistence.Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, persistence.NewRedisWithClient(client, "test")
}

func selectionStores(t *testing.T) map[string]SelectionStore {
	_, r := newTestRedis(t)
	return map[string]SelectionStore{
		"redis":  NewRedisSelectionStore(r),
		"memory": NewMemorySelectionStore(),
	}
}

func TestSelectionToggleSequence(t *testing.T) {
	for name, store := range selectionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			added, err := store.Toggle(ctx, "admin-1", "1")
			require.NoError(t, err)
			assert.True(t, added)

			added, err = store.Toggle(ctx, "admin-1", "2")
			require.NoError(t, err)
			assert.True(t, added)

			added, err = store.Toggle(ctx, "admin-1", "1")
			require.NoError(t, err)
			assert.False(t, added)

			members, err := store.Members(ctx, "admin-1")
			require.NoError(t, err)
			assert.Equal(t, []string{"2"}, members)
		})
	}
}

func TestSelectionPreservesOrderAndIsolatesOwners(t *testing.T) {
	for name, store := range selectionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, id := range []string{"3", "1", "4"} {
				_, err := store.Toggle(ctx, "admin-1", id)
				require.NoError(t, err)
			}
			_, err := store.Toggle(ctx, "admin-2", "2")
			require.NoError(t, err)

			members, err := store.Members(ctx, "admin-1")
			require.NoError(t, err)
			assert.Equal(t, []string{"3", "1", "4"}, members)

			require.NoError(t, store.Clear(ctx, "admin-1"))
			members, err = store.Members(ctx, "admin-1")
			require.NoError(t, err)
			assert.Empty(t, members)

			other, err := store.Members(ctx, "admin-2")
			require.NoError(t, err)
			assert.Equal(t, []string{"2"}, other)
		})
	}
}

func TestRedisSelectionOrderIsSharedAcrossInstances(t *testing.T) {
	mr, r := newTestRedis(t)
	first := NewRedisSelectionStore(r)
	second := NewRedisSelectionStore(r)
	ctx := context.Background()

	// Lexical order of these ids differs from the order they are selected in.
	for i, id := range []string{"9", "10", "2", "1"} {
		store := first
		if i%2 == 1 {
			store = second
		}
		added, err := store.Toggle(ctx, "admin-1", id)
		require.NoError(t, err)
		require.True(t, added)
	}

	members, err := second.Members(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10", "2", "1"}, members)

	added, err := first.Toggle(ctx, "admin-1", "10")
	require.NoError(t, err)
	assert.False(t, added)
	added, err = second.Toggle(ctx, "admin-1", "10")
	require.NoError(t, err)
	assert.True(t, added)

	members, err = first.Members(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "2", "1", "10"}, members)

	require.NoError(t, first.Clear(ctx, "admin-1"))
	assert.False(t, mr.Exists("test:selection:licenses:admin-1"))
	assert.False(t, mr.Exists("test:selection:seq:admin-1"))
}

func TestRedisSelectionExpires(t *testing.T) {
	mr, r := newTestRedis(t)
	store := NewRedisSelectionStore(r)
	ctx := context.Background()

	_, err := store.Toggle(ctx, "admin-1", "1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:selection:licenses:admin-1"))

	assert.True(t, mr.Exists("test:selection:seq:admin-1"))

	mr.FastForward(SelectionTTL + time.Second)
	members, err := store.Members(ctx, "admin-1")
	require.NoError(t, err)
	assert.Empty(t, members)
	assert.False(t, mr.Exists("test:selection:seq:admin-1"))
}

func TestRedisSummaryCacheRoundTrip(t *testing.T) {
	mr, r := newTestRedis(t)
	c := NewRedisSummaryCache(r, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	want := reporting.LicenseSummary{Total: 4, Active: 2, TotalSeats: 1625, UsedSeats: 498, UtilizationPct: 30.6}
	require.NoError(t, c.Set(ctx, want))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, *got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSummaryCacheInvalidate(t *testing.T) {
	_, r := newTestRedis(t)
	c := NewRedisSummaryCache(r, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, reporting.LicenseSummary{Total: 1}))
	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSummaryCacheDisabled(t *testing.T) {
	_, r := newTestRedis(t)
	c := NewRedisSummaryCache(r, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, reporting.LicenseSummary{Total: 1}))
	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
