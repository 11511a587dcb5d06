package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTTLStore(t *testing.T, opts ...Option) (*TTLStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewTTLStore(DefaultTTL, opts...), clock
}

func TestTTLStorePutAndGet(t *testing.T) {
	store, _ := newTestTTLStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "data/a.json", "contents"))

	val, err := store.Get(ctx, "data/a.json")
	require.NoError(t, err)
	assert.Equal(t, "contents", val)
}

func TestTTLStoreGetMissing(t *testing.T) {
	store, _ := newTestTTLStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTTLStoreEmptyValueIsAHit(t *testing.T) {
	store, _ := newTestTTLStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "empty", ""))

	val, err := store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestTTLStoreExpiresStrictlyAfterTTL(t *testing.T) {
	store, clock := newTestTTLStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "k", "v"))

	clock.Advance(DefaultTTL)
	val, err := store.Get(ctx, "k")
	require.NoError(t, err, "entry must survive exactly TTL")
	assert.Equal(t, "v", val)

	clock.Advance(time.Nanosecond)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len(), "expired entry should be removed on access")
}

func TestTTLStorePutResetsExpiry(t *testing.T) {
	store, clock := newTestTTLStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "k", "v1"))

	clock.Advance(DefaultTTL - time.Second)
	require.NoError(t, store.Put(ctx, "k", "v2"))

	clock.Advance(DefaultTTL - time.Second)
	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestTTLStoreBoundedEvictsExpiredFirst(t *testing.T) {
	store, clock := newTestTTLStore(t, WithMaxEntries(2))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "old", "1"))
	clock.Advance(DefaultTTL + time.Second)
	require.NoError(t, store.Put(ctx, "fresh", "2"))
	require.NoError(t, store.Put(ctx, "new", "3"))

	assert.Equal(t, 2, store.Len())
	_, err := store.Get(ctx, "fresh")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestTTLStoreBoundedEvictsClosestToExpiry(t *testing.T) {
	store, clock := newTestTTLStore(t, WithMaxEntries(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Put(ctx, fmt.Sprintf("k%d", i), "v"))
		clock.Advance(time.Second)
	}
	require.NoError(t, store.Put(ctx, "k3", "v"))

	assert.Equal(t, 3, store.Len())
	_, err := store.Get(ctx, "k0")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "k3")
	assert.NoError(t, err)
}

func TestTTLStoreOverwriteDoesNotEvict(t *testing.T) {
	store, _ := newTestTTLStore(t, WithMaxEntries(1))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", "v1"))
	require.NoError(t, store.Put(ctx, "k", "v2"))

	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestNewTTLStoreDefaultsTTL(t *testing.T) {
	store := NewTTLStore(0)
	assert.Equal(t, DefaultTTL, store.ttl)
	assert.Equal(t, DefaultMaxEntries, store.maxEntries)
}
