package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTripAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "modules:custom:b", []byte("b"), 0))
	require.NoError(t, store.Put(ctx, "modules:custom:a", []byte("a"), 0))
	require.NoError(t, store.Put(ctx, "modules:override:vision", []byte("o"), 0))

	got, err := store.Get(ctx, "modules:custom:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	keys, err := store.List(ctx, "modules:custom:")
	require.NoError(t, err)
	assert.Equal(t, []string{"modules:custom:a", "modules:custom:b"}, keys)

	require.NoError(t, store.Delete(ctx, "modules:custom:a"))
	require.NoError(t, store.Delete(ctx, "modules:custom:a"))
	_, err = store.Get(ctx, "modules:custom:a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithClock(func() time.Time { return now })

	require.NoError(t, store.Put(ctx, "sessions:t1", []byte("s"), time.Hour))

	_, err := store.Get(ctx, "sessions:t1")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = store.Get(ctx, "sessions:t1")
	assert.ErrorIs(t, err, ErrNotFound)

	keys, err := store.List(ctx, "sessions:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryStoreIsolatesCallerBuffers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, store.Put(ctx, "k", buf, 0))
	buf[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryStoreEvictsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithClock(func() time.Time { return now })

	require.NoError(t, store.Put(ctx, "sessions:t1", []byte("s"), time.Hour))
	require.NoError(t, store.Put(ctx, "attempts:u1:vision", []byte("a"), time.Hour))
	require.NoError(t, store.Put(ctx, "users:u1", []byte("u"), 0))
	assert.Equal(t, 3, store.Len())

	now = now.Add(time.Hour)

	_, err := store.Get(ctx, "sessions:t1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, store.Len())

	keys, err := store.List(ctx, "attempts:")
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreSweepsOnWrite(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithClock(func() time.Time { return now })

	require.NoError(t, store.Put(ctx, "sessions:stale", []byte("s"), time.Minute))
	now = now.Add(time.Minute)

	for i := 1; i < sweepEvery; i++ {
		require.NoError(t, store.Put(ctx, "users:u1", []byte("u"), 0))
	}
	assert.Equal(t, 1, store.Len())
}
