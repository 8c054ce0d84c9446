package state

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetPreference(ctx, "default_region")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetPreference(ctx, "default_region", "us-central-dfw-1"))
	v, ok, err := s.GetPreference(ctx, "default_region")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "us-central-dfw-1", v)

	// Upsert replaces the value.
	require.NoError(t, s.SetPreference(ctx, "default_region", "uk-lon-1"))
	v, _, err = s.GetPreference(ctx, "default_region")
	require.NoError(t, err)
	assert.Equal(t, "uk-lon-1", v)
}

func TestCacheRoundTripAndExpiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key := "GET:/apis/ngpc.rxt.io/v1/serverclasses:{}"
	require.NoError(t, s.CacheSet(ctx, key, `{"items":[]}`, time.Minute))

	payload, ok, err := s.CacheGet(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"items":[]}`, payload)

	// An already-expired entry is evicted on read.
	require.NoError(t, s.CacheSet(ctx, "stale", "x", -time.Second))
	_, ok, err = s.CacheGet(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheInvalidatePrefixes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CacheSet(ctx, "GET:/apis/ngpc.rxt.io/v1/serverclasses:a", "1", time.Minute))
	require.NoError(t, s.CacheSet(ctx, "GET:/apis/ngpc.rxt.io/v1/serverclasses:b", "2", time.Minute))
	require.NoError(t, s.CacheSet(ctx, "GET:/apis/ngpc.rxt.io/v1/regions:", "3", time.Minute))

	require.NoError(t, s.CacheInvalidatePrefixes(ctx, "GET:/apis/ngpc.rxt.io/v1/serverclasses"))

	_, ok, err := s.CacheGet(ctx, "GET:/apis/ngpc.rxt.io/v1/serverclasses:a")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.CacheGet(ctx, "GET:/apis/ngpc.rxt.io/v1/regions:")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheGC(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CacheSet(ctx, "live", "1", time.Minute))
	require.NoError(t, s.CacheSet(ctx, "dead1", "2", -time.Second))
	require.NoError(t, s.CacheSet(ctx, "dead2", "3", -time.Second))

	removed, err := s.CacheGC(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)
}

func TestHistoryAddListAndPrune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		entry := HistoryEntry{
			Command: "pricing build",
			Args:    []string{"--nodes", fmt.Sprint(i)},
			Profile: "prod",
			Org:     "acme",
			Region:  "us-central-dfw-1",
		}
		require.NoError(t, s.HistoryAdd(ctx, entry, 3))
	}

	n, err := s.HistoryCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := s.HistoryList(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first, oldest rows pruned.
	assert.Equal(t, []string{"--nodes", "4"}, entries[0].Args)
	assert.Equal(t, []string{"--nodes", "2"}, entries[2].Args)
	assert.Equal(t, "prod", entries[0].Profile)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestHistoryClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HistoryAdd(ctx, HistoryEntry{Command: "regions list"}, 100))
	require.NoError(t, s.HistoryClear(ctx))

	n, err := s.HistoryCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileBackedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	s, err := New(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SetPreference(ctx, "k", "v"))
	require.NoError(t, s.Close())

	// Reopen and confirm persistence.
	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.GetPreference(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, path, s.Path())
}
