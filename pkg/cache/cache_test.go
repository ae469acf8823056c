package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb, "test"), mr
}

func TestRedisCache_RoundTripAndPrefix(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, AirportsKey(), []byte(`{"total":1}`), time.Hour))
	assert.True(t, mr.Exists("test:airports:all"))

	got, err := c.Get(ctx, AirportsKey())
	require.NoError(t, err)
	assert.Equal(t, `{"total":1}`, string(got))

	ok, err := c.Exists(ctx, AirportsKey())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, AirportsKey()))
	ok, err = c.Exists(ctx, AirportsKey())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_TTLExpires(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), RevalidateTTL))
	mr.FastForward(RevalidateTTL + time.Second)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_ClearOnlyTouchesPrefix(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, mr.Set("other:key", "x"))

	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists("test:a"))
	assert.False(t, mr.Exists("test:b"))
	assert.True(t, mr.Exists("other:key"))
}

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	ok, err := c.Exists(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Clear(ctx))
	ok, err = c.Exists(ctx, "forever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCache_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	ctx := context.Background()

	first := NewFileCache(path)
	require.NoError(t, first.Set(ctx, ClientStateKey(), []byte(`{"version":1}`), 0))

	second := NewFileCache(path)
	got, err := second.Get(ctx, ClientStateKey())
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	require.NoError(t, second.Delete(ctx, ClientStateKey()))
	_, err = first.Get(ctx, ClientStateKey())
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, first.Clear(ctx))
	require.NoError(t, first.Clear(ctx))
}

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()

	c, err := OpenLocal(filepath.Join(dir, "nested", "airports_cache.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileCache{}, c)

	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	c, err = OpenLocal(filepath.Join(blocker, "airports_cache.json"))
	assert.Error(t, err)
	require.IsType(t, &MemoryCache{}, c)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, ClientStateKey(), []byte(`{"version":1}`), 0))
	got, err := c.Get(ctx, ClientStateKey())
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	c, err = OpenLocal("")
	assert.Error(t, err)
	assert.IsType(t, &MemoryCache{}, c)
}

func TestCacheManager_JSON(t *testing.T) {
	cm := NewCacheManager(NewMemoryCache())
	ctx := context.Background()

	type payload struct {
		Total int `json:"total"`
	}
	require.NoError(t, cm.SetJSON(ctx, "p", payload{Total: 42}, 0))

	var got payload
	require.NoError(t, cm.GetJSON(ctx, "p", &got))
	assert.Equal(t, 42, got.Total)

	err := cm.GetJSON(ctx, "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
