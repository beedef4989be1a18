package textcache_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordbookapp/wordbook/pkg/blob"
	"github.com/wordbookapp/wordbook/pkg/textcache"
)

// memCache is an in-memory CacheStore with injectable failures.
type memCache struct {
	mu      sync.Mutex
	entries map[string]textcache.Entry
	getErr  error
	putErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]textcache.Entry)}
}

func (c *memCache) GetCacheEntry(_ context.Context, path string) (*textcache.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	e, ok := c.entries[path]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (c *memCache) PutCacheEntry(_ context.Context, entry textcache.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[entry.ResourcePath] = entry
	return nil
}

func TestLoaderCacheAside(t *testing.T) {
	ctx := context.Background()
	const path = "users/u1/lists/food.txt"

	blobs := blob.NewMemStore()
	require.NoError(t, blobs.Put(ctx, path, "apple\nbanana\n"))

	cache := newMemCache()
	loader := textcache.New(blobs, cache, zerolog.Nop())

	first, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, "apple\nbanana\n", first.Text)

	second, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.True(t, second.FromCache, "unchanged token must serve cache")
	assert.Equal(t, first.Text, second.Text)

	// A write bumps the token; the next load refetches and refreshes the
	// cache entry.
	require.NoError(t, blobs.Put(ctx, path, "apple\nbanana\ncherry\n"))
	third, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, "apple\nbanana\ncherry\n", third.Text)

	fourth, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.True(t, fourth.FromCache)
	assert.Equal(t, third.Text, fourth.Text)
}

func TestLoaderPropagatesNotFound(t *testing.T) {
	ctx := context.Background()
	loader := textcache.New(blob.NewMemStore(), newMemCache(), zerolog.Nop())

	_, err := loader.Load(ctx, "users/u1/lists/absent.txt")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestLoaderSurvivesCacheFailures(t *testing.T) {
	ctx := context.Background()
	const path = "users/u1/lists/a.txt"

	blobs := blob.NewMemStore()
	require.NoError(t, blobs.Put(ctx, path, "one\n"))

	cache := newMemCache()
	cache.getErr = errors.New("disk on fire")
	cache.putErr = errors.New("disk still on fire")
	loader := textcache.New(blobs, cache, zerolog.Nop())

	res, err := loader.Load(ctx, path)
	require.NoError(t, err, "cache failures must not fail the load")
	assert.Equal(t, "one\n", res.Text)
	assert.False(t, res.FromCache)
}

func TestLoaderWithoutCache(t *testing.T) {
	ctx := context.Background()
	const path = "p"

	blobs := blob.NewMemStore()
	require.NoError(t, blobs.Put(ctx, path, "text"))

	loader := textcache.New(blobs, nil, zerolog.Nop())
	res, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "text", res.Text)
	assert.False(t, res.FromCache)
}
