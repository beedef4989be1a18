package local_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordbookapp/wordbook/pkg/models"
	"github.com/wordbookapp/wordbook/pkg/store/local"
	"github.com/wordbookapp/wordbook/pkg/textcache"
)

func openStore(t *testing.T) *local.Store {
	t.Helper()
	s, err := local.Open(filepath.Join(t.TempDir(), "wordbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBookmarkRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	t.Run("MissingIsNilNil", func(t *testing.T) {
		b, err := s.Load(ctx, "users/u/lists/none")
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("NoShuffleSurvives", func(t *testing.T) {
		saved := &models.Bookmark{
			ResourcePath: "users/u/lists/a",
			WordIndex:    7,
			UpdatedAt:    time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
			SearchQuery:  "cat",
		}
		require.NoError(t, s.Save(ctx, saved))

		got, err := s.Load(ctx, "users/u/lists/a")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 7, got.WordIndex)
		assert.Equal(t, "cat", got.SearchQuery)
		assert.False(t, got.Shuffled())
		assert.Equal(t, saved.UpdatedAt, got.UpdatedAt)
	})

	t.Run("ShuffleSurvives", func(t *testing.T) {
		saved := &models.Bookmark{
			ResourcePath:   "users/u/lists/b",
			WordIndex:      2,
			UpdatedAt:      time.Now().UTC().Truncate(time.Millisecond),
			ShuffleIndices: []int{2, 0, 3, 1},
		}
		require.NoError(t, s.Save(ctx, saved))

		got, err := s.Load(ctx, "users/u/lists/b")
		require.NoError(t, err)
		assert.Equal(t, []int{2, 0, 3, 1}, got.ShuffleIndices)
	})

	t.Run("ClearedShuffleReadsBackAsNoShuffle", func(t *testing.T) {
		saved := &models.Bookmark{
			ResourcePath:   "users/u/lists/b",
			UpdatedAt:      time.Now().UTC(),
			ShuffleIndices: []int{},
		}
		require.NoError(t, s.Save(ctx, saved))

		got, err := s.Load(ctx, "users/u/lists/b")
		require.NoError(t, err)
		assert.False(t, got.Shuffled())
	})

	t.Run("SaveOverwritesWholeRecord", func(t *testing.T) {
		first := &models.Bookmark{
			ResourcePath:   "users/u/lists/c",
			WordIndex:      40,
			UpdatedAt:      time.Now().UTC(),
			SearchQuery:    "old",
			ShuffleIndices: []int{1, 0},
		}
		require.NoError(t, s.Save(ctx, first))

		second := &models.Bookmark{
			ResourcePath: "users/u/lists/c",
			WordIndex:    0,
			UpdatedAt:    time.Now().UTC(),
		}
		require.NoError(t, s.Save(ctx, second))

		got, err := s.Load(ctx, "users/u/lists/c")
		require.NoError(t, err)
		assert.Zero(t, got.WordIndex)
		assert.Empty(t, got.SearchQuery)
		assert.False(t, got.Shuffled())
	})
}

func TestCacheEntries(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	miss, err := s.GetCacheEntry(ctx, "users/u/lists/a")
	require.NoError(t, err)
	assert.Nil(t, miss)

	entry := textcache.Entry{
		ResourcePath: "users/u/lists/a",
		Token:        "1724580000000",
		Text:         "alpha\nbeta\n",
		SavedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, s.PutCacheEntry(ctx, entry))

	got, err := s.GetCacheEntry(ctx, "users/u/lists/a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry, *got)

	entry.Token = "1724580099999"
	entry.Text = "gamma\n"
	require.NoError(t, s.PutCacheEntry(ctx, entry))

	got, err = s.GetCacheEntry(ctx, "users/u/lists/a")
	require.NoError(t, err)
	assert.Equal(t, "gamma\n", got.Text)
}

func TestLastOpened(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	path, err := s.LastOpened(ctx)
	require.NoError(t, err)
	assert.Empty(t, path)

	require.NoError(t, s.SetLastOpened(ctx, "users/u/lists/food.txt"))
	path, err = s.LastOpened(ctx)
	require.NoError(t, err)
	assert.Equal(t, "users/u/lists/food.txt", path)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "wordbook.db")

	s, err := local.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, &models.Bookmark{
		ResourcePath: "users/u/lists/a",
		WordIndex:    5,
		UpdatedAt:    time.Now().UTC(),
	}))
	require.NoError(t, s.Close())

	// Same schema version: data survives reopen.
	s, err = local.Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "users/u/lists/a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.WordIndex)
}
