package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wordbookapp/wordbook/pkg/models"
	"github.com/wordbookapp/wordbook/pkg/store"
)

func TestLatest(t *testing.T) {
	at := func(sec int) time.Time {
		return time.Date(2026, 8, 25, 12, 0, sec, 0, time.UTC)
	}
	bm := func(sec, wordIndex int) *models.Bookmark {
		return &models.Bookmark{
			ResourcePath: "users/u/lists/a",
			WordIndex:    wordIndex,
			UpdatedAt:    at(sec),
		}
	}

	t.Run("Empty", func(t *testing.T) {
		assert.Nil(t, store.Latest(nil))
		assert.Nil(t, store.Latest(map[string]*models.Bookmark{}))
	})

	t.Run("GreatestTimestampWins", func(t *testing.T) {
		got := store.Latest(map[string]*models.Bookmark{
			"k1": bm(1, 10),
			"k2": bm(9, 20),
			"k3": bm(5, 30),
		})
		assert.Equal(t, 20, got.WordIndex)
	})

	t.Run("TieBrokenByGreatestKey", func(t *testing.T) {
		records := map[string]*models.Bookmark{
			"aaa": bm(5, 1),
			"zzz": bm(5, 2),
			"mmm": bm(5, 3),
		}
		for range 10 {
			assert.Equal(t, 2, store.Latest(records).WordIndex)
		}
	})

	t.Run("NilRecordsSkipped", func(t *testing.T) {
		got := store.Latest(map[string]*models.Bookmark{
			"k1": nil,
			"k2": bm(3, 4),
		})
		assert.Equal(t, 4, got.WordIndex)
	})
}
