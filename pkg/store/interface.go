// Package store defines the bookmark persistence capability the view-state
// controller depends on, with two interchangeable backends selected by
// whether a viewer identity is present:
//
//   - [github.com/wordbookapp/wordbook/pkg/store/surreal.Store] keeps an
//     authenticated viewer's bookmarks in SurrealDB, one keyed record per
//     save session, reduced to the freshest record on load.
//   - [github.com/wordbookapp/wordbook/pkg/store/local.Store] keeps guest
//     bookmarks in a local SQLite database, one row per resource path.
//
// Both backends write full records. Transient I/O failures are returned to
// the caller, which logs and moves on; a failed save leaves the stored
// bookmark stale until the next successful one.
package store

import (
	"context"
	"sort"

	"github.com/wordbookapp/wordbook/pkg/models"
)

// BookmarkStore reads and writes the bookmark for a resource path on behalf
// of one viewer context.
type BookmarkStore interface {
	// Load returns the freshest bookmark stored for resourcePath, or
	// (nil, nil) when none exists.
	Load(ctx context.Context, resourcePath string) (*models.Bookmark, error)

	// Save overwrites the stored bookmark with a full record.
	Save(ctx context.Context, bookmark *models.Bookmark) error
}

// Selector picks the bookmark backend for a viewer identity. The zero
// identity selects the guest backend.
type Selector func(owner models.UserID) BookmarkStore

// Latest reduces a set of physical bookmark records for one resource path to
// the authoritative one: greatest UpdatedAt wins. Exact timestamp ties are
// broken by the lexicographically greatest record key, so the pick is stable
// across loads instead of depending on map iteration order. Returns nil for
// an empty set.
func Latest(records map[string]*models.Bookmark) *models.Bookmark {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var bestKey string
	var best *models.Bookmark
	for _, k := range keys {
		b := records[k]
		if b == nil {
			continue
		}
		switch {
		case best == nil:
			best, bestKey = b, k
		case b.UpdatedAt.After(best.UpdatedAt):
			best, bestKey = b, k
		case b.UpdatedAt.Equal(best.UpdatedAt) && k > bestKey:
			best, bestKey = b, k
		}
	}
	return best
}
