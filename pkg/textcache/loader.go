// Package textcache implements the cache-aside read path for word-list
// text: one cheap metadata call per load, the full content fetch only when
// the stored freshness token no longer matches.
//
// Cache persistence is delegated to whatever implements [CacheStore] (the
// local SQLite store in the shipped wiring). Cache failures never fail a
// load; the loader logs them and falls through to the blob store, because
// stale-cache handling must not be able to take the viewer down.
package textcache

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wordbookapp/wordbook/pkg/blob"
)

// Entry is one cached text blob and the freshness token it was fetched
// under.
type Entry struct {
	ResourcePath string
	Token        string
	Text         string
	SavedAt      time.Time
}

// CacheStore persists cache entries keyed by resource path. Version
// handling (wiping the cache when the schema tag changes) belongs to the
// implementation, not the loader.
type CacheStore interface {
	// GetCacheEntry returns the entry for resourcePath, or (nil, nil) on a
	// miss.
	GetCacheEntry(ctx context.Context, resourcePath string) (*Entry, error)

	// PutCacheEntry overwrites the entry for entry.ResourcePath.
	PutCacheEntry(ctx context.Context, entry Entry) error
}

// Result is one loaded text blob.
type Result struct {
	Text           string
	FreshnessToken string
	FromCache      bool
}

// Loader is the cache-aside text loader.
type Loader struct {
	blobs blob.Store
	cache CacheStore
	log   zerolog.Logger
}

// New returns a loader over blobs. cache may be nil, in which case every
// load fetches content.
func New(blobs blob.Store, cache CacheStore, log zerolog.Logger) *Loader {
	return &Loader{blobs: blobs, cache: cache, log: log}
}

// Load fetches the text at path, serving the local cache when its token
// matches the blob's current freshness token. blob.ErrNotFound and
// blob.ErrAccessDenied propagate unchanged so callers can tell them apart
// from transport failures.
func (l *Loader) Load(ctx context.Context, path string) (Result, error) {
	meta, err := l.blobs.Metadata(ctx, path)
	if err != nil {
		return Result{}, err
	}

	if l.cache != nil {
		entry, err := l.cache.GetCacheEntry(ctx, path)
		if err != nil {
			l.log.Warn().Err(err).Str("path", path).Msg("cache read failed, fetching content")
		} else if entry != nil && entry.Token == meta.FreshnessToken {
			return Result{Text: entry.Text, FreshnessToken: entry.Token, FromCache: true}, nil
		}
	}

	text, err := l.blobs.Content(ctx, path)
	if err != nil {
		return Result{}, err
	}

	if l.cache != nil {
		err := l.cache.PutCacheEntry(ctx, Entry{
			ResourcePath: path,
			Token:        meta.FreshnessToken,
			Text:         text,
			SavedAt:      time.Now().UTC(),
		})
		if err != nil {
			l.log.Warn().Err(err).Str("path", path).Msg("cache write failed")
		}
	}
	return Result{Text: text, FreshnessToken: meta.FreshnessToken}, nil
}
