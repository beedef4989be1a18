// Package local provides the guest-side persistent store on SQLite: the
// guest bookmark per resource path, the text cache backing the cache-aside
// loader, and the last-opened-resource pointer.
//
// Unlike the remote backend there is exactly one bookmark row per resource
// path, keyed directly by the path, so loads are plain lookups with no
// client-side reduction.
//
// The schema carries a version tag in the meta table. When the tag on disk
// differs from the one compiled into the binary the whole store is wiped and
// rebuilt before first use; a destructive migration is acceptable for what
// is only a cache plus guest progress, and it spares every deploy a
// hand-written migration step.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wordbookapp/wordbook/pkg/models"
	"github.com/wordbookapp/wordbook/pkg/textcache"
)

// schemaVersion is bumped whenever the layout below changes in a way old
// rows cannot satisfy.
const schemaVersion = "2"

const schema = `
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Guest bookmarks: one row per resource path.
CREATE TABLE IF NOT EXISTS bookmarks (
    resource_path TEXT PRIMARY KEY,
    word_index INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL,
    search_query TEXT NOT NULL DEFAULT '',
    shuffle_indices TEXT NOT NULL DEFAULT 'null'
);

-- Text cache for the cache-aside loader.
CREATE TABLE IF NOT EXISTS cache (
    resource_path TEXT PRIMARY KEY,
    token TEXT NOT NULL,
    text TEXT NOT NULL,
    saved_at INTEGER NOT NULL
);
`

const (
	metaVersionKey    = "schema_version"
	metaLastOpenedKey = "last_opened"
)

// Store is the SQLite-backed local store.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating directories as needed) the store at path and brings
// the schema up to date, wiping stale-version contents first.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var stored string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, metaVersionKey).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		stored = ""
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if stored != schemaVersion {
		// Version mismatch (or fresh database): wipe everything.
		for _, table := range []string{"bookmarks", "cache", "meta"} {
			if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to wipe %s: %w", table, err)
			}
		}
		if _, err := s.db.Exec(
			`INSERT INTO meta (key, value) VALUES (?, ?)`,
			metaVersionKey, schemaVersion,
		); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return nil
}

// Load returns the guest bookmark for resourcePath, or (nil, nil) when none
// is stored.
func (s *Store) Load(ctx context.Context, resourcePath string) (*models.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		b         models.Bookmark
		updatedAt int64
		shuffle   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT resource_path, word_index, updated_at, search_query, shuffle_indices
		 FROM bookmarks WHERE resource_path = ?`, resourcePath,
	).Scan(&b.ResourcePath, &b.WordIndex, &updatedAt, &b.SearchQuery, &shuffle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmark: %w", err)
	}

	b.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	if err := json.Unmarshal([]byte(shuffle), &b.ShuffleIndices); err != nil {
		return nil, fmt.Errorf("failed to decode shuffle indices: %w", err)
	}
	return &b, nil
}

// Save overwrites the guest bookmark row for the bookmark's resource path.
func (s *Store) Save(ctx context.Context, bookmark *models.Bookmark) error {
	shuffle, err := json.Marshal(bookmark.ShuffleIndices)
	if err != nil {
		return fmt.Errorf("failed to encode shuffle indices: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (resource_path, word_index, updated_at, search_query, shuffle_indices)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(resource_path) DO UPDATE SET
		   word_index = excluded.word_index,
		   updated_at = excluded.updated_at,
		   search_query = excluded.search_query,
		   shuffle_indices = excluded.shuffle_indices`,
		bookmark.ResourcePath, bookmark.WordIndex, bookmark.UpdatedAt.UnixMilli(),
		bookmark.SearchQuery, string(shuffle),
	)
	if err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// GetCacheEntry returns the cached text for resourcePath, or (nil, nil) on a
// miss. Together with PutCacheEntry this makes Store the persistence behind
// the cache-aside text loader.
func (s *Store) GetCacheEntry(ctx context.Context, resourcePath string) (*textcache.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		e       textcache.Entry
		savedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT resource_path, token, text, saved_at FROM cache WHERE resource_path = ?`,
		resourcePath,
	).Scan(&e.ResourcePath, &e.Token, &e.Text, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	e.SavedAt = time.UnixMilli(savedAt).UTC()
	return &e, nil
}

// PutCacheEntry overwrites the cache entry for the entry's resource path.
func (s *Store) PutCacheEntry(ctx context.Context, entry textcache.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache (resource_path, token, text, saved_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(resource_path) DO UPDATE SET
		   token = excluded.token,
		   text = excluded.text,
		   saved_at = excluded.saved_at`,
		entry.ResourcePath, entry.Token, entry.Text, entry.SavedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// LastOpened returns the resource path of the most recently viewed list, or
// "" when none was recorded.
func (s *Store) LastOpened(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var path string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, metaLastOpenedKey,
	).Scan(&path)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last-opened pointer: %w", err)
	}
	return path, nil
}

// SetLastOpened records the most recently viewed list.
func (s *Store) SetLastOpened(ctx context.Context, resourcePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaLastOpenedKey, resourcePath,
	)
	if err != nil {
		return fmt.Errorf("failed to record last-opened pointer: %w", err)
	}
	return nil
}
