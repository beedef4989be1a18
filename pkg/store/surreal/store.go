// Package surreal implements the bookmark store for authenticated viewers
// on SurrealDB.
//
// One viewer's bookmarks live as keyed records in the bookmark table. The
// table may hold several physical records for the same resource path (two
// tabs saving concurrently, an interrupted session); Load scans the owner's
// records and reduces them client-side with last-write-wins by UpdatedAt.
// Load also remembers the winning record's key, so saves in the same session
// overwrite that record instead of adding another; only a path with no
// loaded record gets a fresh random key on its first save.
//
// The connection is built the same way throughout this codebase: a
// surrealcbor codec over a gorilla WebSocket, so time.Time values and record
// IDs survive the trip intact.
package surreal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/wordbookapp/wordbook/pkg/models"
	"github.com/wordbookapp/wordbook/pkg/store"
)

// Config carries the connection settings for one SurrealDB endpoint.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// Connect opens a SurrealDB connection with the surrealcbor codec and signs
// in when credentials are present.
func Connect(ctx context.Context, cfg Config) (*surrealdb.DB, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	conf := connection.NewConfig(u)
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if cfg.Username != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": cfg.Username,
			"pass": cfg.Password,
		}); err != nil {
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}
	return db, nil
}

// Store is the remote bookmark backend bound to one owner.
type Store struct {
	db    *surrealdb.DB
	owner models.UserID

	mu          sync.Mutex
	sessionKeys map[string]models.BookmarkID // resource path -> record key reused this session
}

// New returns a bookmark store over an existing connection, scoped to owner.
func New(db *surrealdb.DB, owner models.UserID) *Store {
	return &Store{
		db:          db,
		owner:       owner,
		sessionKeys: make(map[string]models.BookmarkID),
	}
}

// NewFromConfig dials cfg and returns a store scoped to owner. The caller
// owns the returned store and must Close it.
func NewFromConfig(ctx context.Context, cfg Config, owner models.UserID) (*Store, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(db, owner), nil
}

func (s *Store) Close() error {
	return s.db.Close(context.Background())
}

// Load scans all of the owner's bookmark records, keeps the ones for
// resourcePath, and reduces them to the freshest by UpdatedAt (ties broken
// by the greatest record key, see store.Latest). Returns (nil, nil) when the
// owner has no record for the path.
func (s *Store) Load(ctx context.Context, resourcePath string) (*models.Bookmark, error) {
	query := "SELECT * FROM bookmark WHERE owner = $owner"
	params := map[string]any{
		"owner": s.owner.RecordID(),
	}
	result, err := surrealdb.Query[[]models.Bookmark](ctx, s.db, query, params)
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	records := make(map[string]*models.Bookmark)
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			b := (*result)[0].Result[i]
			if b.ResourcePath != resourcePath {
				continue
			}
			records[b.ID.String()] = &b
		}
	}

	best := store.Latest(records)
	if best == nil {
		return nil, nil
	}

	s.mu.Lock()
	s.sessionKeys[resourcePath] = best.ID
	s.mu.Unlock()
	return best, nil
}

// Save writes the full bookmark record, overwriting the record whose key
// this session already holds (from a prior Load or Save); a path with no
// session key gets a fresh random one.
func (s *Store) Save(ctx context.Context, bookmark *models.Bookmark) error {
	b := *bookmark
	b.Owner = s.owner

	s.mu.Lock()
	key, reuse := s.sessionKeys[b.ResourcePath]
	if !reuse {
		key = models.NewBookmarkID()
		s.sessionKeys[b.ResourcePath] = key
	}
	s.mu.Unlock()
	b.ID = key

	if reuse {
		if _, err := surrealdb.Update[models.Bookmark](ctx, s.db, key.RecordID(), &b); err != nil {
			return fmt.Errorf("failed to update bookmark: %w", err)
		}
		return nil
	}
	if _, err := surrealdb.Create[models.Bookmark](ctx, s.db, "bookmark", &b); err != nil {
		// The record never materialized; forget the key so the next save
		// creates instead of updating a record that does not exist.
		s.mu.Lock()
		delete(s.sessionKeys, b.ResourcePath)
		s.mu.Unlock()
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	return nil
}

// handleNotFound collapses SurrealDB's "no result" errors into absence.
func handleNotFound(err error) error {
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "Expected a single or multiple results but got 0") ||
			strings.Contains(errStr, "cannot unmarshal array into Go value") {
			return nil
		}
	}
	return err
}
