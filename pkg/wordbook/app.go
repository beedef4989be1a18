package wordbook

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/wordbookapp/wordbook/pkg/blob"
	"github.com/wordbookapp/wordbook/pkg/identity"
	"github.com/wordbookapp/wordbook/pkg/logger"
	"github.com/wordbookapp/wordbook/pkg/models"
	"github.com/wordbookapp/wordbook/pkg/store"
	"github.com/wordbookapp/wordbook/pkg/store/local"
	"github.com/wordbookapp/wordbook/pkg/store/surreal"
)

// Config holds application configuration shared across all commands. Backend
// settings come from the environment, viewer and mode settings from flags;
// see Parse.
type Config struct {
	// SurrealDB backend, used when Remote is set.
	SurrealDBURL  string
	SurrealDBNS   string
	SurrealDBDB   string
	SurrealDBUser string
	SurrealDBPass string

	// DataDir is the root of the filesystem blob store used when Remote is
	// not set.
	DataDir string
	// LocalDBPath is the SQLite file holding guest bookmarks, the text
	// cache, and session metadata.
	LocalDBPath string
	// LogPath appends structured logs to a file; empty logs to stderr.
	LogPath string

	Remote   bool
	UserID   string
	PageSize int
	Verbose  bool
}

// App holds the application state: the resolved viewer, the blob backend,
// and the always-open local store.
type App struct {
	config  *Config
	logData *logger.LogData
	log     zerolog.Logger

	viewer identity.Identity
	db     *surrealdb.DB
	blobs  blob.Store
	local  *local.Store
}

// New creates a new application instance: logger, viewer identity, local
// store, and the configured blob backend. The caller must Close it.
func New(ctx context.Context, config *Config) (*App, error) {
	build := logger.New()
	if config.LogPath != "" {
		build.FromPath(config.LogPath)
	} else {
		build.Console()
	}
	if config.Verbose {
		build.Level(zerolog.DebugLevel)
	}
	logData, err := build.Make()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &App{
		config:  config,
		logData: logData,
		log:     logData.Logger,
	}

	if config.UserID != "" {
		uid, err := models.ParseUserID(config.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID: %w", err)
		}
		app.viewer = identity.Identity{UserID: uid}
	}

	app.local, err = local.Open(config.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if config.Remote {
		app.db, err = surreal.Connect(ctx, surreal.Config{
			URL:       config.SurrealDBURL,
			Namespace: config.SurrealDBNS,
			Database:  config.SurrealDBDB,
			Username:  config.SurrealDBUser,
			Password:  config.SurrealDBPass,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		app.blobs = blob.NewSurrealStore(app.db)
		app.log.Info().Str("url", config.SurrealDBURL).Msg("using SurrealDB backend")
	} else {
		app.blobs = blob.NewFSStore(config.DataDir)
	}

	return app, nil
}

// Close closes the application and its resources.
func (a *App) Close() error {
	var firstErr error
	if a.local != nil {
		firstErr = a.local.Close()
	}
	if a.db != nil {
		if err := a.db.Close(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.logData != nil && a.logData.LogFile != nil {
		if err := a.logData.LogFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stores returns the bookmark backend selector: guests (and every viewer in
// local mode) persist to the local SQLite store, signed-in viewers in remote
// mode to SurrealDB.
func (a *App) Stores() store.Selector {
	return func(uid models.UserID) store.BookmarkStore {
		if a.db == nil || uid.IsZero() {
			return a.local
		}
		return surreal.New(a.db, uid)
	}
}

// getEnv retrieves an environment variable value with a fallback default,
// treating empty the same as unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
