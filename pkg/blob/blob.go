// Package blob abstracts the object storage that holds word-list text
// blobs. The engine only ever reads a blob wholesale: a cheap metadata call
// for the freshness token, then the full content when the cache misses. The
// write-side operations are the thin list-management wrappers used by the
// CLI (create, upload, rename, delete); nothing in the core mutates a blob.
//
// Shipped backends: [NewSurrealStore] keeps blobs as SurrealDB records,
// [NewFSStore] keeps them as plain files under a root directory, and
// [NewMemStore] backs tests.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound reports that no blob exists at the requested path. Callers
// treat it specially (a viewer's own missing list starts empty), so backends
// must return it for absence and never for transport failures.
var ErrNotFound = errors.New("blob not found")

// ErrAccessDenied reports that the current credentials may not touch the
// requested path.
var ErrAccessDenied = errors.New("access denied")

// Meta is the cheap metadata for one blob.
type Meta struct {
	// FreshnessToken is an opaque backend value that changes whenever the
	// content changes. Compared verbatim, never parsed.
	FreshnessToken string
}

// Store is the object-storage capability the engine consumes.
type Store interface {
	// Metadata fetches the freshness token without the content.
	Metadata(ctx context.Context, path string) (Meta, error)

	// Content fetches the full text blob.
	Content(ctx context.Context, path string) (string, error)

	// Put writes the full text blob, creating it if absent.
	Put(ctx context.Context, path, content string) error

	// Delete removes the blob. Deleting an absent blob returns ErrNotFound.
	Delete(ctx context.Context, path string) error

	// Rename moves a blob to a new path, overwriting any existing target.
	Rename(ctx context.Context, oldPath, newPath string) error

	// List returns the paths under prefix, in lexicographic order.
	List(ctx context.Context, prefix string) ([]string, error)
}
