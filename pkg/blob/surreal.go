package blob

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/wordbookapp/wordbook/pkg/models"
)

// SurrealStore keeps blobs as records in the document table, keyed by
// resource path. The freshness token is the record's updated_at timestamp in
// unix milliseconds; every Put rewrites the whole record and bumps it.
type SurrealStore struct {
	db *surrealdb.DB
}

func NewSurrealStore(db *surrealdb.DB) *SurrealStore {
	return &SurrealStore{db: db}
}

// documentRecord is the stored shape of one blob.
type documentRecord struct {
	ID        *surrealmodels.RecordID `json:"id,omitempty" cbor:"id,omitempty"`
	Path      string                  `json:"path" cbor:"path"`
	Content   string                  `json:"content" cbor:"content"`
	UpdatedAt time.Time               `json:"updated_at" cbor:"updated_at"`
}

func documentID(path string) surrealmodels.RecordID {
	return surrealmodels.RecordID{Table: "document", ID: path}
}

func (s *SurrealStore) Metadata(ctx context.Context, path string) (Meta, error) {
	doc, err := s.get(ctx, path)
	if err != nil {
		return Meta{}, err
	}
	return Meta{FreshnessToken: freshnessToken(doc.UpdatedAt)}, nil
}

func (s *SurrealStore) Content(ctx context.Context, path string) (string, error) {
	doc, err := s.get(ctx, path)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

func (s *SurrealStore) get(ctx context.Context, path string) (*documentRecord, error) {
	doc, err := surrealdb.Select[documentRecord](ctx, s.db, documentID(path))
	if err != nil {
		return nil, mapSurrealError(err, path)
	}
	if doc == nil || doc.Path == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return doc, nil
}

func (s *SurrealStore) Put(ctx context.Context, path, content string) error {
	rid := documentID(path)
	doc := documentRecord{
		ID:        &rid,
		Path:      path,
		Content:   content,
		UpdatedAt: time.Now().UTC(),
	}

	existing, err := surrealdb.Select[documentRecord](ctx, s.db, rid)
	if err != nil && !notFound(err) {
		return mapSurrealError(err, path)
	}
	if existing != nil && existing.Path != "" {
		if _, err := surrealdb.Update[documentRecord](ctx, s.db, rid, &doc); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
		return nil
	}
	if _, err := surrealdb.Create[documentRecord](ctx, s.db, "document", &doc); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (s *SurrealStore) Delete(ctx context.Context, path string) error {
	if _, err := s.get(ctx, path); err != nil {
		return err
	}
	if _, err := surrealdb.Delete[documentRecord](ctx, s.db, documentID(path)); err != nil {
		return mapSurrealError(err, path)
	}
	return nil
}

func (s *SurrealStore) Rename(ctx context.Context, oldPath, newPath string) error {
	doc, err := s.get(ctx, oldPath)
	if err != nil {
		return err
	}
	if err := s.Put(ctx, newPath, doc.Content); err != nil {
		return err
	}
	return s.Delete(ctx, oldPath)
}

func (s *SurrealStore) List(ctx context.Context, prefix string) ([]string, error) {
	query := "SELECT path FROM document WHERE string::starts_with(path, $prefix) ORDER BY path"
	params := map[string]any{"prefix": prefix}

	type row struct {
		Path string `json:"path" cbor:"path"`
	}
	result, err := surrealdb.Query[[]row](ctx, s.db, query, params)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var paths []string
	if result != nil && len(*result) > 0 {
		for _, r := range (*result)[0].Result {
			paths = append(paths, r.Path)
		}
	}
	return paths, nil
}

// ListNames maps List results to bare list names for an owner.
func ListNames(ctx context.Context, s Store, owner models.UserID) ([]string, error) {
	paths, err := s.List(ctx, fmt.Sprintf("users/%s/lists/", owner))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		if name := models.ListName(p); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func freshnessToken(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func notFound(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Expected a single or multiple results but got 0") ||
		strings.Contains(errStr, "cannot unmarshal array into Go value") ||
		strings.Contains(errStr, "no record found")
}

func mapSurrealError(err error, path string) error {
	if err == nil {
		return nil
	}
	if notFound(err) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if strings.Contains(err.Error(), "Not enough permissions") ||
		strings.Contains(err.Error(), "IAM error") {
		return fmt.Errorf("%s: %w", path, ErrAccessDenied)
	}
	return err
}
