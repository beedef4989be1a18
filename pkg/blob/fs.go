package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// FSStore keeps blobs as files under a root directory, one file per resource
// path. The freshness token is the file's mtime in unix milliseconds. Used
// by the CLI's offline mode and by tests.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) filePath(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

func (s *FSStore) Metadata(_ context.Context, path string) (Meta, error) {
	info, err := os.Stat(s.filePath(path))
	if err != nil {
		return Meta{}, mapFSError(err, path)
	}
	return Meta{FreshnessToken: strconv.FormatInt(info.ModTime().UnixMilli(), 10)}, nil
}

func (s *FSStore) Content(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(s.filePath(path))
	if err != nil {
		return "", mapFSError(err, path)
	}
	return string(data), nil
}

func (s *FSStore) Put(_ context.Context, path, content string) error {
	full := s.filePath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return mapFSError(err, path)
	}
	return nil
}

func (s *FSStore) Delete(_ context.Context, path string) error {
	if err := os.Remove(s.filePath(path)); err != nil {
		return mapFSError(err, path)
	}
	return nil
}

func (s *FSStore) Rename(_ context.Context, oldPath, newPath string) error {
	dst := s.filePath(newPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.Rename(s.filePath(oldPath), dst); err != nil {
		return mapFSError(err, oldPath)
	}
	return nil
}

func (s *FSStore) List(_ context.Context, prefix string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		path := filepath.ToSlash(rel)
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func mapFSError(err error, path string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s: %w", path, ErrAccessDenied)
	default:
		return err
	}
}
