package blob

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MemStore is an in-memory Store for tests and throwaway sessions. The
// freshness token is a write counter per path, so every Put invalidates
// cached text.
type MemStore struct {
	mu       sync.Mutex
	content  map[string]string
	revision map[string]int64
	denied   map[string]bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		content:  make(map[string]string),
		revision: make(map[string]int64),
		denied:   make(map[string]bool),
	}
}

// Deny makes every operation on path fail with ErrAccessDenied.
func (s *MemStore) Deny(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied[path] = true
}

func (s *MemStore) check(path string) error {
	if s.denied[path] {
		return fmt.Errorf("%s: %w", path, ErrAccessDenied)
	}
	if _, ok := s.content[path]; !ok {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return nil
}

func (s *MemStore) Metadata(_ context.Context, path string) (Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(path); err != nil {
		return Meta{}, err
	}
	return Meta{FreshnessToken: strconv.FormatInt(s.revision[path], 10)}, nil
}

func (s *MemStore) Content(_ context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(path); err != nil {
		return "", err
	}
	return s.content[path], nil
}

func (s *MemStore) Put(_ context.Context, path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.denied[path] {
		return fmt.Errorf("%s: %w", path, ErrAccessDenied)
	}
	s.content[path] = content
	s.revision[path]++
	return nil
}

func (s *MemStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(path); err != nil {
		return err
	}
	delete(s.content, path)
	return nil
}

func (s *MemStore) Rename(_ context.Context, oldPath, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(oldPath); err != nil {
		return err
	}
	s.content[newPath] = s.content[oldPath]
	s.revision[newPath]++
	delete(s.content, oldPath)
	return nil
}

func (s *MemStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var paths []string
	for p := range s.content {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
