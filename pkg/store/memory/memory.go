// Package memory implements an in-memory FileStore for SandboxFS.
//
// It mirrors the filesystem backend's semantics without touching disk and is
// intended for tests and ephemeral deployments. Content is lost on exit.
package memory

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/marmos91/sandboxfs/pkg/store"
)

// MemoryFileStore implements store.FileStore using a map.
//
// Characteristics:
//   - Volatile: data lost on restart
//   - Flat: every entry is a regular file
//   - Thread-safe: protected by RWMutex
//
// List returns names in map iteration order, which Go randomizes; callers
// must not rely on ordering, same as with the filesystem backend.
type MemoryFileStore struct {
	// files maps name to content
	files map[string]string

	// mu protects concurrent access to files
	mu sync.RWMutex
}

// NewMemoryFileStore creates an empty in-memory store.
func NewMemoryFileStore(ctx context.Context) (*MemoryFileStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &MemoryFileStore{
		files: make(map[string]string),
	}, nil
}

func (s *MemoryFileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	return names, nil
}

func (s *MemoryFileStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := check(ctx, name); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.files[name]
	return ok, nil
}

// IsRegular is equivalent to Exists: the memory store has no directories.
func (s *MemoryFileStore) IsRegular(ctx context.Context, name string) (bool, error) {
	return s.Exists(ctx, name)
}

func (s *MemoryFileStore) Read(ctx context.Context, name string) (string, error) {
	if err := check(ctx, name); err != nil {
		return "", err
	}

	s.mu.RLock()
	content, ok := s.files[name]
	s.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("read %s: %w", name, store.ErrNotFound)
	}
	if !utf8.ValidString(content) {
		return "", fmt.Errorf("read %s: %w", name, store.ErrInvalidEncoding)
	}
	return content, nil
}

// CreateExclusive checks and inserts under a single write lock.
func (s *MemoryFileStore) CreateExclusive(ctx context.Context, name, content string) error {
	if err := check(ctx, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[name]; ok {
		return fmt.Errorf("create %s: %w", name, store.ErrExists)
	}
	s.files[name] = content
	return nil
}

func (s *MemoryFileStore) Overwrite(ctx context.Context, name, content string) error {
	if err := check(ctx, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[name]; !ok {
		return fmt.Errorf("overwrite %s: %w", name, store.ErrNotFound)
	}
	s.files[name] = content
	return nil
}

func (s *MemoryFileStore) Delete(ctx context.Context, name string) error {
	if err := check(ctx, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[name]; !ok {
		return fmt.Errorf("delete %s: %w", name, store.ErrNotFound)
	}
	delete(s.files, name)
	return nil
}

// Close drops all content.
func (s *MemoryFileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = make(map[string]string)
	return nil
}

func check(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return store.ValidateName(name)
}

var _ store.FileStore = (*MemoryFileStore)(nil)
