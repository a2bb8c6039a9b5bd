// Package fs implements the host-filesystem FileStore for SandboxFS.
//
// Files live directly under a single sandbox directory. All access goes
// through an afero.BasePathFs rooted at that directory, so even a name that
// slipped past validation cannot resolve outside of it.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/marmos91/sandboxfs/pkg/store"
	"github.com/spf13/afero"
)

// rootDir is the sandbox root as seen through the BasePathFs.
const rootDir = string(filepath.Separator)

// FSFileStore implements store.FileStore on top of an afero filesystem.
//
// Thread Safety:
// The store keeps no mutable state of its own. Concurrency is whatever the
// underlying filesystem provides: CreateExclusive relies on O_EXCL, while
// Overwrite and Delete are last-writer-wins.
type FSFileStore struct {
	root string
	fs   afero.Fs
}

// NewFSFileStore creates a store backed by the host filesystem.
//
// The root directory is created with permissions 0755 if it does not exist.
//
// Parameters:
//   - ctx: Context for cancellation
//   - root: Sandbox directory (relative paths are made absolute)
//
// Returns:
//   - *FSFileStore: Initialized store
//   - error: If the directory cannot be created or ctx is cancelled
func NewFSFileStore(ctx context.Context, root string) (*FSFileStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	return NewFSFileStoreWithFs(ctx, afero.NewOsFs(), abs)
}

// NewFSFileStoreWithFs creates a store on an arbitrary afero filesystem.
//
// Tests use this with afero.NewMemMapFs() to exercise the filesystem code
// path without touching disk.
func NewFSFileStoreWithFs(ctx context.Context, base afero.Fs, root string) (*FSFileStore, error) {
	// ========================================================================
	// Step 1: Check context before filesystem operation
	// ========================================================================

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ========================================================================
	// Step 2: Create the root directory if it doesn't exist
	// ========================================================================

	if err := base.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}

	info, err := base.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	return &FSFileStore{
		root: root,
		fs:   afero.NewBasePathFs(base, root),
	}, nil
}

// Root returns the sandbox directory.
func (s *FSFileStore) Root() string {
	return s.root
}

// path validates name and returns its location inside the BasePathFs.
func (s *FSFileStore) path(name string) (string, error) {
	return store.ResolvePath(rootDir, name)
}

// List returns the names of regular files directly under the root, in
// directory enumeration order.
func (s *FSFileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := s.fs.Open(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory: %w", err)
	}
	defer func() { _ = dir.Close() }()

	entries, err := dir.Readdir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list root directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Mode().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

func (s *FSFileStore) Exists(ctx context.Context, name string) (bool, error) {
	info, err := s.stat(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return info != nil, nil
}

func (s *FSFileStore) IsRegular(ctx context.Context, name string) (bool, error) {
	info, err := s.stat(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// stat returns file info for the entry itself, mapping a missing entry to
// store.ErrNotFound. Symlinks are not followed, so a link in the root is a
// non-regular entry even when it points at a regular file.
func (s *FSFileStore) stat(ctx context.Context, name string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.path(name)
	if err != nil {
		return nil, err
	}

	info, err := s.lstat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", name, store.ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	return info, nil
}

func (s *FSFileStore) lstat(p string) (os.FileInfo, error) {
	if l, ok := s.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(p)
		return info, err
	}
	return s.fs.Stat(p)
}

// Read returns the file content as text.
//
// Returns:
//   - store.ErrNotFound if the file does not exist
//   - store.ErrNotRegular if the name is a directory or special file
//   - store.ErrInvalidEncoding if the content is not valid UTF-8
func (s *FSFileStore) Read(ctx context.Context, name string) (string, error) {
	info, err := s.stat(ctx, name)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("read %s: %w", name, store.ErrNotRegular)
	}

	p, _ := s.path(name)
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("read %s: %w", name, store.ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("read %s: %w", name, store.ErrInvalidEncoding)
	}

	return string(data), nil
}

// CreateExclusive creates name with O_CREATE|O_EXCL so that the existence
// check and the creation happen in one step.
//
// If writing the content fails after the file was created, the partial file
// is removed so the name stays free.
func (s *FSFileStore) CreateExclusive(ctx context.Context, name, content string) error {
	// ========================================================================
	// Step 1: Check context and resolve the path
	// ========================================================================

	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.path(name)
	if err != nil {
		return err
	}

	// ========================================================================
	// Step 2: Atomically create the file
	// ========================================================================

	f, err := s.fs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("create %s: %w", name, store.ErrExists)
		}
		return fmt.Errorf("create %s: %w", name, err)
	}

	// ========================================================================
	// Step 3: Write content, cleaning up on failure
	// ========================================================================

	if err := writeAndClose(f, content); err != nil {
		_ = s.fs.Remove(p)
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}

// Overwrite truncates an existing regular file and writes content in full.
//
// The file is opened without O_CREATE, so a file deleted concurrently is not
// resurrected; ErrNotFound is returned instead. Directories and symlinks fail
// with ErrNotRegular.
func (s *FSFileStore) Overwrite(ctx context.Context, name, content string) error {
	info, err := s.stat(ctx, name)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("overwrite %s: %w", name, store.ErrNotRegular)
	}

	p, _ := s.path(name)
	f, err := s.fs.OpenFile(p, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("overwrite %s: %w", name, store.ErrNotFound)
		}
		return fmt.Errorf("overwrite %s: %w", name, err)
	}

	if err := writeAndClose(f, content); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}

// Delete removes a regular file.
func (s *FSFileStore) Delete(ctx context.Context, name string) error {
	info, err := s.stat(ctx, name)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("delete %s: %w", name, store.ErrNotRegular)
	}

	p, _ := s.path(name)
	if err := s.fs.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", name, store.ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", name, err)
	}

	return nil
}

// Close is a no-op; the filesystem store holds no descriptors between calls.
func (s *FSFileStore) Close() error {
	return nil
}

func writeAndClose(f afero.File, content string) error {
	_, werr := io.WriteString(f, content)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

var _ store.FileStore = (*FSFileStore)(nil)
