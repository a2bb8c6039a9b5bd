// Package store defines the FileStore abstraction over the managed directory.
//
// A FileStore exposes a flat namespace of text files rooted at a single
// sandbox directory. The directory itself is the index: implementations must
// not keep a separate catalog, so List always reflects the current state.
//
// Implementations:
//   - fs: host filesystem (the production backend)
//   - memory: in-process map, used by tests and ephemeral deployments
//
// Every implementation is expected to pass the conformance suite in
// pkg/store/testing.
package store

import (
	"context"
)

// FileStore provides list/exists/read/write/delete primitives scoped to the
// sandbox root.
//
// Names passed to a FileStore must already have been checked with
// ValidateName. Implementations validate again before touching the backend,
// so an unchecked name fails with ErrInvalidName instead of escaping the root.
//
// Thread Safety:
// Implementations must be safe for concurrent use. No per-file locking is
// required beyond what the backend provides; CreateExclusive is the only
// operation that must be atomic with respect to existence.
type FileStore interface {
	// List returns the names of regular files directly under the root.
	//
	// Order is enumeration order and is not guaranteed to be sorted.
	// An empty root yields an empty, non-nil slice.
	List(ctx context.Context) ([]string, error)

	// Exists reports whether any entry with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// IsRegular reports whether name exists and is a regular file.
	IsRegular(ctx context.Context, name string) (bool, error)

	// Read returns the full content of the file as text.
	//
	// Returns ErrNotFound if the file does not exist and ErrInvalidEncoding
	// if the stored bytes are not valid UTF-8.
	Read(ctx context.Context, name string) (string, error)

	// CreateExclusive creates the file only if it does not already exist.
	//
	// The existence check and the creation are a single atomic step
	// (exclusive-create semantics). Returns ErrExists if the name is taken.
	CreateExclusive(ctx context.Context, name, content string) error

	// Overwrite replaces the entire content of the file.
	Overwrite(ctx context.Context, name, content string) error

	// Delete removes the file. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}
