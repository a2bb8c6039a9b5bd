package store

import "errors"

// These errors are returned (possibly wrapped) by every FileStore
// implementation. Callers should match them with errors.Is:
//
//	content, err := s.Read(ctx, name)
//	if errors.Is(err, store.ErrNotFound) {
//	    // 404
//	}
//
// Implementations wrap them with context:
//
//	return fmt.Errorf("read %s: %w", name, store.ErrNotFound)
var (
	// ErrNotFound indicates the named file does not exist.
	//
	// HTTP: 404 Not Found
	ErrNotFound = errors.New("file not found")

	// ErrExists indicates an exclusive create found the name already taken.
	//
	// HTTP: 409 Conflict
	ErrExists = errors.New("file already exists")

	// ErrInvalidName indicates the name failed ValidateName.
	//
	// HTTP: 400 Bad Request
	ErrInvalidName = errors.New("invalid filename")

	// ErrInvalidEncoding indicates stored bytes are not valid UTF-8 text.
	//
	// HTTP: 500 Internal Server Error
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")

	// ErrNotRegular indicates the name refers to something other than a
	// regular file (a directory, for instance).
	//
	// HTTP: 404 Not Found
	ErrNotRegular = errors.New("not a regular file")
)
