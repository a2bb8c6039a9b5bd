// Package files implements the file-management operations of SandboxFS.
//
// Service composes the filename validator, a store.FileStore, the extension
// gate and the name generator, and reports every failure as an *Error with a
// Kind. Protocol adapters (HTTP, MCP) translate kinds into their own status
// codes and never see raw store errors.
package files

import (
	"context"
	"errors"
	"fmt"

	"github.com/marmos91/sandboxfs/internal/logger"
	"github.com/marmos91/sandboxfs/pkg/store"
)

// DefaultMaxNameAttempts bounds retries when a generated name collides.
const DefaultMaxNameAttempts = 5

// File is a managed file as returned by Get.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Options tunes Service behaviour. The zero value matches the historical
// behaviour: the extension allowlist is enforced on read only.
type Options struct {
	// StrictExtensions also applies the text-extension allowlist to create and
	// update, so that nothing unreadable can be written.
	StrictExtensions bool

	// MaxNameAttempts is how many generated names CreateAnonymous tries
	// before giving up. Zero means DefaultMaxNameAttempts.
	MaxNameAttempts int

	// Names generates anonymous names. Nil means UUIDNames.
	Names NameGenerator
}

// Service implements list/get/create/update/delete over a FileStore.
//
// Thread safety:
// Service is stateless beyond its store and is safe for concurrent use.
// Only named creation is atomic with respect to existence; updates and
// deletes race like the filesystem does (last writer wins).
type Service struct {
	store store.FileStore
	opts  Options
}

// New creates a Service over s.
//
// Panics if s is nil (programmer error).
func New(s store.FileStore, opts Options) *Service {
	if s == nil {
		panic("file store cannot be nil")
	}
	if opts.MaxNameAttempts <= 0 {
		opts.MaxNameAttempts = DefaultMaxNameAttempts
	}
	if opts.Names == nil {
		opts.Names = UUIDNames
	}
	return &Service{store: s, opts: opts}
}

// List returns the names of all managed files, in store enumeration order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		logger.Error("List files failed: %v", err)
		return nil, internalError(err)
	}
	return names, nil
}

// Get returns a file's content.
//
// Errors:
//   - KindInvalidRequest: unsafe name, or extension not in TextExtensions
//   - KindNotFound: file absent or not a regular file
//   - KindInternal: I/O or UTF-8 decoding failure
func (s *Service) Get(ctx context.Context, name string) (*File, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if err := s.requireRegular(ctx, name); err != nil {
		return nil, err
	}

	// The gate runs after the existence check: a missing .bin is 404, an
	// existing one is 400.
	if !HasTextExtension(name) {
		return nil, newError(KindInvalidRequest, MsgUnsupportedType, nil)
	}

	content, err := s.store.Read(ctx, name)
	if err != nil {
		return nil, s.translate("Read", name, err)
	}

	return &File{Name: name, Content: content}, nil
}

// Create writes a new file under a client-chosen name.
//
// content is nil when the request carried no content field. Existence is
// checked before content, and the final write is an exclusive create, so a
// concurrent creator of the same name still gets KindConflict.
func (s *Service) Create(ctx context.Context, name string, content *string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	if err := s.checkWritableExtension(name); err != nil {
		return "", err
	}

	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return "", s.translate("Exists", name, err)
	}
	if exists {
		return "", newError(KindConflict, MsgAlreadyExists, nil)
	}

	if content == nil {
		return "", newError(KindInvalidRequest, MsgMissingContent, nil)
	}

	if err := s.store.CreateExclusive(ctx, name, *content); err != nil {
		return "", s.translate("CreateExclusive", name, err)
	}

	logger.Debug("Created file %s (%d bytes)", name, len(*content))
	return fmt.Sprintf("File '%s' created successfully.", name), nil
}

// CreateAnonymous writes a new file under a generated name and returns the
// name and a confirmation message.
//
// A generated name that collides with an existing file is discarded and a
// fresh one is tried, up to Options.MaxNameAttempts.
func (s *Service) CreateAnonymous(ctx context.Context, content *string) (string, string, error) {
	if content == nil {
		return "", "", newError(KindInvalidRequest, MsgMissingContent, nil)
	}

	for attempt := 1; attempt <= s.opts.MaxNameAttempts; attempt++ {
		name := s.opts.Names()

		err := s.store.CreateExclusive(ctx, name, *content)
		if err == nil {
			logger.Debug("Created file %s (%d bytes, generated name)", name, len(*content))
			return name, MsgCreatedAnonymously, nil
		}
		if !errors.Is(err, store.ErrExists) {
			return "", "", s.translate("CreateExclusive", name, err)
		}

		logger.Warn("Generated name %s already exists (attempt %d/%d)", name, attempt, s.opts.MaxNameAttempts)
	}

	err := fmt.Errorf("could not generate a unique filename after %d attempts", s.opts.MaxNameAttempts)
	logger.Error("CreateAnonymous failed: %v", err)
	return "", "", internalError(err)
}

// Update replaces the full content of an existing file.
func (s *Service) Update(ctx context.Context, name string, content *string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	if err := s.requireRegular(ctx, name); err != nil {
		return "", err
	}

	if content == nil {
		return "", newError(KindInvalidRequest, MsgMissingContent, nil)
	}

	if err := s.checkWritableExtension(name); err != nil {
		return "", err
	}

	if err := s.store.Overwrite(ctx, name, *content); err != nil {
		return "", s.translate("Overwrite", name, err)
	}

	logger.Debug("Modified file %s (%d bytes)", name, len(*content))
	return fmt.Sprintf("File '%s' modified successfully.", name), nil
}

// Delete removes an existing file.
func (s *Service) Delete(ctx context.Context, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	if err := s.requireRegular(ctx, name); err != nil {
		return "", err
	}

	if err := s.store.Delete(ctx, name); err != nil {
		return "", s.translate("Delete", name, err)
	}

	logger.Debug("Deleted file %s", name)
	return fmt.Sprintf("File '%s' deleted successfully.", name), nil
}

// requireRegular returns KindNotFound unless name is an existing regular file.
func (s *Service) requireRegular(ctx context.Context, name string) error {
	regular, err := s.store.IsRegular(ctx, name)
	if err != nil {
		return s.translate("IsRegular", name, err)
	}
	if !regular {
		return newError(KindNotFound, MsgNotFound, nil)
	}
	return nil
}

func (s *Service) checkWritableExtension(name string) error {
	if s.opts.StrictExtensions && !HasTextExtension(name) {
		return newError(KindInvalidRequest, MsgUnsupportedType, nil)
	}
	return nil
}

// translate maps store errors onto Kinds.
func (s *Service) translate(op, name string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNotRegular):
		return newError(KindNotFound, MsgNotFound, err)
	case errors.Is(err, store.ErrExists):
		return newError(KindConflict, MsgAlreadyExists, err)
	case errors.Is(err, store.ErrInvalidName):
		return newError(KindInvalidRequest, err.Error(), err)
	default:
		logger.Error("%s %s failed: %v", op, name, err)
		return internalError(err)
	}
}

func validateName(name string) error {
	if err := store.ValidateName(name); err != nil {
		return newError(KindInvalidRequest, err.Error(), err)
	}
	return nil
}
