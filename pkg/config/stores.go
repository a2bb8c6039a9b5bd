package config

import (
	"context"
	"fmt"

	"github.com/marmos91/sandboxfs/pkg/files"
	"github.com/marmos91/sandboxfs/pkg/metrics"
	"github.com/marmos91/sandboxfs/pkg/store"
	storefs "github.com/marmos91/sandboxfs/pkg/store/fs"
	storememory "github.com/marmos91/sandboxfs/pkg/store/memory"
	"github.com/mitchellh/mapstructure"
)

// filesystemStoreConfig is the decoded form of store.filesystem.
type filesystemStoreConfig struct {
	Path string `mapstructure:"path"`
}

// CreateFileStore creates the file store selected by cfg.Store.Type.
//
// When storeMetrics is non-nil the store is wrapped so that every operation
// is timed and counted.
func CreateFileStore(ctx context.Context, cfg *StoreConfig, storeMetrics metrics.StoreMetrics) (store.FileStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		s   store.FileStore
		err error
	)

	switch cfg.Type {
	case "filesystem":
		s, err = createFilesystemStore(ctx, cfg.Filesystem)
	case "memory":
		s, err = createMemoryStore(ctx)
	default:
		return nil, fmt.Errorf("unknown store type: %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	return store.WithMetrics(s, storeMetrics), nil
}

// createFilesystemStore creates a store rooted at the configured directory.
func createFilesystemStore(ctx context.Context, options map[string]any) (store.FileStore, error) {
	var fsCfg filesystemStoreConfig
	if err := mapstructure.Decode(options, &fsCfg); err != nil {
		return nil, fmt.Errorf("invalid filesystem config: %w", err)
	}

	if fsCfg.Path == "" {
		return nil, fmt.Errorf("filesystem path is required")
	}

	s, err := storefs.NewFSFileStore(ctx, fsCfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize filesystem store: %w", err)
	}

	return s, nil
}

func createMemoryStore(ctx context.Context) (store.FileStore, error) {
	s, err := storememory.NewMemoryFileStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory store: %w", err)
	}
	return s, nil
}

// FilesOptions converts the files section into service options.
func FilesOptions(cfg *FilesConfig) files.Options {
	return files.Options{
		StrictExtensions: cfg.StrictExtensions,
		MaxNameAttempts:  cfg.MaxNameAttempts,
	}
}
