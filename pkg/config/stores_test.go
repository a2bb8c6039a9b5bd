package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateFileStore_Filesystem(t *testing.T) {
	root := filepath.Join(t.TempDir(), "managed")
	cfg := &StoreConfig{
		Type:       "filesystem",
		Filesystem: map[string]any{"path": root},
	}

	s, err := CreateFileStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create filesystem store: %v", err)
	}
	defer func() { _ = s.Close() }()

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Errorf("Expected managed directory to be created at %s", root)
	}

	if err := s.CreateExclusive(context.Background(), "a.txt", "hi"); err != nil {
		t.Fatalf("CreateExclusive failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "a.txt")); err != nil {
		t.Errorf("Expected file on disk: %v", err)
	}
}

func TestCreateFileStore_FilesystemMissingPath(t *testing.T) {
	cfg := &StoreConfig{
		Type:       "filesystem",
		Filesystem: map[string]any{},
	}

	if _, err := CreateFileStore(context.Background(), cfg, nil); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestCreateFileStore_FilesystemBadOption(t *testing.T) {
	cfg := &StoreConfig{
		Type:       "filesystem",
		Filesystem: map[string]any{"path": []int{1}},
	}

	if _, err := CreateFileStore(context.Background(), cfg, nil); err == nil {
		t.Error("Expected error for non-string path")
	}
}

func TestCreateFileStore_Memory(t *testing.T) {
	cfg := &StoreConfig{Type: "memory"}

	s, err := CreateFileStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}

	names, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected empty store, got %v", names)
	}
}

func TestCreateFileStore_UnknownType(t *testing.T) {
	cfg := &StoreConfig{Type: "s3"}

	if _, err := CreateFileStore(context.Background(), cfg, nil); err == nil {
		t.Error("Expected error for unknown store type")
	}
}

func TestCreateFileStore_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := CreateFileStore(ctx, &StoreConfig{Type: "memory"}, nil); err == nil {
		t.Error("Expected error for canceled context")
	}
}

func TestFilesOptions(t *testing.T) {
	opts := FilesOptions(&FilesConfig{StrictExtensions: true, MaxNameAttempts: 3})

	if !opts.StrictExtensions || opts.MaxNameAttempts != 3 {
		t.Errorf("Unexpected options: %+v", opts)
	}
}

func TestCreateAdapters(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Adapters.MCP.Enabled = true

	adapters, err := CreateAdapters(cfg, nil, "test")
	if err != nil {
		t.Fatalf("CreateAdapters failed: %v", err)
	}
	if len(adapters) != 2 {
		t.Fatalf("Expected 2 adapters, got %d", len(adapters))
	}
	if adapters[0].Protocol() != "HTTP" || adapters[1].Protocol() != "MCP" {
		t.Errorf("Unexpected protocols %s, %s", adapters[0].Protocol(), adapters[1].Protocol())
	}
}

func TestCreateAdapters_NoneEnabled(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Adapters.HTTP.Enabled = false

	if _, err := CreateAdapters(cfg, nil, "test"); err == nil {
		t.Error("Expected error when no adapters enabled")
	}
}

func TestInitializeMetrics_Disabled(t *testing.T) {
	result := InitializeMetrics(GetDefaultConfig())

	if result.Server != nil {
		t.Error("Expected no metrics server when disabled")
	}
	if result.HTTPMetrics == nil || result.StoreMetrics == nil {
		t.Error("Expected noop collectors when disabled")
	}
}
