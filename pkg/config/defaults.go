package config

import (
	"strings"
	"time"

	"github.com/marmos91/sandboxfs/pkg/adapter/rest"
	"github.com/marmos91/sandboxfs/pkg/api"
	"github.com/marmos91/sandboxfs/pkg/files"
	"github.com/marmos91/sandboxfs/pkg/metrics"
)

// DefaultManagedDir is where the filesystem store keeps files when no path
// is configured.
const DefaultManagedDir = "./managed_files"

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Backend-specific maps get their keys filled so that generated sample
//     files document every option
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyStoreDefaults(&cfg.Store)
	applyFilesDefaults(&cfg.Files)
	applyAdaptersDefaults(&cfg.Adapters)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = metrics.DefaultPort
	}
}

func applyStoreDefaults(cfg *StoreConfig) {
	if cfg.Type == "" {
		cfg.Type = "filesystem"
	}

	if cfg.Filesystem == nil {
		cfg.Filesystem = make(map[string]any)
	}
	if cfg.Memory == nil {
		cfg.Memory = make(map[string]any)
	}

	if _, ok := cfg.Filesystem["path"]; !ok {
		cfg.Filesystem["path"] = DefaultManagedDir
	}
}

func applyFilesDefaults(cfg *FilesConfig) {
	// StrictExtensions defaults to false: the allowlist gates reads only.
	if cfg.MaxNameAttempts == 0 {
		cfg.MaxNameAttempts = files.DefaultMaxNameAttempts
	}
}

// applyAdaptersDefaults sets adapter defaults.
func applyAdaptersDefaults(cfg *AdaptersConfig) {
	// A config with no adapter section at all serves HTTP. An explicit
	// "enabled: false" comes with other keys (or with MCP enabled), so
	// a zero port is used as the "unconfigured" marker.
	if !cfg.HTTP.Enabled && !cfg.MCP.Enabled && cfg.HTTP.Port == 0 {
		cfg.HTTP.Enabled = true
	}

	applyHTTPDefaults(&cfg.HTTP)
}

func applyHTTPDefaults(cfg *rest.Config) {
	if cfg.Port == 0 {
		cfg.Port = rest.DefaultPort
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 2 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = api.DefaultMaxBodyBytes
	}
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 50
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 100
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Store: StoreConfig{
			Filesystem: make(map[string]any),
			Memory:     make(map[string]any),
		},
		Adapters: AdaptersConfig{
			HTTP: rest.Config{
				Enabled: true,
				RateLimit: rest.RateLimitConfig{
					PerClient: true,
				},
			},
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
