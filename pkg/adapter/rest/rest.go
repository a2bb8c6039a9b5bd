// Package rest implements the HTTP adapter that serves the file API.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/sandboxfs/internal/logger"
	"github.com/marmos91/sandboxfs/internal/ratelimiter"
	"github.com/marmos91/sandboxfs/pkg/api"
	"github.com/marmos91/sandboxfs/pkg/files"
	"github.com/marmos91/sandboxfs/pkg/metrics"
)

// DefaultPort is the port the file API has always listened on.
const DefaultPort = 5001

// Config holds configuration parameters for the HTTP adapter.
//
// Default values (applied by New if zero):
//   - Port: 5001
//   - ReadTimeout: 30s
//   - WriteTimeout: 30s
//   - IdleTimeout: 2m
//   - ShutdownTimeout: 30s
//   - MaxBodyBytes: 10 MiB
type Config struct {
	// Enabled controls whether the HTTP adapter is active.
	Enabled bool `mapstructure:"enabled"`

	// Port is the TCP port to listen on.
	Port int `mapstructure:"port" validate:"min=0,max=65535"`

	// ReadTimeout bounds reading a whole request, body included.
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"min=0"`

	// WriteTimeout bounds writing the response.
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"min=0"`

	// IdleTimeout closes keep-alive connections idle for longer than this.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"min=0"`

	// ShutdownTimeout is how long in-flight requests get to finish on stop.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`

	// MaxBodyBytes caps request bodies; larger requests get 413.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"min=0"`

	// RateLimit configures request rate limiting.
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures the token bucket in front of the API.
type RateLimitConfig struct {
	// Enabled turns rate limiting on.
	Enabled bool `mapstructure:"enabled"`

	// RequestsPerSecond is the sustained rate per bucket.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"min=0"`

	// Burst is the bucket capacity.
	Burst int `mapstructure:"burst" validate:"min=0"`

	// PerClient gives each client IP its own bucket instead of one shared bucket.
	PerClient bool `mapstructure:"per_client"`
}

// applyDefaults fills in zero values with sensible defaults.
func (c *Config) applyDefaults() {
	// Enabled is defaulted in pkg/config so that an explicit false survives.
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 2 * time.Minute
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = api.DefaultMaxBodyBytes
	}
}

func (c *Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be 0-65535", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("timeouts must be >= 0")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid ShutdownTimeout %v: must be > 0", c.ShutdownTimeout)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("invalid MaxBodyBytes %d: must be >= 0", c.MaxBodyBytes)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit enabled but requests_per_second is %v", c.RateLimit.RequestsPerSecond)
	}
	return nil
}

// Adapter implements adapter.Adapter for the JSON file API.
//
// Shutdown flow:
//  1. Context cancelled or Stop() called
//  2. http.Server.Shutdown stops accepting and waits for in-flight requests
//  3. After ShutdownTimeout, remaining connections are closed
//
// Thread safety:
// All methods are safe for concurrent use. Stop() is idempotent.
type Adapter struct {
	config  Config
	metrics metrics.HTTPMetrics
	version string

	service *files.Service

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener

	shutdownOnce sync.Once
	shutdown     chan struct{}
}

// New creates a new HTTP adapter.
//
// Parameters:
//   - config: Listener, timeouts, body limit and rate limit
//   - httpMetrics: Optional metrics collector (nil for no metrics)
//   - version: Reported in the API document
//
// Panics if config validation fails.
func New(config Config, httpMetrics metrics.HTTPMetrics, version string) *Adapter {
	config.applyDefaults()

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid HTTP config: %v", err))
	}

	if httpMetrics == nil {
		httpMetrics = metrics.NewNoopHTTPMetrics()
	}

	return &Adapter{
		config:   config,
		metrics:  httpMetrics,
		version:  version,
		shutdown: make(chan struct{}),
	}
}

// SetService injects the shared file service.
func (a *Adapter) SetService(service *files.Service) {
	a.service = service
	logger.Debug("HTTP file service configured")
}

// Handler builds the HTTP handler from the configured service and options.
func (a *Adapter) Handler() http.Handler {
	opts := api.Options{
		MaxBodyBytes: a.config.MaxBodyBytes,
		Metrics:      a.metrics,
		Version:      a.version,
	}
	if a.config.RateLimit.Enabled {
		opts.RateLimiter = ratelimiter.New(a.config.RateLimit.RequestsPerSecond, a.config.RateLimit.Burst)
		opts.PerClient = a.config.RateLimit.PerClient
		logger.Debug("HTTP rate limit: %.1f req/s burst %d per_client=%v",
			a.config.RateLimit.RequestsPerSecond, a.config.RateLimit.Burst, a.config.RateLimit.PerClient)
	}
	return api.NewRouter(a.service, opts)
}

// Serve listens on the configured port and serves until ctx is cancelled.
//
// Returns:
//   - nil on graceful shutdown
//   - error if the listener cannot be created or the server fails
func (a *Adapter) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.config.Port))
	if err != nil {
		return fmt.Errorf("failed to create HTTP listener on port %d: %w", a.config.Port, err)
	}
	return a.serve(ctx, listener)
}

func (a *Adapter) serve(ctx context.Context, listener net.Listener) error {
	if a.service == nil {
		_ = listener.Close()
		return errors.New("HTTP adapter has no file service; call SetService() before Serve()")
	}

	server := &http.Server{
		Handler:      a.Handler(),
		ReadTimeout:  a.config.ReadTimeout,
		WriteTimeout: a.config.WriteTimeout,
		IdleTimeout:  a.config.IdleTimeout,
	}

	a.mu.Lock()
	select {
	case <-a.shutdown:
		a.mu.Unlock()
		_ = listener.Close()
		return nil
	default:
	}
	a.server = server
	a.listener = listener
	a.mu.Unlock()

	logger.Info("HTTP server listening on %s", listener.Addr())
	logger.Debug("HTTP config: read_timeout=%v write_timeout=%v idle_timeout=%v max_body_bytes=%d",
		a.config.ReadTimeout, a.config.WriteTimeout, a.config.IdleTimeout, a.config.MaxBodyBytes)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		logger.Info("HTTP shutdown signal received: %v", ctx.Err())
		// Don't use the cancelled ctx as it would cause immediate shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
		defer cancel()
		return a.Stop(shutdownCtx)

	case <-a.shutdown:
		// Stop() was called directly; wait for Serve to unwind.
		if err, ok := <-errChan; ok {
			return err
		}
		return nil

	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	}
}

// Stop gracefully shuts the server down. It is idempotent.
func (a *Adapter) Stop(ctx context.Context) error {
	var stopErr error
	a.shutdownOnce.Do(func() {
		close(a.shutdown)

		a.mu.Lock()
		server := a.server
		a.mu.Unlock()

		if server == nil {
			return
		}

		logger.Debug("HTTP server shutdown initiated")
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("HTTP graceful shutdown incomplete: %v; closing remaining connections", err)
			_ = server.Close()
			stopErr = fmt.Errorf("HTTP server shutdown: %w", err)
			return
		}
		logger.Info("HTTP server stopped gracefully")
	})
	return stopErr
}

// Protocol returns "HTTP".
func (a *Adapter) Protocol() string {
	return "HTTP"
}

// Port returns the configured TCP port.
func (a *Adapter) Port() int {
	return a.config.Port
}

// Addr returns the bound listener address, or nil before Serve.
func (a *Adapter) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}
