// Package adapter defines the lifecycle contract for SandboxFS front ends.
package adapter

import (
	"context"

	"github.com/marmos91/sandboxfs/pkg/files"
)

// Adapter represents a protocol front end managed by server.Server.
//
// Each adapter exposes the file operations over one protocol (HTTP, MCP).
// All adapters share the same files.Service, so a file created over one
// protocol is immediately visible over the others.
//
// Lifecycle:
//  1. Creation: Adapter is created with protocol-specific configuration
//  2. Service injection: SetService() provides the shared file service
//  3. Startup: Serve() starts the protocol server and blocks until shutdown
//  4. Shutdown: Stop() initiates graceful shutdown with timeout
//
// Thread safety:
// Implementations must be safe for concurrent use. SetService() is called
// once before Serve(), but Stop() may be called concurrently with Serve().
type Adapter interface {
	// Serve starts the protocol server and blocks until the context is cancelled
	// or an unrecoverable error occurs.
	//
	// When the context is cancelled, Serve must stop accepting work, wait for
	// in-flight operations (bounded by its shutdown timeout) and return nil
	// or context.Canceled.
	//
	// If Serve returns before context cancellation, the server treats it as
	// a fatal error and stops all other adapters.
	Serve(ctx context.Context) error

	// SetService injects the shared file service.
	//
	// Called exactly once by the server before Serve().
	SetService(service *files.Service)

	// Stop initiates graceful shutdown of the protocol server.
	//
	// Implementations must be idempotent, safe to call concurrently with
	// Serve(), and respect the context deadline.
	Stop(ctx context.Context) error

	// Protocol returns the human-readable protocol name for logging.
	//
	// Examples: "HTTP", "MCP"
	Protocol() string

	// Port returns the TCP port the adapter listens on, or 0 for adapters
	// that do not listen on the network (stdio).
	Port() int
}
