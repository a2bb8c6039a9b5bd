// Package api implements the SandboxFS HTTP API: handlers for the file
// operations, the error envelope, middleware and the route table that also
// drives the published API document.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marmos91/sandboxfs/internal/ratelimiter"
	"github.com/marmos91/sandboxfs/pkg/files"
	"github.com/marmos91/sandboxfs/pkg/metrics"
)

// DefaultMaxBodyBytes is the request body limit when none is configured.
const DefaultMaxBodyBytes int64 = 10 << 20

// Options configures the router.
type Options struct {
	// MaxBodyBytes caps request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// RateLimiter, if set, rejects excess requests with 429.
	RateLimiter *ratelimiter.Limiter

	// PerClient keys the rate limiter by client IP instead of globally.
	PerClient bool

	// Metrics receives request metrics. Nil means no-op.
	Metrics metrics.HTTPMetrics

	// Version is reported in the API document.
	Version string
}

// NewRouter builds the HTTP handler for service.
//
// Routes are registered explicitly from Routes(); /apispec.json and /docs
// are rendered from the same table.
func NewRouter(service *files.Service, opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoopHTTPMetrics()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	h := NewHandler(service)
	routes := Routes()
	docs := &docsHandlers{routes: routes, version: opts.Version}

	r := chi.NewRouter()
	r.Use(recoverer)
	r.Use(instrument(opts.Metrics))
	if opts.RateLimiter != nil && !opts.RateLimiter.Unlimited() {
		r.Use(rateLimit(opts.RateLimiter, opts.PerClient, opts.Metrics))
	}
	r.Use(limitBody(opts.MaxBodyBytes))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	for _, rt := range routes {
		r.Method(rt.Method, rt.Pattern, rt.handler(h))
	}

	r.Get("/apispec.json", docs.handleSpec)
	r.Get("/docs", docs.handleDocs)

	return r
}
